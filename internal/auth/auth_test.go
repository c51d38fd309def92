package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestIssueParseRoundTrip(t *testing.T) {
	s := NewService("test-secret")
	tok, err := s.IssueJWT("alice", RoleAuthor)
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.Sub != "alice" || c.Role != RoleAuthor {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewService("secret-a").IssueJWT("alice", RoleStudent)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewService("secret-b").Parse(tok); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	s := NewService("test-secret")
	h := LoginHandler(s, "teach", string(hash))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"author ok", `{"username":"teach","password":"hunter2","role":"author"}`, 200},
		{"author bad password", `{"username":"teach","password":"nope","role":"author"}`, 401},
		{"author wrong user", `{"username":"other","password":"hunter2","role":"author"}`, 401},
		{"student ok", `{"username":"bob"}`, 200},
		{"student no username", `{"role":"student"}`, 400},
		{"unknown role", `{"username":"x","role":"admin"}`, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status %d, want %d (%s)", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestJWTMiddlewareAndRole(t *testing.T) {
	s := NewService("test-secret")
	tok, _ := s.IssueJWT("bob", RoleStudent)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SubjectFromContext(r.Context()) != "bob" {
			t.Error("subject missing from context")
		}
		w.WriteHeader(200)
	})
	protected := JWTMiddleware(s)(inner)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("valid token: status %d, want 200", rec.Code)
	}

	authorOnly := JWTMiddleware(s)(RequireRole(RoleAuthor)(inner))
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	authorOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("student on author route: status %d, want 403", rec.Code)
	}
}

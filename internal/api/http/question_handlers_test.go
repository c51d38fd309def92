package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/qtype"
)

const mcqPayload = `{
	"type": "multiple_choice",
	"text": "Which planet is closest to the sun?",
	"points": 10,
	"options": [
		{"id": "a", "text": "Mercury", "isCorrect": true, "order": 0},
		{"id": "b", "text": "Venus", "order": 1},
		{"id": "c", "text": "Earth", "order": 2}
	],
	"correctAnswers": ["a"]
}`

func testRouter() http.Handler {
	reg := qtype.NewDefaultRegistry()
	r := chi.NewRouter()
	r.Post("/questions/validate", ValidateQuestionHandler(reg))
	r.Post("/questions/score", ScoreHandler(reg))
	r.Post("/questions/display", DisplayHandler(reg))
	r.Post("/questions/answer-check", AnswerCheckHandler(reg))
	r.Get("/question-types", ListTypesHandler(reg))
	r.Route("/question-types/{type}", func(tr chi.Router) {
		tr.Get("/schema", SchemaHandler(reg))
		tr.Get("/templates", TemplatesHandler(reg))
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestValidateEndpoint(t *testing.T) {
	h := testRouter()
	rec := doJSON(t, h, "POST", "/questions/validate", mcqPayload)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var res qtype.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
}

func TestValidateEndpointUnknownType(t *testing.T) {
	h := testRouter()
	rec := doJSON(t, h, "POST", "/questions/validate", `{"type":"nonexistent","text":"q","points":5}`)
	if rec.Code != 200 {
		t.Fatalf("unknown types are a validation outcome, not a transport error; status %d", rec.Code)
	}
	var res qtype.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.IsValid || len(res.Errors) != 1 || res.Errors[0] != "Unsupported question type: nonexistent" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScoreEndpoint(t *testing.T) {
	h := testRouter()
	body := `{"type":"multiple_choice","question":` + mcqPayload + `,"submission":["a"]}`
	rec := doJSON(t, h, "POST", "/questions/score", body)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var res map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["score"] != 1 {
		t.Errorf("score = %g, want 1", res["score"])
	}

	body = `{"type":"multiple_choice","question":` + mcqPayload + `,"submission":["b"]}`
	rec = doJSON(t, h, "POST", "/questions/score", body)
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res["score"] != 0 {
		t.Errorf("score = %g, want 0", res["score"])
	}
}

func TestScoreEndpointBadSubmission(t *testing.T) {
	h := testRouter()
	body := `{"type":"multiple_choice","question":` + mcqPayload + `,"submission":42}`
	rec := doJSON(t, h, "POST", "/questions/score", body)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDisplayEndpointRedacts(t *testing.T) {
	h := testRouter()
	body := `{"type":"multiple_choice","question":` + mcqPayload + `,"forStudent":true}`
	rec := doJSON(t, h, "POST", "/questions/display", body)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["correctAnswers"]; ok {
		t.Error("student display leaked correctAnswers")
	}
}

func TestAnswerCheckEndpoint(t *testing.T) {
	h := testRouter()
	sa := `{"type":"short_answer","text":"Describe photosynthesis","points":10,
		"answerOptions":[{"id":"a","text":"light to chemical energy","isCorrect":true}],
		"minWords":5}`
	body := `{"type":"short_answer","question":` + sa + `,"submission":"too short"}`
	rec := doJSON(t, h, "POST", "/questions/answer-check", body)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var res map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res["errors"]) != 1 || !strings.Contains(res["errors"][0], "at least 5 words (current: 2)") {
		t.Errorf("unexpected errors: %v", res["errors"])
	}
}

func TestTypeEndpoints(t *testing.T) {
	h := testRouter()

	rec := doJSON(t, h, "GET", "/question-types", "")
	var types []qtype.TypeMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &types); err != nil {
		t.Fatal(err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(types))
	}

	rec = doJSON(t, h, "GET", "/question-types/multiple_choice/schema", "")
	if rec.Code != 200 {
		t.Fatalf("schema status %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/question-types/nonexistent/schema", "")
	if rec.Code != 404 {
		t.Fatalf("expected 404 for unknown type, got %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/question-types/short_answer/templates", "")
	var tpls []qtype.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &tpls); err != nil {
		t.Fatal(err)
	}
	if len(tpls) == 0 {
		t.Fatal("expected templates")
	}
}

package qtype

import (
	"strings"
	"testing"
)

func TestValidateBasicFields(t *testing.T) {
	ok := Question{Text: "What is 2+2?", Type: TypeMultipleChoice, Points: 10}
	if errs := ValidateBasicFields(ok); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	cases := []struct {
		name string
		q    Question
		want string
	}{
		{"empty text", Question{Points: 10}, "text is required"},
		{"whitespace text", Question{Text: "   ", Points: 10}, "text is required"},
		{"long text", Question{Text: strings.Repeat("x", 2001), Points: 10}, "cannot exceed 2000"},
		{"zero points", Question{Text: "q", Points: 0}, "points must be between"},
		{"too many points", Question{Text: "q", Points: 101}, "points must be between"},
		{"bad difficulty", Question{Text: "q", Points: 1, Difficulty: "extreme"}, "difficulty"},
		{"time limit too long", Question{Text: "q", Points: 1, TimeLimit: 3601}, "timeLimit"},
		{"negative time limit", Question{Text: "q", Points: 1, TimeLimit: -5}, "timeLimit"},
		{"too many attempts", Question{Text: "q", Points: 1, MaxAttempts: 11}, "maxAttempts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateBasicFields(tc.q)
			if !containsSubstring(errs, tc.want) {
				t.Errorf("want error containing %q, got %v", tc.want, errs)
			}
		})
	}
}

func TestValidateBasicFieldsBoundary(t *testing.T) {
	q := Question{Text: strings.Repeat("a", 2000), Points: 100, TimeLimit: 3600, MaxAttempts: 10, Difficulty: "hard"}
	if errs := ValidateBasicFields(q); len(errs) != 0 {
		t.Fatalf("boundary values should pass, got %v", errs)
	}
}

func TestValidateTags(t *testing.T) {
	if errs := ValidateTags([]string{"math", "grade 7", "algebra-1", "unit_2"}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	many := make([]string, 11)
	for i := range many {
		many[i] = "tag"
	}
	if errs := ValidateTags(many); !containsSubstring(errs, "more than 10 tags") {
		t.Errorf("want tag-count error, got %v", errs)
	}

	if errs := ValidateTags([]string{strings.Repeat("a", 51)}); !containsSubstring(errs, "cannot exceed 50") {
		t.Errorf("want tag-length error, got %v", errs)
	}

	for _, bad := range []string{"math!", "a/b", "tag#1", ""} {
		if errs := ValidateTags([]string{bad}); len(errs) == 0 {
			t.Errorf("tag %q should be rejected", bad)
		}
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

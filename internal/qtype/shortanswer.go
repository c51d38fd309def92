package qtype

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const TypeShortAnswer = "short_answer"

const (
	saMinOptions = 1
	saMaxOptions = 20
	// rough average used to sanity-check word bounds against character
	// bounds; ~5 letters per word, +1 for the separator on the upper side
	avgCharsPerWord = 5
	maxCharsPerWord = 6
)

type shortAnswerProvider struct{}

func (*shortAnswerProvider) Type() string { return TypeShortAnswer }

func (p *shortAnswerProvider) Validate(raw json.RawMessage) ValidationResult {
	var q ShortAnswerQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return validationResult([]string{"invalid question payload: " + err.Error()}, nil)
	}
	errs := ValidateBasicFields(q.Question)
	errs = append(errs, ValidateTags(q.Tags)...)
	errs = append(errs, validateAnswerOptions(q.AnswerOptions)...)
	errs = append(errs, validateAnswerBounds(q)...)
	errs = append(errs, validateSAPartialCredit(q)...)

	var warns []string
	if len(q.AnswerOptions) > 10 {
		warns = append(warns, "more than 10 answer options is hard to maintain")
	}
	return validationResult(errs, warns)
}

func validateAnswerOptions(opts []AnswerOption) []string {
	var errs []string
	if len(opts) < saMinOptions {
		errs = append(errs, "at least one answer option is required")
	}
	if len(opts) > saMaxOptions {
		errs = append(errs, fmt.Sprintf("cannot have more than %d answer options", saMaxOptions))
	}
	ids := map[string]struct{}{}
	texts := map[string]struct{}{}
	anyCorrect := false
	for _, o := range opts {
		if o.ID == "" {
			errs = append(errs, "every answer option needs an id")
			continue
		}
		if _, dup := ids[o.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate answer option id: %s", o.ID))
		}
		ids[o.ID] = struct{}{}

		if strings.TrimSpace(o.Text) == "" {
			errs = append(errs, fmt.Sprintf("answer option %s: text is required", o.ID))
		} else {
			if utf8.RuneCountInString(o.Text) > maxOptionText {
				errs = append(errs, fmt.Sprintf("answer option %s: text cannot exceed %d characters", o.ID, maxOptionText))
			}
			key := strings.ToLower(strings.TrimSpace(o.Text))
			if _, dup := texts[key]; dup {
				errs = append(errs, fmt.Sprintf("answer option %s: duplicate answer text", o.ID))
			}
			texts[key] = struct{}{}
		}
		if o.Points != nil && (*o.Points < 0 || *o.Points > 100) {
			errs = append(errs, fmt.Sprintf("answer option %s: points must be between 0 and 100", o.ID))
		}
		if o.Order < 0 {
			errs = append(errs, fmt.Sprintf("answer option %s: order cannot be negative", o.ID))
		}
		if o.IsCorrect {
			anyCorrect = true
		}
	}
	if len(opts) > 0 && !anyCorrect {
		errs = append(errs, "at least one answer option must be marked correct")
	}
	return errs
}

func validateAnswerBounds(q ShortAnswerQuestion) []string {
	var errs []string
	if q.MinWords > 0 && q.MaxWords > 0 && q.MinWords > q.MaxWords {
		errs = append(errs, "minWords cannot exceed maxWords")
	}
	if q.MinCharacters > 0 && q.MaxCharacters > 0 && q.MinCharacters > q.MaxCharacters {
		errs = append(errs, "minCharacters cannot exceed maxCharacters")
	}
	// The character window has to plausibly fit the word window.
	if q.MinWords > 0 && q.MaxCharacters > 0 && q.MinWords*avgCharsPerWord > q.MaxCharacters {
		errs = append(errs, fmt.Sprintf("maxCharacters %d is too small for %d words (~%d characters per word)",
			q.MaxCharacters, q.MinWords, avgCharsPerWord))
	}
	if q.MaxWords > 0 && q.MinCharacters > 0 && q.MaxWords*maxCharsPerWord < q.MinCharacters {
		errs = append(errs, fmt.Sprintf("minCharacters %d cannot be reached within %d words",
			q.MinCharacters, q.MaxWords))
	}
	return errs
}

func validateSAPartialCredit(q ShortAnswerQuestion) []string {
	if !q.PartialCredit {
		return nil
	}
	var errs []string
	if len(q.AnswerOptions) < 2 {
		errs = append(errs, "partial credit requires at least 2 answer options")
	}
	sum := 0.0
	missing := false
	for _, o := range q.AnswerOptions {
		if o.Points == nil {
			missing = true
			continue
		}
		sum += *o.Points
	}
	if missing {
		errs = append(errs, "partial credit requires points on every answer option")
	} else if sum != q.Points {
		errs = append(errs, fmt.Sprintf("answer option points must sum to question points (got %g, want %g)", sum, q.Points))
	}
	return errs
}

func (p *shortAnswerProvider) Score(raw json.RawMessage, submission any) (float64, error) {
	var q ShortAnswerQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return 0, fmt.Errorf("invalid question payload: %w", err)
	}
	answer, ok := submission.(string)
	if !ok {
		return 0, fmt.Errorf("short-answer submission must be a string")
	}
	return scoreShortAnswer(answer, q), nil
}

func scoreShortAnswer(answer string, q ShortAnswerQuestion) float64 {
	norm := normalizeAnswer(answer, q.CaseSensitive)
	if q.ExactMatch {
		// First-match semantics: options are tried in authored order.
		for _, o := range q.AnswerOptions {
			if !o.IsCorrect {
				continue
			}
			if normalizeAnswer(o.Text, q.CaseSensitive) == norm {
				return answerPoints(o, q)
			}
			for _, syn := range o.Synonyms {
				if normalizeAnswer(syn, q.CaseSensitive) == norm {
					return answerPoints(o, q)
				}
			}
		}
		return 0
	}
	// Fuzzy: best similarity-weighted score across every correct option's
	// text and synonyms. Similarity is in [0,1], so points cap the score.
	best := 0.0
	for _, o := range q.AnswerOptions {
		if !o.IsCorrect {
			continue
		}
		pts := answerPoints(o, q)
		candidates := append([]string{o.Text}, o.Synonyms...)
		for _, c := range candidates {
			if s := similarity(normalizeAnswer(c, q.CaseSensitive), norm) * pts; s > best {
				best = s
			}
		}
	}
	return best
}

// answerPoints falls back to the question's points when the option carries
// none, so simple single-answer questions don't have to repeat the value.
func answerPoints(o AnswerOption, q ShortAnswerQuestion) float64 {
	if o.Points != nil {
		return *o.Points
	}
	return q.Points
}

func (p *shortAnswerProvider) AnswerConstraints(raw json.RawMessage, submission any) []string {
	var q ShortAnswerQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return []string{"invalid question payload: " + err.Error()}
	}
	answer, ok := submission.(string)
	if !ok {
		return []string{"short-answer submission must be a string"}
	}
	return CheckAnswerConstraints(answer, q.MinWords, q.MaxWords, q.MinCharacters, q.MaxCharacters)
}

// CheckAnswerConstraints reports every violated bound separately. Words are
// whitespace tokens; characters are counted on the raw, untrimmed answer.
func CheckAnswerConstraints(answer string, minWords, maxWords, minChars, maxChars int) []string {
	var errs []string
	words := len(strings.Fields(answer))
	chars := utf8.RuneCountInString(answer)
	if minWords > 0 && words < minWords {
		errs = append(errs, fmt.Sprintf("answer must contain at least %d words (current: %d)", minWords, words))
	}
	if maxWords > 0 && words > maxWords {
		errs = append(errs, fmt.Sprintf("answer cannot exceed %d words (current: %d)", maxWords, words))
	}
	if minChars > 0 && chars < minChars {
		errs = append(errs, fmt.Sprintf("answer must contain at least %d characters (current: %d)", minChars, chars))
	}
	if maxChars > 0 && chars > maxChars {
		errs = append(errs, fmt.Sprintf("answer cannot exceed %d characters (current: %d)", maxChars, chars))
	}
	return errs
}

type saStudentView struct {
	Question
	CaseSensitive bool `json:"caseSensitive"`
	ExactMatch    bool `json:"exactMatch"`
	MinWords      int  `json:"minWords,omitempty"`
	MaxWords      int  `json:"maxWords,omitempty"`
	MinCharacters int  `json:"minCharacters,omitempty"`
	MaxCharacters int  `json:"maxCharacters,omitempty"`
}

func (p *shortAnswerProvider) Display(raw json.RawMessage, forStudent bool) (json.RawMessage, error) {
	var q ShortAnswerQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("invalid question payload: %w", err)
	}
	if !forStudent {
		return json.Marshal(q)
	}
	view := saStudentView{
		Question:      q.Question,
		CaseSensitive: q.CaseSensitive,
		ExactMatch:    q.ExactMatch,
		MinWords:      q.MinWords,
		MaxWords:      q.MaxWords,
		MinCharacters: q.MinCharacters,
		MaxCharacters: q.MaxCharacters,
	}
	view.Explanation = ""
	return json.Marshal(view)
}

func (*shortAnswerProvider) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answerOptions": map[string]any{
				"type":     "array",
				"minItems": saMinOptions,
				"maxItems": saMaxOptions,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "text"},
					"properties": map[string]any{
						"id":        map[string]any{"type": "string"},
						"text":      map[string]any{"type": "string", "maxLength": maxOptionText},
						"isCorrect": map[string]any{"type": "boolean"},
						"points":    map[string]any{"type": "number", "minimum": 0, "maximum": 100},
						"synonyms":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"order":     map[string]any{"type": "integer", "minimum": 0},
					},
				},
			},
			"caseSensitive": map[string]any{"type": "boolean"},
			"exactMatch":    map[string]any{"type": "boolean"},
			"partialCredit": map[string]any{"type": "boolean"},
			"minWords":      map[string]any{"type": "integer", "minimum": 1},
			"maxWords":      map[string]any{"type": "integer", "minimum": 1},
			"minCharacters": map[string]any{"type": "integer", "minimum": 1},
			"maxCharacters": map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []string{"answerOptions"},
	}
}

func (*shortAnswerProvider) DefaultSettings() map[string]any {
	return map[string]any{
		"caseSensitive": false,
		"exactMatch":    true,
		"partialCredit": false,
	}
}

func (*shortAnswerProvider) ValidationRules() map[string]any {
	return map[string]any{
		"minAnswerOptions":    saMinOptions,
		"maxAnswerOptions":    saMaxOptions,
		"maxAnswerTextLength": maxOptionText,
		"uniqueAnswerIds":     true,
		"uniqueAnswerText":    true,
	}
}

func (*shortAnswerProvider) Metadata() TypeMetadata {
	return TypeMetadata{
		Type:                  TypeShortAnswer,
		Name:                  "Short Answer",
		Description:           "Free-text answer graded against accepted answers and synonyms.",
		Category:              "text",
		SupportsPartialCredit: true,
		SupportsAutoGrading:   true,
	}
}

func (*shortAnswerProvider) Templates() []Template {
	return []Template{
		{
			Name:        "Exact match",
			Description: "Case-insensitive exact answer with synonyms.",
			Question: map[string]any{
				"type":   TypeShortAnswer,
				"text":   "What is the capital of France?",
				"points": 100,
				"answerOptions": []map[string]any{
					{"id": "a", "text": "Paris", "isCorrect": true, "points": 100, "synonyms": []string{"paris, france"}, "order": 0},
				},
				"caseSensitive": false,
				"exactMatch":    true,
			},
		},
		{
			Name:        "Fuzzy match",
			Description: "Awards partial points for near-correct spelling.",
			Question: map[string]any{
				"type":   TypeShortAnswer,
				"text":   "Which scientist proposed the theory of general relativity?",
				"points": 50,
				"answerOptions": []map[string]any{
					{"id": "a", "text": "Albert Einstein", "isCorrect": true, "points": 50, "synonyms": []string{"Einstein"}, "order": 0},
				},
				"caseSensitive": false,
				"exactMatch":    false,
				"minWords":      1,
				"maxWords":      5,
			},
		},
	}
}

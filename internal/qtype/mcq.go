package qtype

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const TypeMultipleChoice = "multiple_choice"

const (
	mcqMinOptions = 2
	mcqMaxOptions = 10
	maxOptionText = 500
)

type multipleChoiceProvider struct {
	shuffle func(n int, swap func(i, j int))
}

func (*multipleChoiceProvider) Type() string { return TypeMultipleChoice }

func (p *multipleChoiceProvider) Validate(raw json.RawMessage) ValidationResult {
	var q MultipleChoiceQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return validationResult([]string{"invalid question payload: " + err.Error()}, nil)
	}
	errs := ValidateBasicFields(q.Question)
	errs = append(errs, ValidateTags(q.Tags)...)
	errs = append(errs, validateOptions(q.Options)...)
	errs = append(errs, validateCorrectAnswers(q)...)
	errs = append(errs, validateMCQPartialCredit(q)...)

	var warns []string
	if len(q.Options) < 3 {
		warns = append(warns, "questions with fewer than 3 options are easy to guess")
	}
	if len(q.Options) > 6 {
		warns = append(warns, "more than 6 options can overwhelm students")
	}
	if q.PenaltyForIncorrect > 0.5 {
		warns = append(warns, "penalty above 0.5 is unusually harsh")
	}
	if q.PartialCredit && !q.AllowMultipleAnswers {
		warns = append(warns, "partial credit has no effect when multiple answers are disabled")
	}
	return validationResult(errs, warns)
}

func validateOptions(opts []Option) []string {
	var errs []string
	if len(opts) < mcqMinOptions {
		errs = append(errs, fmt.Sprintf("must have at least %d options", mcqMinOptions))
	}
	if len(opts) > mcqMaxOptions {
		errs = append(errs, fmt.Sprintf("cannot have more than %d options", mcqMaxOptions))
	}
	ids := map[string]struct{}{}
	texts := map[string]struct{}{}
	for _, o := range opts {
		if o.ID == "" {
			errs = append(errs, "every option needs an id")
			continue
		}
		if _, dup := ids[o.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate option id: %s", o.ID))
		}
		ids[o.ID] = struct{}{}

		if strings.TrimSpace(o.Text) == "" {
			errs = append(errs, fmt.Sprintf("option %s: text is required", o.ID))
		} else {
			if utf8.RuneCountInString(o.Text) > maxOptionText {
				errs = append(errs, fmt.Sprintf("option %s: text cannot exceed %d characters", o.ID, maxOptionText))
			}
			key := strings.ToLower(strings.TrimSpace(o.Text))
			if _, dup := texts[key]; dup {
				errs = append(errs, fmt.Sprintf("option %s: duplicate option text", o.ID))
			}
			texts[key] = struct{}{}
		}
		if o.Points != nil && (*o.Points < 0 || *o.Points > 100) {
			errs = append(errs, fmt.Sprintf("option %s: points must be between 0 and 100", o.ID))
		}
		if o.Order < 0 {
			errs = append(errs, fmt.Sprintf("option %s: order cannot be negative", o.ID))
		}
	}
	return errs
}

func validateCorrectAnswers(q MultipleChoiceQuestion) []string {
	var errs []string
	if len(q.CorrectAnswers) == 0 {
		errs = append(errs, "at least one correct answer is required")
		return errs
	}
	ids := map[string]struct{}{}
	for _, o := range q.Options {
		ids[o.ID] = struct{}{}
	}
	for _, id := range q.CorrectAnswers {
		if _, ok := ids[id]; !ok {
			errs = append(errs, fmt.Sprintf("correct answer references unknown option: %s", id))
		}
	}
	if !q.AllowMultipleAnswers && len(q.CorrectAnswers) > 1 {
		errs = append(errs, "single-answer questions must have exactly one correct answer")
	}
	// The isCorrect flags and correctAnswers are two views of the same key;
	// a mismatch means the authored key is internally inconsistent.
	flagged := map[string]struct{}{}
	for _, o := range q.Options {
		if o.IsCorrect {
			flagged[o.ID] = struct{}{}
		}
	}
	if !setEqual(flagged, toSet(q.CorrectAnswers)) {
		errs = append(errs, "options marked isCorrect must match correctAnswers exactly")
	}
	return errs
}

func validateMCQPartialCredit(q MultipleChoiceQuestion) []string {
	if !q.PartialCredit {
		return nil
	}
	var errs []string
	if !q.AllowMultipleAnswers {
		errs = append(errs, "partial credit requires allowMultipleAnswers")
	}
	sum := 0.0
	missing := false
	for _, o := range q.Options {
		if o.Points == nil {
			missing = true
			continue
		}
		sum += *o.Points
	}
	if missing {
		errs = append(errs, "partial credit requires points on every option")
	} else if sum != q.Points {
		errs = append(errs, fmt.Sprintf("option points must sum to question points (got %g, want %g)", sum, q.Points))
	}
	return errs
}

func (p *multipleChoiceProvider) Score(raw json.RawMessage, submission any) (float64, error) {
	var q MultipleChoiceQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return 0, fmt.Errorf("invalid question payload: %w", err)
	}
	selected, ok := toStringSlice(submission)
	if !ok {
		return 0, fmt.Errorf("multiple-choice submission must be a list of option ids")
	}
	return scoreMultipleChoice(selected, q.CorrectAnswers, q.Options, q.PartialCredit), nil
}

// scoreMultipleChoice grades a set of selected option ids. Binary mode is
// exact-set equality, 1 or 0. Partial-credit mode sums the points of correct
// selections, subtracts the points of incorrect ones and floors at zero;
// unselected correct options earn nothing.
func scoreMultipleChoice(selected, correct []string, options []Option, partialCredit bool) float64 {
	sel := toSet(selected)
	cor := toSet(correct)
	if !partialCredit {
		if setEqual(sel, cor) {
			return 1
		}
		return 0
	}
	pointsByID := make(map[string]float64, len(options))
	for _, o := range options {
		if o.Points != nil {
			pointsByID[o.ID] = *o.Points
		}
	}
	score := 0.0
	for id := range sel {
		if _, ok := cor[id]; ok {
			score += pointsByID[id]
		} else {
			score -= pointsByID[id]
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// shuffleOptions returns a uniformly shuffled copy with each option's Order
// rewritten to its new index. The input slice is untouched.
func shuffleOptions(opts []Option, shuffle func(n int, swap func(i, j int))) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		out[i].Order = i
	}
	return out
}

func (p *multipleChoiceProvider) AnswerConstraints(json.RawMessage, any) []string {
	// Option ids are either valid or scored zero; nothing to pre-screen.
	return nil
}

// mcqStudentOption is what a learner is allowed to see of an option.
// isCorrect, points and the per-option explanation all leak the key.
type mcqStudentOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type mcqStudentView struct {
	Question
	Options              []mcqStudentOption `json:"options"`
	AllowMultipleAnswers bool               `json:"allowMultipleAnswers"`
	RandomizeOptions     bool               `json:"randomizeOptions"`
}

func (p *multipleChoiceProvider) Display(raw json.RawMessage, forStudent bool) (json.RawMessage, error) {
	var q MultipleChoiceQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("invalid question payload: %w", err)
	}
	if !forStudent {
		return json.Marshal(q)
	}
	opts := q.Options
	if q.RandomizeOptions {
		opts = shuffleOptions(opts, p.shuffle)
	}
	view := mcqStudentView{
		Question:             q.Question,
		Options:              make([]mcqStudentOption, len(opts)),
		AllowMultipleAnswers: q.AllowMultipleAnswers,
		RandomizeOptions:     q.RandomizeOptions,
	}
	view.Explanation = ""
	for i, o := range opts {
		view.Options[i] = mcqStudentOption{ID: o.ID, Text: o.Text, Order: o.Order}
	}
	return json.Marshal(view)
}

func (*multipleChoiceProvider) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options": map[string]any{
				"type":     "array",
				"minItems": mcqMinOptions,
				"maxItems": mcqMaxOptions,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "text"},
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"text":        map[string]any{"type": "string", "maxLength": maxOptionText},
						"isCorrect":   map[string]any{"type": "boolean"},
						"points":      map[string]any{"type": "number", "minimum": 0, "maximum": 100},
						"order":       map[string]any{"type": "integer", "minimum": 0},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
			"correctAnswers":       map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
			"allowMultipleAnswers": map[string]any{"type": "boolean"},
			"partialCredit":        map[string]any{"type": "boolean"},
			"penaltyForIncorrect":  map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"randomizeOptions":     map[string]any{"type": "boolean"},
		},
		"required": []string{"options", "correctAnswers"},
	}
}

func (*multipleChoiceProvider) DefaultSettings() map[string]any {
	return map[string]any{
		"allowMultipleAnswers": false,
		"partialCredit":        false,
		"penaltyForIncorrect":  0,
		"randomizeOptions":     true,
	}
}

func (*multipleChoiceProvider) ValidationRules() map[string]any {
	return map[string]any{
		"minOptions":          mcqMinOptions,
		"maxOptions":          mcqMaxOptions,
		"maxOptionTextLength": maxOptionText,
		"minCorrectAnswers":   1,
		"uniqueOptionIds":     true,
		"uniqueOptionText":    true,
	}
}

func (*multipleChoiceProvider) Metadata() TypeMetadata {
	return TypeMetadata{
		Type:                  TypeMultipleChoice,
		Name:                  "Multiple Choice",
		Description:           "Pick one or more options from a fixed list.",
		Category:              "objective",
		SupportsPartialCredit: true,
		SupportsAutoGrading:   true,
	}
}

func (*multipleChoiceProvider) Templates() []Template {
	return []Template{
		{
			Name:        "Single answer",
			Description: "One correct option out of four.",
			Question: map[string]any{
				"type":   TypeMultipleChoice,
				"text":   "Which planet is closest to the sun?",
				"points": 10,
				"options": []map[string]any{
					{"id": "a", "text": "Mercury", "isCorrect": true, "order": 0},
					{"id": "b", "text": "Venus", "isCorrect": false, "order": 1},
					{"id": "c", "text": "Earth", "isCorrect": false, "order": 2},
					{"id": "d", "text": "Mars", "isCorrect": false, "order": 3},
				},
				"correctAnswers":       []string{"a"},
				"allowMultipleAnswers": false,
			},
		},
		{
			Name:        "Multiple answers with partial credit",
			Description: "Several correct options, each worth its own points.",
			Question: map[string]any{
				"type":   TypeMultipleChoice,
				"text":   "Which of these are prime numbers?",
				"points": 10,
				"options": []map[string]any{
					{"id": "a", "text": "2", "isCorrect": true, "points": 5, "order": 0},
					{"id": "b", "text": "5", "isCorrect": true, "points": 5, "order": 1},
					{"id": "c", "text": "6", "isCorrect": false, "points": 0, "order": 2},
					{"id": "d", "text": "9", "isCorrect": false, "points": 0, "order": 3},
				},
				"correctAnswers":       []string{"a", "b"},
				"allowMultipleAnswers": true,
				"partialCredit":        true,
			},
		},
	}
}

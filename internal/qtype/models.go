package qtype

// Question holds the fields shared by every question type. Type-specific
// structs embed it so a full payload unmarshals in one pass.
type Question struct {
	Text        string         `json:"text"`
	Type        string         `json:"type"`
	Points      float64        `json:"points"`
	Difficulty  string         `json:"difficulty,omitempty"` // easy|medium|hard
	Tags        []string       `json:"tags,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Hints       []string       `json:"hints,omitempty"`
	TimeLimit   int            `json:"timeLimit,omitempty"` // seconds
	MaxAttempts int            `json:"maxAttempts,omitempty"`
	IsActive    bool           `json:"isActive,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Option is one multiple-choice alternative. Points is a pointer so
// "not set" is distinguishable from an explicit zero; partial-credit
// validation depends on that.
type Option struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	IsCorrect   bool     `json:"isCorrect"`
	Points      *float64 `json:"points,omitempty"`
	Order       int      `json:"order"`
	Explanation string   `json:"explanation,omitempty"`
}

type MultipleChoiceQuestion struct {
	Question
	Options              []Option `json:"options"`
	CorrectAnswers       []string `json:"correctAnswers"`
	AllowMultipleAnswers bool     `json:"allowMultipleAnswers"`
	PartialCredit        bool     `json:"partialCredit"`
	PenaltyForIncorrect  float64  `json:"penaltyForIncorrect"`
	RandomizeOptions     bool     `json:"randomizeOptions"`
}

// AnswerOption is one accepted short answer plus its synonyms.
type AnswerOption struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	IsCorrect bool     `json:"isCorrect"`
	Points    *float64 `json:"points,omitempty"`
	Synonyms  []string `json:"synonyms,omitempty"`
	Order     int      `json:"order"`
}

type ShortAnswerQuestion struct {
	Question
	AnswerOptions []AnswerOption `json:"answerOptions"`
	CaseSensitive bool           `json:"caseSensitive"`
	ExactMatch    bool           `json:"exactMatch"`
	PartialCredit bool           `json:"partialCredit"`
	MinWords      int            `json:"minWords,omitempty"`
	MaxWords      int            `json:"maxWords,omitempty"`
	MinCharacters int            `json:"minCharacters,omitempty"`
	MaxCharacters int            `json:"maxCharacters,omitempty"`
}

// ValidationResult is the outcome of validating one question payload.
// Errors block saving; warnings are advisory only.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func validationResult(errs, warns []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// TypeMetadata describes a question type for authoring UIs.
type TypeMetadata struct {
	Type                  string `json:"type"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	Category              string `json:"category"`
	SupportsPartialCredit bool   `json:"supportsPartialCredit"`
	SupportsAutoGrading   bool   `json:"supportsAutoGrading"`
}

// Template is a ready-made example question for authoring UIs.
type Template struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Question    map[string]any `json:"question"`
}

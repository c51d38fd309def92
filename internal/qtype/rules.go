package qtype

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Shared validation rules. Pure functions over the common fields; failures
// come back as entries in the returned slice, never as errors or panics.

const (
	maxTextLen   = 2000
	minPoints    = 1
	maxPoints    = 100
	maxTimeLimit = 3600
	maxAttempts  = 10
	maxTags      = 10
	maxTagLen    = 50
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9\s\-_]+$`)

// ValidateBasicFields checks the fields every question type carries.
func ValidateBasicFields(q Question) []string {
	var errs []string
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, "question text is required")
	} else if utf8.RuneCountInString(q.Text) > maxTextLen {
		errs = append(errs, fmt.Sprintf("question text cannot exceed %d characters", maxTextLen))
	}
	if q.Points < minPoints || q.Points > maxPoints {
		errs = append(errs, fmt.Sprintf("points must be between %d and %d", minPoints, maxPoints))
	}
	switch q.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		errs = append(errs, "difficulty must be easy, medium or hard")
	}
	if q.TimeLimit != 0 && (q.TimeLimit < 1 || q.TimeLimit > maxTimeLimit) {
		errs = append(errs, fmt.Sprintf("timeLimit must be between 1 and %d seconds", maxTimeLimit))
	}
	if q.MaxAttempts != 0 && (q.MaxAttempts < 1 || q.MaxAttempts > maxAttempts) {
		errs = append(errs, fmt.Sprintf("maxAttempts must be between 1 and %d", maxAttempts))
	}
	return errs
}

// ValidateTags checks tag count, length and character set.
func ValidateTags(tags []string) []string {
	var errs []string
	if len(tags) > maxTags {
		errs = append(errs, fmt.Sprintf("cannot have more than %d tags", maxTags))
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLen {
			errs = append(errs, fmt.Sprintf("tag %q cannot exceed %d characters", t, maxTagLen))
			continue
		}
		if !tagPattern.MatchString(t) {
			errs = append(errs, fmt.Sprintf("tag %q may only contain letters, digits, spaces, hyphens and underscores", t))
		}
	}
	return errs
}

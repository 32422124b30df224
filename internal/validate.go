package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinDuration is the shortest event accepted by Validate.
const MinDuration = 15 * time.Minute

// ValidationError collects every rule an event breaks, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"title", "startsAt", "endsAt", "category", "status"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return fmt.Sprintf("%v: %s", ErrInvalidEvent, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEvent
}

// Validate applies the rules an event has to follow before it is handed to
// the store. The store itself never calls it. now is only used for events
// without an ID, whose start must not be in the past.
func (e Event) Validate(now time.Time) error {
	fields := make(map[string]string)

	if strings.TrimSpace(e.Title) == "" {
		fields["title"] = "title is required"
	}
	if e.StartsAt.IsZero() {
		fields["startsAt"] = "start date is required"
	}
	if e.EndsAt.IsZero() {
		fields["endsAt"] = "end date is required"
	}
	if e.Category != "" && !e.Category.Valid() {
		fields["category"] = fmt.Sprintf("unknown category %q", e.Category)
	}
	if e.Status != "" {
		if _, err := ParseStatus(e.Status.String()); err != nil {
			fields["status"] = fmt.Sprintf("unknown status %q", e.Status)
		}
	}

	if !e.StartsAt.IsZero() && !e.EndsAt.IsZero() {
		if e.ID == "" && e.StartsAt.Before(now) {
			fields["startsAt"] = "start date should be after the current time"
		}
		start, end := e.StartsAt, e.EndsAt.In(e.StartsAt.Location())
		switch {
		case !start.Before(end):
			fields["endsAt"] = "end date should be after the start date"
		case start.YearDay() != end.YearDay() || start.Year() != end.Year():
			fields["endsAt"] = "start and end should be on the same day"
		case end.Sub(start) < MinDuration:
			fields["endsAt"] = fmt.Sprintf("event should last at least %s", MinDuration)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

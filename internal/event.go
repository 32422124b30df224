package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnavailable  = errors.New("storage is unavailable")
	ErrDuplicateID  = errors.New("event id already exists")
	ErrMissingID    = errors.New("event id is required")
	ErrInvalidEvent = errors.New("invalid event")
)

type Event struct {
	ID          string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Category    Category
	Status      Status
}

func (e Event) Duration() time.Duration {
	return e.EndsAt.Sub(e.StartsAt)
}

func (e Event) String() string {
	return fmt.Sprintf("%s %q %s - %s", e.ID, e.Title, e.StartsAt.Format(DateTimeFormat), e.EndsAt.Format(DateTimeFormat))
}

type Category string

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

var (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryMeeting  Category = "Meeting"
	CategoryReminder Category = "Reminder"

	// DefaultCategory is stored when an event is inserted without one.
	DefaultCategory = CategoryPersonal

	Categories = []Category{CategoryWork, CategoryPersonal, CategoryMeeting, CategoryReminder}
)

func ParseCategory(v string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(v, c.String()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidEvent, v)
}

type Status string

func (s Status) String() string {
	return string(s)
}

var (
	StatusPast    Status = "past"
	StatusOngoing Status = "ongoing"
	StatusComing  Status = "coming"

	Statuses = []Status{StatusPast, StatusOngoing, StatusComing}
)

func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses {
		if strings.EqualFold(v, s.String()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, v)
}

// StatusAt reports where [start, end) sits relative to now.
func StatusAt(start, end, now time.Time) Status {
	switch {
	case !end.After(now):
		return StatusPast
	case !start.After(now):
		return StatusOngoing
	default:
		return StatusComing
	}
}

// WriteResult describes the outcome of a single write. RowsAffected is zero
// when an update or delete did not match any row.
type WriteResult struct {
	ID           string
	RowsAffected int64
}

// Package json reads and writes events as a JSON array.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/guilherme-santos/localcalendar/calendar"
	"github.com/guilherme-santos/localcalendar/internal"
)

type event struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status,omitempty"`
}

type Codec struct {
	Indent bool
}

func New() Codec {
	return Codec{Indent: true}
}

var _ calendar.Codec = Codec{}

// Decode reads an array of events. Times must be RFC 3339 and are converted
// to opts.Location, the window is ignored.
func (Codec) Decode(r io.Reader, opts calendar.DecodeOptions) ([]internal.Event, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	var raw []event
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}

	events := make([]internal.Event, 0, len(raw))
	for i, e := range raw {
		out := internal.Event{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			StartsAt:    e.StartsAt.In(loc),
			EndsAt:      e.EndsAt.In(loc),
		}
		if e.Category != "" {
			c, err := internal.ParseCategory(e.Category)
			if err != nil {
				return nil, fmt.Errorf("event #%d: %w", i+1, err)
			}
			out.Category = c
		}
		if e.Status != "" {
			s, err := internal.ParseStatus(e.Status)
			if err != nil {
				return nil, fmt.Errorf("event #%d: %w", i+1, err)
			}
			out.Status = s
		}
		events = append(events, out)
	}
	return events, nil
}

func (c Codec) Encode(w io.Writer, events []internal.Event) error {
	raw := make([]event, 0, len(events))
	for _, e := range events {
		raw = append(raw, event{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			Category:    e.Category.String(),
			Status:      e.Status.String(),
		})
	}

	enc := json.NewEncoder(w)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(raw)
}

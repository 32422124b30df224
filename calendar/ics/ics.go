// Package ics reads and writes events as iCalendar (RFC 5545).
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/guilherme-santos/localcalendar/calendar"
	"github.com/guilherme-santos/localcalendar/internal"
)

const (
	ProductID = "-//localcalendar//EN"

	// PropertyStatus carries the event status, which has no standard
	// iCalendar counterpart.
	PropertyStatus ical.ComponentProperty = "X-LOCALCALENDAR-STATUS"

	// maxOccurrences caps the expansion of a single recurring event.
	maxOccurrences = 1000
)

type Codec struct{}

func New() Codec {
	return Codec{}
}

var _ calendar.Codec = Codec{}

// Decode returns one event per VEVENT. Recurring events are expanded into
// one event per occurrence inside opts.Window, each with its own ID.
// All-day events span the whole day, ending at 23:59.
func (Codec) Decode(r io.Reader, opts calendar.DecodeOptions) ([]internal.Event, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []internal.Event
	for _, ve := range cal.Events() {
		e, err := decodeEvent(ve, loc)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ve.Id(), err)
		}

		rule := ve.GetProperty(ical.ComponentPropertyRrule)
		if rule == nil || opts.Window.IsZero() {
			events = append(events, e)
			continue
		}

		occurrences, err := expand(ve, e, rule.Value, opts.Window)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ve.Id(), err)
		}
		for _, start := range occurrences {
			occ := e
			occ.ID = e.ID + "-" + start.UTC().Format("20060102T150405Z")
			occ.StartsAt = start.In(loc)
			occ.EndsAt = start.Add(e.Duration()).In(loc)
			events = append(events, occ)
		}
	}
	return events, nil
}

func decodeEvent(ve *ical.VEvent, loc *time.Location) (internal.Event, error) {
	e := internal.Event{
		ID:          ve.Id(),
		Title:       propertyValue(ve, ical.ComponentPropertySummary),
		Description: propertyValue(ve, ical.ComponentPropertyDescription),
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return e, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional, DURATION isn't supported.
		end = start
	}
	if isAllDay(ve) {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(start.Year(), start.Month(), start.Day(), 23, 59, 0, 0, loc)
	}
	e.StartsAt = start.In(loc)
	e.EndsAt = end.In(loc)

	for _, v := range strings.Split(propertyValue(ve, ical.ComponentPropertyCategories), ",") {
		if c, err := internal.ParseCategory(strings.TrimSpace(v)); err == nil {
			e.Category = c
			break
		}
	}
	if s, err := internal.ParseStatus(propertyValue(ve, PropertyStatus)); err == nil {
		e.Status = s
	}
	return e, nil
}

func expand(ve *ical.VEvent, e internal.Event, rule string, window internal.Interval) ([]time.Time, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE: %w", err)
	}
	r.DTStart(e.StartsAt)

	var set rrule.Set
	set.RRule(r)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := e.StartsAt.Location()
		if tzid, ok := p.ICalParameters["TZID"]; ok && len(tzid) > 0 {
			if l, err := time.LoadLocation(tzid[0]); err == nil {
				loc = l
			}
		}
		for _, v := range strings.Split(p.Value, ",") {
			if t, err := parseTime(strings.TrimSpace(v), loc); err == nil {
				set.ExDate(t)
			}
		}
	}

	// Occurrences starting before the window can still overlap it.
	from := window.Start.Add(-e.Duration())
	occurrences := set.Between(from, window.End, true)
	if len(occurrences) > maxOccurrences {
		occurrences = occurrences[:maxOccurrences]
	}
	return occurrences, nil
}

func parseTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propertyValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// Encode writes events as a single VCALENDAR.
func (Codec) Encode(w io.Writer, events []internal.Event) error {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)

	now := time.Now().UTC()
	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetStartAt(e.StartsAt)
		ve.SetEndAt(e.EndsAt)
		if e.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.Category.String())
		}
		if e.Status != "" {
			ve.SetProperty(PropertyStatus, e.Status.String())
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

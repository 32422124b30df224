package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/guilherme-santos/localcalendar/internal"
)

type Strings []string

func (i *Strings) String() string {
	return strings.Join(*i, ", ")
}

func (i *Strings) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func (i *Strings) Type() string {
	return "strings"
}

func (i Strings) categories() ([]internal.Category, error) {
	var cats []internal.Category
	for _, v := range i {
		c, err := internal.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// dayRange is the interval covering from and to, both inclusive. Empty dates
// leave that side open.
func dayRange(from, to internal.Date, loc *time.Location) internal.Interval {
	if from.IsZero() && to.IsZero() {
		return internal.Interval{}
	}
	iv := internal.Interval{
		Start: time.Unix(0, 0).In(loc),
		End:   time.Date(9999, time.December, 31, 23, 59, 59, 0, loc),
	}
	if !from.IsZero() {
		iv.Start = from.InLocation(loc).Time
	}
	if !to.IsZero() {
		iv.End = to.InLocation(loc).AddDate(0, 0, 1).Add(-time.Second)
	}
	return iv
}

func filterEvents(events []internal.Event, iv internal.Interval, cats []internal.Category) []internal.Event {
	out := make([]internal.Event, 0, len(events))
	for _, e := range events {
		if !iv.IsZero() && !iv.Overlaps(e.StartsAt, e.EndsAt) {
			continue
		}
		if len(cats) > 0 && !slices.Contains(cats, e.Category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortByStart(events []internal.Event) {
	slices.SortStableFunc(events, func(a, b internal.Event) int {
		return a.StartsAt.Compare(b.StartsAt)
	})
}

func formatDateTime(d time.Time) string {
	return d.Format("02 Jan 06 15:04")
}

func printEvents(w io.Writer, events []internal.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %s - %s  %-8s  %-7s  %s\n",
			e.ID, formatDateTime(e.StartsAt), e.EndsAt.Format("15:04"), e.Category, e.Status, e.Title)
	}
}

func printEvent(w io.Writer, e internal.Event) {
	fmt.Fprintf(w, "ID:          %s\n", e.ID)
	fmt.Fprintf(w, "Title:       %s\n", e.Title)
	fmt.Fprintf(w, "Starts:      %s\n", formatDateTime(e.StartsAt))
	fmt.Fprintf(w, "Ends:        %s\n", formatDateTime(e.EndsAt))
	fmt.Fprintf(w, "Duration:    %s\n", e.Duration())
	fmt.Fprintf(w, "Category:    %s\n", e.Category)
	fmt.Fprintf(w, "Status:      %s\n", e.Status)
	if e.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", e.Description)
	}
}

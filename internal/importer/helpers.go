package importer

import (
	"time"

	"github.com/guilherme-santos/localcalendar/internal"
)

func formatDateTime(d time.Time) string {
	return d.Format("02 Jan 06 15:04")
}

func inWindow(events []internal.Event, window internal.Interval) []internal.Event {
	out := make([]internal.Event, 0, len(events))
	for _, e := range events {
		if window.Overlaps(e.StartsAt, e.EndsAt) {
			out = append(out, e)
		}
	}
	return out
}

package main

import (
	"time"

	"github.com/guilherme-santos/localcalendar/internal"
)

func demoEvents(loc *time.Location) []internal.Event {
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, time.August, day, hour, min, 0, 0, loc)
	}
	return []internal.Event{
		{
			ID:          "1",
			Title:       "Leslie Alexander",
			Description: "Meeting with Leslie Alexander",
			StartsAt:    at(11, 13, 0),
			EndsAt:      at(11, 14, 30),
			Category:    internal.CategoryWork,
			Status:      internal.StatusPast,
		},
		{
			ID:          "2",
			Title:       "Michael Foster",
			Description: "Meeting with Michael Foster",
			StartsAt:    at(20, 9, 0),
			EndsAt:      at(20, 11, 30),
			Category:    internal.CategoryReminder,
			Status:      internal.StatusPast,
		},
		{
			ID:          "3",
			Title:       "Dries Vincent",
			Description: "Meeting with Dries Vincent",
			StartsAt:    at(20, 17, 0),
			EndsAt:      at(20, 18, 30),
			Category:    internal.CategoryPersonal,
			Status:      internal.StatusPast,
		},
		{
			ID:          "4",
			Title:       "Leslie Alexander",
			Description: "Meeting with Leslie Alexander",
			StartsAt:    at(9, 13, 0),
			EndsAt:      at(9, 14, 30),
			Category:    internal.CategoryMeeting,
			Status:      internal.StatusPast,
		},
	}
}

package sqlite

import (
	"database/sql"
	"time"

	"github.com/guilherme-santos/localcalendar/internal"
)

const eventColumns = `id, title, startDateTime, endDateTime, description, eventStatus, category`

type Event struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	StartDateTime int64          `db:"startDateTime"`
	EndDateTime   int64          `db:"endDateTime"`
	Description   sql.NullString `db:"description"`
	EventStatus   string         `db:"eventStatus"`
	Category      sql.NullString `db:"category"`
}

func newEvent(e internal.Event, zone *time.Location) Event {
	category := e.Category
	if category == "" {
		category = internal.DefaultCategory
	}
	return Event{
		ID:            e.ID,
		Title:         e.Title,
		StartDateTime: LocalToEpoch(e.StartsAt, zone),
		EndDateTime:   LocalToEpoch(e.EndsAt, zone),
		Description:   sql.NullString{String: e.Description, Valid: e.Description != ""},
		EventStatus:   e.Status.String(),
		Category:      sql.NullString{String: category.String(), Valid: true},
	}
}

func (e Event) Convert(zone *time.Location) internal.Event {
	category := internal.Category(e.Category.String)
	if !e.Category.Valid || category == "" {
		category = internal.DefaultCategory
	}
	return internal.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description.String,
		StartsAt:    EpochToLocal(e.StartDateTime, zone),
		EndsAt:      EpochToLocal(e.EndDateTime, zone),
		Category:    category,
		Status:      internal.Status(e.EventStatus),
	}
}

func convertAll(rows []Event, zone *time.Location) []internal.Event {
	res := make([]internal.Event, len(rows))
	for i, r := range rows {
		res[i] = r.Convert(zone)
	}
	return res
}

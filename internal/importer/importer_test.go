package importer

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/localcalendar/calendar"
	"github.com/guilherme-santos/localcalendar/calendar/ics"
	jsoncodec "github.com/guilherme-santos/localcalendar/calendar/json"
	"github.com/guilherme-santos/localcalendar/internal"
	"github.com/guilherme-santos/localcalendar/internal/sqlite"
	"github.com/guilherme-santos/localcalendar/internal/store"
)

var now = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	storage := sqlite.OpenStorage(filepath.Join(t.TempDir(), "calendar.db"), loc, zerolog.Nop())
	require.NoError(t, storage.Err())
	t.Cleanup(func() { storage.Close() })

	s := store.New(context.Background(), storage, store.Config{Reference: now})
	t.Cleanup(func() { s.Close() })

	mux := calendar.NewMux()
	mux.Register("ics", ics.New())
	mux.Register("json", jsoncodec.New())

	imp := New(zerolog.Nop(), mux, s, loc)
	imp.Now = func() time.Time { return now }
	return imp, s
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	imp, s := newTestImporter(t)

	res, err := imp.Import(ctx, "json", strings.NewReader(`[
		{"id": "a", "title": "Standup", "startsAt": "2024-08-20T13:00:00Z", "endsAt": "2024-08-20T13:15:00Z", "category": "Work"},
		{"title": "Gym", "startsAt": "2024-08-21T22:00:00Z", "endsAt": "2024-08-21T23:00:00Z"},
		{"title": "Too short", "startsAt": "2024-08-22T13:00:00Z", "endsAt": "2024-08-22T13:05:00Z"}
	]`), internal.Interval{})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 1}, res)

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, internal.StatusComing, events[0].Status)
	assert.Equal(t, internal.CategoryPersonal, events[1].Category)

	res, err = imp.Import(ctx, "json", strings.NewReader(`[
		{"id": "a", "title": "Standup (moved)", "startsAt": "2024-08-20T14:00:00Z", "endsAt": "2024-08-20T14:15:00Z", "category": "Work"}
	]`), internal.Interval{})
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, res)

	e, ok := s.GetEvent("a")
	require.True(t, ok)
	assert.Equal(t, "Standup (moved)", e.Title)
	assert.Len(t, s.Events(), 2)
}

func TestImport_DuplicateIDsInPayload(t *testing.T) {
	imp, s := newTestImporter(t)

	res, err := imp.Import(context.Background(), "json", strings.NewReader(`[
		{"id": "a", "title": "first", "startsAt": "2024-08-20T13:00:00Z", "endsAt": "2024-08-20T14:00:00Z"},
		{"id": "a", "title": "second", "startsAt": "2024-08-20T13:00:00Z", "endsAt": "2024-08-20T14:00:00Z"}
	]`), internal.Interval{})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Skipped: 1}, res)

	e, ok := s.GetEvent("a")
	require.True(t, ok)
	assert.Equal(t, "second", e.Title)
}

func TestImport_Errors(t *testing.T) {
	imp, s := newTestImporter(t)

	_, err := imp.Import(context.Background(), "csv", strings.NewReader(""), internal.Interval{})
	assert.EqualError(t, err, `format "csv" is not implemented`)

	_, err = imp.Import(context.Background(), "json", strings.NewReader("{"), internal.Interval{})
	assert.ErrorIs(t, err, ErrImporting)
	assert.Empty(t, s.Events())
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	imp, _ := newTestImporter(t)

	_, err := imp.Import(ctx, "json", strings.NewReader(`[
		{"id": "aug", "title": "August", "startsAt": "2024-08-20T13:00:00Z", "endsAt": "2024-08-20T14:00:00Z"},
		{"id": "dec", "title": "December", "startsAt": "2024-12-20T13:00:00Z", "endsAt": "2024-12-20T14:00:00Z"}
	]`), internal.Interval{})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := imp.Export(ctx, "ics", &buf, internal.Interval{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "UID:aug")
	assert.Contains(t, buf.String(), "UID:dec")

	buf.Reset()
	n, err = imp.Export(ctx, "json", &buf, internal.MonthWindow(now))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), `"id": "aug"`)
	assert.NotContains(t, buf.String(), `"id": "dec"`)
}

func TestImport_RecurringICS(t *testing.T) {
	imp, s := newTestImporter(t)

	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:weekly",
		"DTSTAMP:20240801T000000Z",
		"SUMMARY:Review",
		"DTSTART:20240805T150000Z",
		"DTEND:20240805T160000Z",
		"RRULE:FREQ=WEEKLY;COUNT=3",
		"CATEGORIES:Meeting",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	res, err := imp.Import(context.Background(), "ics", strings.NewReader(body), internal.MonthWindow(now))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3}, res)

	for _, e := range s.Events() {
		assert.Equal(t, "Review", e.Title)
		assert.Equal(t, internal.CategoryMeeting, e.Category)
		assert.Equal(t, 11, e.StartsAt.Hour())
	}
}

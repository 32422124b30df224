package importer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/guilherme-santos/localcalendar/calendar"
	"github.com/guilherme-santos/localcalendar/internal"
)

var ErrImporting = errors.New("an error occurred while importing, check the logs")

type Store interface {
	Events() []internal.Event
	GetEvent(id string) (internal.Event, bool)
	AddEvents(context.Context, ...internal.Event) ([]string, error)
	UpdateEvent(context.Context, internal.Event) error
}

// Result counts what an import did.
type Result struct {
	Created int
	Updated int
	Skipped int
}

type Importer struct {
	logger zerolog.Logger
	mux    *calendar.Mux
	store  Store
	loc    *time.Location

	// Now is used to validate new events, defaults to time.Now.
	Now func() time.Time
}

func New(logger zerolog.Logger, mux *calendar.Mux, store Store, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{
		logger: internal.Component(logger, "importer"),
		mux:    mux,
		store:  store,
		loc:    loc,
		Now:    time.Now,
	}
}

// Import decodes r and writes its events through the store. Events whose ID
// is already known are updated, the others are inserted in a single batch.
// Invalid events are logged and skipped.
func (i *Importer) Import(ctx context.Context, format string, r io.Reader, window internal.Interval) (Result, error) {
	var res Result

	codec, err := i.mux.Get(format)
	if err != nil {
		return res, err
	}
	events, err := codec.Decode(r, calendar.DecodeOptions{Location: i.loc, Window: window})
	if err != nil {
		i.logger.Error().Err(err).Str("format", format).Msg("Unable to decode events")
		return res, ErrImporting
	}
	i.logger.Info().Int("events", len(events)).Str("format", format).Msg("Importing events...")

	now := i.Now()
	var (
		toCreate []internal.Event
		byID     = make(map[string]int)
	)
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if e.Status == "" {
			e.Status = internal.StatusAt(e.StartsAt, e.EndsAt, now)
		}
		if err := e.Validate(now); err != nil {
			i.logger.Warn().Err(err).Str("id", e.ID).Str("title", e.Title).Msg("Skipping event")
			res.Skipped++
			continue
		}

		if _, ok := i.store.GetEvent(e.ID); e.ID != "" && ok {
			i.logger.Debug().Str("id", e.ID).Msgf("Updating event %q on %s", e.Title, formatDateTime(e.StartsAt))
			if err := i.store.UpdateEvent(ctx, e); err != nil {
				i.logger.Error().Err(err).Str("id", e.ID).Msg("Unable to update event")
				return res, ErrImporting
			}
			res.Updated++
			continue
		}

		// The same ID twice in a payload keeps the last one.
		if idx, ok := byID[e.ID]; ok && e.ID != "" {
			toCreate[idx] = e
			res.Skipped++
			continue
		}
		if e.ID != "" {
			byID[e.ID] = len(toCreate)
		}
		i.logger.Debug().Str("id", e.ID).Msgf("Creating event %q on %s", e.Title, formatDateTime(e.StartsAt))
		toCreate = append(toCreate, e)
	}

	if len(toCreate) > 0 {
		if _, err := i.store.AddEvents(ctx, toCreate...); err != nil {
			i.logger.Error().Err(err).Int("events", len(toCreate)).Msg("Unable to create events")
			return res, ErrImporting
		}
		res.Created = len(toCreate)
	}

	i.logger.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Msg("Import complete!")
	return res, nil
}

// Export encodes the cached events overlapping window, or all of them when
// window is zero.
func (i *Importer) Export(ctx context.Context, format string, w io.Writer, window internal.Interval) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	events := i.store.Events()
	if !window.IsZero() {
		events = inWindow(events, window)
	}
	if err := i.Encode(format, w, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

// Encode writes events as they are, for callers that loaded them elsewhere.
func (i *Importer) Encode(format string, w io.Writer, events []internal.Event) error {
	codec, err := i.mux.Get(format)
	if err != nil {
		return err
	}
	if err := codec.Encode(w, events); err != nil {
		return err
	}
	i.logger.Info().Int("events", len(events)).Str("format", format).Msg("Export complete!")
	return nil
}

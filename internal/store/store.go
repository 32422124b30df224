// Package store keeps an in-memory copy of the calendar events and keeps
// it in line with storage. Every write is followed by a full reload so the
// cache always reflects what was actually persisted.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guilherme-santos/localcalendar/internal"
)

type Querier interface {
	All(context.Context) ([]internal.Event, error)
	Between(_ context.Context, from, to time.Time) ([]internal.Event, error)
	Insert(context.Context, internal.Event) (internal.WriteResult, error)
	InsertMany(context.Context, ...internal.Event) ([]internal.WriteResult, error)
	Update(context.Context, internal.Event) (internal.WriteResult, error)
	Delete(_ context.Context, id string) (internal.WriteResult, error)
}

type Config struct {
	Logger *zerolog.Logger

	// Windowed makes refreshes load only the events overlapping the
	// current interval instead of every stored event.
	Windowed bool

	// Reference is the date the initial interval is built around,
	// defaults to now.
	Reference time.Time

	// QueueSize bounds how many operations can wait for the worker.
	QueueSize int
}

// State is a snapshot of the store.
type State struct {
	Events    []internal.Event
	IsLoading bool
	Err       error
}

type Store struct {
	q        Querier
	logger   zerolog.Logger
	windowed bool
	queue    *queue

	mu        sync.RWMutex
	events    []internal.Event
	isLoading bool
	err       error
	interval  internal.Interval

	subscribers
}

// New builds a store on top of q and loads the events right away. A
// failing initial load is recorded in Err, it's never returned.
func New(ctx context.Context, q Querier, cfg Config) *Store {
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.Reference.IsZero() {
		cfg.Reference = time.Now()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	s := &Store{
		q:         q,
		logger:    internal.Component(*cfg.Logger, "store"),
		windowed:  cfg.Windowed,
		queue:     newQueue(cfg.QueueSize),
		isLoading: true,
		interval:  internal.MonthWindow(cfg.Reference),
	}
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Unable to load events")

		// The load may not have run at all, e.g. with a cancelled ctx.
		s.mu.Lock()
		if s.isLoading {
			s.isLoading = false
			s.err = err
		}
		s.mu.Unlock()
	}
	return s
}

// Close waits for pending operations and releases the worker. Every later
// operation fails with ErrClosed.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func (s *Store) Events() []internal.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err is the error of the last failed operation, nil after a successful
// refresh.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Events:    slices.Clone(s.events),
		IsLoading: s.isLoading,
		Err:       s.err,
	}
}

// GetEvent looks id up in the cache only.
func (s *Store) GetEvent(id string) (internal.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return internal.Event{}, false
}

// SetInterval moves the visible interval around ref. Storage is not queried,
// a windowed store picks it up on its next refresh.
func (s *Store) SetInterval(ref time.Time) internal.Interval {
	iv := internal.MonthWindow(ref)
	s.mu.Lock()
	s.interval = iv
	s.mu.Unlock()
	return iv
}

func (s *Store) Interval() internal.Interval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

// Refresh reloads the events from storage. On failure the cached events are
// kept and the error is recorded. Subscribers are notified either way.
func (s *Store) Refresh(ctx context.Context) ([]internal.Event, error) {
	var events []internal.Event
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.refresh(ctx)
		return err
	})
	return events, err
}

// AddEvents inserts events, all of them or none, and returns their IDs.
func (s *Store) AddEvents(ctx context.Context, events ...internal.Event) ([]string, error) {
	if len(events) == 0 {
		return nil, nil
	}

	var ids []string
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		if len(events) == 1 {
			var res internal.WriteResult
			res, err = s.q.Insert(ctx, events[0])
			ids = []string{res.ID}
		} else {
			var res []internal.WriteResult
			res, err = s.q.InsertMany(ctx, events...)
			ids = make([]string, len(res))
			for i, r := range res {
				ids[i] = r.ID
			}
		}
		mutationsTotal.WithLabelValues("insert", outcome(err)).Inc()
		if err != nil {
			ids = nil
			return s.fail(fmt.Errorf("inserting events: %w", err))
		}
		s.logger.Debug().Strs("ids", ids).Msg("Events inserted")
		return s.refreshAfterWrite(ctx)
	})
	return ids, err
}

// UpdateEvent replaces the stored event with the same ID. An unknown ID is
// logged and otherwise ignored.
func (s *Store) UpdateEvent(ctx context.Context, e internal.Event) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		res, err := s.q.Update(ctx, e)
		mutationsTotal.WithLabelValues("update", outcome(err)).Inc()
		if err != nil {
			return s.fail(fmt.Errorf("updating event %s: %w", e.ID, err))
		}
		if res.RowsAffected == 0 {
			s.logger.Warn().Str("id", e.ID).Msg("Update didn't match any event")
		}
		return s.refreshAfterWrite(ctx)
	})
}

// DeleteEvent removes the event, deleting an unknown ID is not an error.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		_, err := s.q.Delete(ctx, id)
		mutationsTotal.WithLabelValues("delete", outcome(err)).Inc()
		if err != nil {
			return s.fail(fmt.Errorf("deleting event %s: %w", id, err))
		}
		return s.refreshAfterWrite(ctx)
	})
}

// refreshAfterWrite reloads after a committed write. The caller's
// cancellation doesn't reach it, a write is never left without its refresh.
func (s *Store) refreshAfterWrite(ctx context.Context) error {
	if _, err := s.refresh(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("refreshing events: %w", err)
	}
	return nil
}

// refresh must only run on the queue worker.
func (s *Store) refresh(ctx context.Context) ([]internal.Event, error) {
	s.mu.Lock()
	s.isLoading = true
	iv := s.interval
	s.mu.Unlock()

	start := time.Now()
	var (
		events []internal.Event
		err    error
	)
	if s.windowed {
		events, err = s.q.Between(ctx, iv.Start, iv.End)
	} else {
		events, err = s.q.All(ctx)
	}
	refreshDuration.Observe(time.Since(start).Seconds())
	refreshTotal.WithLabelValues(outcome(err)).Inc()

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.err = err
	} else {
		s.events = events
		s.err = nil
		cachedEvents.Set(float64(len(events)))
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Unable to refresh events, keeping cached ones")
	} else {
		s.logger.Debug().Int("events", len(events)).Bool("windowed", s.windowed).Msg("Events refreshed")
	}
	s.notify(s.State)

	if err != nil {
		return nil, err
	}
	return slices.Clone(events), nil
}

// fail records err without touching the cached events.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.logger.Error().Err(err).Msg("Storage operation failed")
	s.notify(s.State)
	return err
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/guilherme-santos/localcalendar/internal"
)

// Storage persists calendar events. Times are kept as UTC epoch seconds
// and converted from/to wall clocks in zone. Every time handed to it, event
// times and query bounds alike, is read as a wall clock in zone whatever
// its own location is.
type Storage struct {
	db     *sqlx.DB
	zone   *time.Location
	logger zerolog.Logger

	// err is set when the storage could not be initialised. Every operation
	// fails with it from then on.
	err error
}

// NewStorage wraps db and makes sure the schema exists. A failure doesn't
// stop the caller: it is logged and the returned storage is unusable.
func NewStorage(db *sql.DB, zone *time.Location, logger zerolog.Logger) *Storage {
	if zone == nil {
		zone = time.Local
	}
	s := &Storage{
		db:     sqlx.NewDb(db, DriverName),
		zone:   zone,
		logger: internal.Component(logger, "sqlite"),
	}
	if err := s.RunMigrations(); err != nil {
		s.logger.Error().Err(err).Msg("Unable to initialise database")
		s.err = fmt.Errorf("running migrations: %w", err)
	}
	return s
}

// OpenStorage opens the database at path and wraps it with NewStorage. If
// the file can't be opened the storage is returned in the failed state.
func OpenStorage(path string, zone *time.Location, logger zerolog.Logger) *Storage {
	db, err := Open(path)
	if err != nil {
		s := &Storage{
			zone:   zone,
			logger: internal.Component(logger, "sqlite"),
			err:    fmt.Errorf("opening %s: %w", path, err),
		}
		s.logger.Error().Err(err).Str("path", path).Msg("Unable to open database")
		return s
	}
	return NewStorage(db, zone, logger)
}

func (s *Storage) Err() error {
	return s.err
}

func (s *Storage) Zone() *time.Location {
	return s.zone
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) ready() error {
	if s.err != nil {
		return fmt.Errorf("%w: %w", internal.ErrUnavailable, s.err)
	}
	return nil
}

// All returns every event in insertion order.
func (s *Storage) All(ctx context.Context) ([]internal.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var rows []Event
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+eventColumns+`
		FROM calendar_events
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	return convertAll(rows, s.zone), nil
}

// Between returns the events overlapping [from, to], earliest first. Like
// event times, from and to are wall clocks in the storage zone.
func (s *Storage) Between(ctx context.Context, from, to time.Time) ([]internal.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var rows []Event
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE startDateTime <= ? AND endDateTime >= ?
		ORDER BY startDateTime, rowid
	`, LocalToEpoch(to, s.zone), LocalToEpoch(from, s.zone))
	if err != nil {
		return nil, err
	}
	return convertAll(rows, s.zone), nil
}

// ByID returns nil without error when there's no such event.
func (s *Storage) ByID(ctx context.Context, id string) (*internal.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var row Event
	err := s.db.GetContext(ctx, &row, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := row.Convert(s.zone)
	return &e, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM calendar_events`)
	return n, err
}

// Insert stores a new event. An ID is generated when e has none, and it
// fails with internal.ErrDuplicateID if the ID is already taken.
func (s *Storage) Insert(ctx context.Context, e internal.Event) (internal.WriteResult, error) {
	if err := s.ready(); err != nil {
		return internal.WriteResult{}, err
	}
	return s.insert(ctx, s.db, e)
}

// InsertMany inserts all events in a single transaction, either all of
// them are stored or none.
func (s *Storage) InsertMany(ctx context.Context, events ...internal.Event) ([]internal.WriteResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := s.insertAll(ctx, tx, events)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Storage) insertAll(ctx context.Context, ext sqlx.ExtContext, events []internal.Event) ([]internal.WriteResult, error) {
	res := make([]internal.WriteResult, 0, len(events))
	for i, e := range events {
		r, err := s.insert(ctx, ext, e)
		if err != nil {
			return nil, fmt.Errorf("event #%d: %w", i+1, err)
		}
		res = append(res, r)
	}
	return res, nil
}

func (s *Storage) insert(ctx context.Context, ext sqlx.ExtContext, e internal.Event) (internal.WriteResult, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := newEvent(e, s.zone)

	res, err := sqlx.NamedExecContext(ctx, ext, `
		INSERT INTO calendar_events (id, title, description, startDateTime, endDateTime, eventStatus, category)
		VALUES (:id, :title, :description, :startDateTime, :endDateTime, :eventStatus, :category)
	`, row)
	if err != nil {
		return internal.WriteResult{}, translateErr(err)
	}
	n, _ := res.RowsAffected()
	s.logger.Debug().Str("id", row.ID).Str("title", row.Title).Msg("Event inserted")
	return internal.WriteResult{ID: row.ID, RowsAffected: n}, nil
}

// Update replaces every field of the event with the same ID. Updating an
// unknown ID is not an error, RowsAffected is zero in that case.
func (s *Storage) Update(ctx context.Context, e internal.Event) (internal.WriteResult, error) {
	if err := s.ready(); err != nil {
		return internal.WriteResult{}, err
	}
	if e.ID == "" {
		return internal.WriteResult{}, internal.ErrMissingID
	}
	row := newEvent(e, s.zone)

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE calendar_events
		SET title = :title,
			description = :description,
			startDateTime = :startDateTime,
			endDateTime = :endDateTime,
			eventStatus = :eventStatus,
			category = :category
		WHERE id = :id
	`, row)
	if err != nil {
		return internal.WriteResult{}, translateErr(err)
	}
	n, _ := res.RowsAffected()
	return internal.WriteResult{ID: row.ID, RowsAffected: n}, nil
}

// Delete removes the event, deleting an unknown ID is a no-op.
func (s *Storage) Delete(ctx context.Context, id string) (internal.WriteResult, error) {
	if err := s.ready(); err != nil {
		return internal.WriteResult{}, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return internal.WriteResult{}, err
	}
	n, _ := res.RowsAffected()
	return internal.WriteResult{ID: id, RowsAffected: n}, nil
}

// Seed inserts events only when there is nothing stored yet. It reports
// whether the events were inserted.
func (s *Storage) Seed(ctx context.Context, events []internal.Event) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM calendar_events`); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.insertAll(ctx, tx, events); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	s.logger.Info().Int("events", len(events)).Msg("Database seeded")
	return true, nil
}

func translateErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: %w", internal.ErrDuplicateID, err)
	}
	return err
}

package sqlite

func (s *Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Every statement must be safe to run on each start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		startDateTime INTEGER NOT NULL,
		endDateTime INTEGER NOT NULL,
		description TEXT,
		eventStatus TEXT NOT NULL,
		category TEXT DEFAULT 'Personal'
	)`,
	`CREATE INDEX IF NOT EXISTS calendar_events_window
		ON calendar_events (startDateTime, endDateTime)`,
}

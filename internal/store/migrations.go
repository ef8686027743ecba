package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Matches table - one row per finished match
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			left_score INTEGER NOT NULL DEFAULT 0 CHECK(left_score >= 0),
			right_score INTEGER NOT NULL DEFAULT 0 CHECK(right_score >= 0),
			total INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_matches_ended_at ON matches(ended_at)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_total ON matches(total)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

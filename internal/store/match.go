package store

import (
	"database/sql"
	"errors"
	"time"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Match is a finished match.
type Match struct {
	ID         string
	LeftScore  int
	RightScore int
	Total      int
	Frames     int
	StartedAt  time.Time
	EndedAt    time.Time
}

// Duration returns how long the match lasted.
func (m *Match) Duration() time.Duration {
	return m.EndedAt.Sub(m.StartedAt)
}

// MatchRepository provides CRUD operations for matches.
type MatchRepository struct {
	db *sql.DB
}

// Matches returns the match repository for this store.
func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{db: s.db}
}

const matchColumns = `id, left_score, right_score, total, frames, started_at, ended_at`

// Create inserts a finished match. Total is derived from the side scores.
func (r *MatchRepository) Create(m *Match) error {
	m.Total = m.LeftScore + m.RightScore
	if m.EndedAt.IsZero() {
		m.EndedAt = time.Now()
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = m.EndedAt
	}

	_, err := r.db.Exec(
		`INSERT INTO matches (`+matchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.LeftScore, m.RightScore, m.Total, m.Frames, m.StartedAt, m.EndedAt,
	)
	return err
}

// GetByID retrieves a match by its ID.
func (r *MatchRepository) GetByID(id string) (*Match, error) {
	row := r.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	return scanMatch(row)
}

// Best returns the match with the highest combined score, earliest first on ties.
func (r *MatchRepository) Best() (*Match, error) {
	row := r.db.QueryRow(`SELECT ` + matchColumns + ` FROM matches ORDER BY total DESC, ended_at ASC LIMIT 1`)
	return scanMatch(row)
}

// List retrieves up to limit matches, most recently finished first.
// A non-positive limit uses DefaultListLimit.
func (r *MatchRepository) List(limit int) ([]*Match, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT `+matchColumns+` FROM matches ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// Count returns the number of stored matches.
func (r *MatchRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&n)
	return n, err
}

// Delete removes a match from the database by its ID.
func (r *MatchRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (*Match, error) {
	m := &Match{}
	err := row.Scan(&m.ID, &m.LeftScore, &m.RightScore, &m.Total, &m.Frames, &m.StartedAt, &m.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

package results

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. Records are inserted
// one row at a time; the UNIQUE constraint carries the one-record-per-key rule.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS trial_results (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	model          TEXT    NOT NULL,
	context_length INTEGER NOT NULL,
	depth_percent  INTEGER NOT NULL,
	version        INTEGER NOT NULL DEFAULT 1,
	needle         TEXT    NOT NULL,
	model_response TEXT    NOT NULL,
	score          INTEGER NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (model, context_length, depth_percent, version)
);
`

// Migrate creates the results table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model, context_length, depth_percent, version, needle, model_response, score
		 FROM trial_results ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Model, &r.ContextLength, &r.DepthPercent, &r.Version, &r.Needle, &r.ModelResponse, &r.Score); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list results iterate")
}

func (s *SQLiteStore) Exists(ctx context.Context, k Key) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trial_results
		 WHERE model = ? AND context_length = ? AND depth_percent = ? AND version = ?`,
		k.Model, k.ContextLength, k.DepthPercent, k.Version,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: result exists")
	}
	return n > 0, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trial_results (model, context_length, depth_percent, version, needle, model_response, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Model, r.ContextLength, r.DepthPercent, r.Version, r.Needle, r.ModelResponse, r.Score,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return eris.Wrapf(ErrDuplicate, "%s length=%d depth=%d version=%d", r.Model, r.ContextLength, r.DepthPercent, r.Version)
		}
		return eris.Wrap(err, "sqlite: insert result")
	}
	return nil
}

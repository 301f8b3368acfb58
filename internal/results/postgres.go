package results

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a small connection pool. A sweep
// has a single writer, so the pool stays at a couple of connections.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 2
	pgxCfg.MinConns = 1
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS trial_results (
	id             BIGSERIAL PRIMARY KEY,
	model          TEXT        NOT NULL,
	context_length INTEGER     NOT NULL,
	depth_percent  INTEGER     NOT NULL,
	version        INTEGER     NOT NULL DEFAULT 1,
	needle         TEXT        NOT NULL,
	model_response TEXT        NOT NULL,
	score          INTEGER     NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (model, context_length, depth_percent, version)
)`

// Migrate creates the results table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT model, context_length, depth_percent, version, needle, model_response, score FROM trial_results ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Model, &r.ContextLength, &r.DepthPercent, &r.Version, &r.Needle, &r.ModelResponse, &r.Score); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list results iterate")
}

func (s *PostgresStore) Exists(ctx context.Context, k Key) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trial_results WHERE model = $1 AND context_length = $2 AND depth_percent = $3 AND version = $4)`,
		k.Model, k.ContextLength, k.DepthPercent, k.Version,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrap(err, "postgres: result exists")
	}
	return exists, nil
}

func (s *PostgresStore) Append(ctx context.Context, r Record) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO trial_results (model, context_length, depth_percent, version, needle, model_response, score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (model, context_length, depth_percent, version) DO NOTHING`,
		r.Model, r.ContextLength, r.DepthPercent, r.Version, r.Needle, r.ModelResponse, r.Score,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert result")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrDuplicate, "%s length=%d depth=%d version=%d", r.Model, r.ContextLength, r.DepthPercent, r.Version)
	}
	return nil
}

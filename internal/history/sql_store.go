package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const runsTable = "generation_runs"

var runColumns = []string{
	"id", "session_id", "target", "status", "classes", "source",
	"error_kind", "error", "started_at", "duration_ns",
}

// SQLStore implements Store on a SQL database through ent's SQL driver and
// query builders. Timestamps are stored as Unix nanoseconds.
type SQLStore struct {
	drv     *entsql.Driver
	builder *entsql.DialectBuilder
}

// NewSQLStore wraps an open database of the given ent dialect, for example
// dialect.SQLite.
func NewSQLStore(db *sql.DB, dialectName string) *SQLStore {
	return &SQLStore{
		drv:     entsql.OpenDB(dialectName, db),
		builder: entsql.Dialect(dialectName),
	}
}

// NewSQLiteStore opens dsn with the modernc SQLite driver. The caller must
// import modernc.org/sqlite for its side effect.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return NewSQLStore(db, dialect.SQLite), nil
}

// CreateTable creates the runs table if it does not exist.
func (s *SQLStore) CreateTable(ctx context.Context) error {
	err := s.drv.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+runsTable+` (
			id          TEXT PRIMARY KEY,
			session_id  TEXT NOT NULL DEFAULT '',
			target      TEXT NOT NULL,
			status      TEXT NOT NULL,
			classes     TEXT NOT NULL DEFAULT '[]',
			source      TEXT NOT NULL DEFAULT '',
			error_kind  TEXT NOT NULL DEFAULT '',
			error       TEXT NOT NULL DEFAULT '',
			started_at  INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL
		)`, []any{}, nil)
	if err != nil {
		return fmt.Errorf("history: create table: %w", err)
	}
	err = s.drv.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_runs_session_time
		ON `+runsTable+` (session_id, started_at DESC)`, []any{}, nil)
	if err != nil {
		return fmt.Errorf("history: create index: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.drv.Close()
}

func (s *SQLStore) Write(ctx context.Context, run Run) error {
	classes, err := json.Marshal(run.Classes)
	if err != nil {
		return err
	}
	if run.Classes == nil {
		classes = []byte("[]")
	}

	query, args := s.builder.Insert(runsTable).
		Columns(runColumns...).
		Values(
			run.ID, run.SessionID, run.Target, run.Status, string(classes), run.Source,
			run.ErrorKind, run.Error, run.StartedAt.UnixNano(), int64(run.Duration),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("history: write run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Run, error) {
	query, args := s.builder.Select(runColumns...).
		From(s.builder.Table(runsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	runs, err := s.query(ctx, query, args)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNotFound
	}
	return runs[0], nil
}

func (s *SQLStore) List(ctx context.Context, opts QueryOptions) ([]Run, int, error) {
	filter := func(sel *entsql.Selector) *entsql.Selector {
		if opts.SessionID != "" {
			sel.Where(entsql.EQ("session_id", opts.SessionID))
		}
		return sel
	}

	countQuery, countArgs := filter(s.builder.Select(entsql.Count("*")).
		From(s.builder.Table(runsTable))).
		Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, countQuery, countArgs, rows); err != nil {
		return nil, 0, fmt.Errorf("history: count runs: %w", err)
	}
	total, err := entsql.ScanInt(rows)
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("history: count runs: %w", err)
	}

	query, args := filter(s.builder.Select(runColumns...).
		From(s.builder.Table(runsTable))).
		OrderBy(entsql.Desc("started_at")).
		Limit(opts.limit()).
		Offset(max(opts.Offset, 0)).
		Query()
	runs, err := s.query(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (s *SQLStore) Between(ctx context.Context, since, until time.Time) ([]Run, error) {
	query, args := s.builder.Select(runColumns...).
		From(s.builder.Table(runsTable)).
		Where(entsql.And(
			entsql.GTE("started_at", since.UnixNano()),
			entsql.LT("started_at", until.UnixNano()),
		)).
		OrderBy("started_at").
		Query()
	return s.query(ctx, query, args)
}

func (s *SQLStore) query(ctx context.Context, query string, args []any) ([]Run, error) {
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r          Run
			classes    string
			startedAt  int64
			durationNS int64
		)
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.Target, &r.Status, &classes, &r.Source,
			&r.ErrorKind, &r.Error, &startedAt, &durationNS,
		); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(classes), &r.Classes); err != nil {
			return nil, fmt.Errorf("history: decode classes of run %s: %w", r.ID, err)
		}
		if len(r.Classes) == 0 {
			r.Classes = nil
		}
		r.StartedAt = time.Unix(0, startedAt)
		r.Duration = time.Duration(durationNS)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

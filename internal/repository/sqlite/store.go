package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"shift-bot/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path. Transactions
// start with BEGIN IMMEDIATE so concurrent writers queue instead of failing
// on upgrade.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTx(ctx context.Context, fn func(r domain.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	return domain.WrapStore("commit", tx.Commit())
}

// Repos returns repositories running outside any transaction.
func (s *Store) Repos() domain.Repos {
	return reposFor(s.db)
}

func reposFor(q querier) domain.Repos {
	return domain.Repos{
		Shifts:    NewSqliteShiftRepo(q),
		Breaks:    NewSqliteBreakRepo(q),
		Stats:     NewSqliteStatsRepo(q),
		Employees: NewSqliteEmployeeRepo(q),
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func fromSeconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

func nullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullDuration(ni sql.NullInt64) *time.Duration {
	if !ni.Valid {
		return nil
	}
	d := fromSeconds(ni.Int64)
	return &d
}

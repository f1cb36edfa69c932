package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shift-bot/internal/domain"
)

const breakColumns = `id, user_id, break_type, break_start, break_end, duration`

type SqliteBreakRepo struct {
	db querier
}

func NewSqliteBreakRepo(db querier) *SqliteBreakRepo {
	return &SqliteBreakRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBreak(row rowScanner) (domain.BreakRecord, error) {
	var (
		b        domain.BreakRecord
		kind     string
		startStr string
		endStr   sql.NullString
		duration sql.NullInt64
	)
	if err := row.Scan(&b.ID, &b.UserID, &kind, &startStr, &endStr, &duration); err != nil {
		return domain.BreakRecord{}, err
	}
	b.Kind = domain.BreakKind(kind)
	var err error
	if b.Start, err = parseTime(startStr); err != nil {
		return domain.BreakRecord{}, err
	}
	if b.End, err = nullTime(endStr); err != nil {
		return domain.BreakRecord{}, err
	}
	b.Duration = nullDuration(duration)
	return b, nil
}

func (r *SqliteBreakRepo) queryOne(ctx context.Context, op, query string, args ...any) (domain.BreakRecord, bool, error) {
	b, err := scanBreak(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BreakRecord{}, false, nil
	}
	if err != nil {
		return domain.BreakRecord{}, false, domain.WrapStore(op, err)
	}
	return b, true, nil
}

func (r *SqliteBreakRepo) OpenBreak(ctx context.Context, userID int64, kind domain.BreakKind) (domain.BreakRecord, bool, error) {
	return r.queryOne(ctx, "open break",
		`SELECT `+breakColumns+` FROM breaks WHERE user_id = ? AND break_type = ? AND break_end IS NULL`,
		userID, string(kind),
	)
}

func (r *SqliteBreakRepo) OldestOpenBreak(ctx context.Context, userID int64) (domain.BreakRecord, bool, error) {
	return r.queryOne(ctx, "oldest open break",
		`SELECT `+breakColumns+` FROM breaks WHERE user_id = ? AND break_end IS NULL ORDER BY break_start, id LIMIT 1`,
		userID,
	)
}

func (r *SqliteBreakRepo) CreateBreak(ctx context.Context, userID int64, kind domain.BreakKind, start time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO breaks (user_id, break_type, break_start) VALUES (?, ?, ?)`,
		userID, string(kind), formatTime(start),
	)
	if err != nil {
		return 0, domain.WrapStore("create break", err)
	}
	id, err := res.LastInsertId()
	return id, domain.WrapStore("create break", err)
}

func (r *SqliteBreakRepo) CloseBreak(ctx context.Context, id int64, end time.Time, d time.Duration) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE breaks SET break_end = ?, duration = ? WHERE id = ?`,
		formatTime(end), seconds(d), id,
	)
	return domain.WrapStore("close break", err)
}

// SumDurations totals closed breaks only; open breaks have no duration yet.
func (r *SqliteBreakRepo) SumDurations(ctx context.Context, userID int64) (time.Duration, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration), 0) FROM breaks WHERE user_id = ?`, userID,
	).Scan(&total)
	if err != nil {
		return 0, domain.WrapStore("sum breaks", err)
	}
	return fromSeconds(total), nil
}

func (r *SqliteBreakRepo) Breakdown(ctx context.Context, userID int64) ([]domain.BreakAggregate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT break_type, COUNT(*), COALESCE(SUM(duration), 0) FROM breaks WHERE user_id = ? GROUP BY break_type ORDER BY break_type`,
		userID,
	)
	if err != nil {
		return nil, domain.WrapStore("break breakdown", err)
	}
	defer rows.Close()

	var out []domain.BreakAggregate
	for rows.Next() {
		var (
			a     domain.BreakAggregate
			kind  string
			total int64
		)
		if err := rows.Scan(&kind, &a.Count, &total); err != nil {
			return nil, domain.WrapStore("break breakdown", err)
		}
		a.Kind = domain.BreakKind(kind)
		a.Total = fromSeconds(total)
		out = append(out, a)
	}
	return out, domain.WrapStore("break breakdown", rows.Err())
}

func (r *SqliteBreakRepo) DeleteBreaks(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM breaks WHERE user_id = ?`, userID)
	return domain.WrapStore("delete breaks", err)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shift-bot/internal/domain"
)

type SqliteStatsRepo struct {
	db querier
}

func NewSqliteStatsRepo(db querier) *SqliteStatsRepo {
	return &SqliteStatsRepo{db: db}
}

func (r *SqliteStatsRepo) IncrementCount(ctx context.Context, userID int64, kind domain.BreakKind) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE break_stats SET count = count + 1 WHERE user_id = ? AND break_type = ?`,
		userID, string(kind),
	)
	if err != nil {
		return domain.WrapStore("increment break count", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO break_stats (user_id, break_type, count, total_duration) VALUES (?, ?, 1, 0)`,
			userID, string(kind),
		)
		return domain.WrapStore("increment break count", err)
	}
	return nil
}

// AddDuration leaves count alone; a missing row is created with count 0.
func (r *SqliteStatsRepo) AddDuration(ctx context.Context, userID int64, kind domain.BreakKind, d time.Duration) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE break_stats SET total_duration = total_duration + ? WHERE user_id = ? AND break_type = ?`,
		seconds(d), userID, string(kind),
	)
	if err != nil {
		return domain.WrapStore("add break duration", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO break_stats (user_id, break_type, count, total_duration) VALUES (?, ?, 0, ?)`,
			userID, string(kind), seconds(d),
		)
		return domain.WrapStore("add break duration", err)
	}
	return nil
}

func (r *SqliteStatsRepo) GetStats(ctx context.Context, userID int64, kind domain.BreakKind) (domain.BreakStats, bool, error) {
	s := domain.BreakStats{UserID: userID, Kind: kind}
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count, total_duration FROM break_stats WHERE user_id = ? AND break_type = ?`,
		userID, string(kind),
	).Scan(&s.Count, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BreakStats{}, false, nil
	}
	if err != nil {
		return domain.BreakStats{}, false, domain.WrapStore("get break stats", err)
	}
	s.Total = fromSeconds(total)
	return s, true, nil
}

func (r *SqliteStatsRepo) ListStats(ctx context.Context, userID int64) ([]domain.BreakStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT break_type, count, total_duration FROM break_stats WHERE user_id = ? ORDER BY break_type`,
		userID,
	)
	if err != nil {
		return nil, domain.WrapStore("list break stats", err)
	}
	defer rows.Close()

	var out []domain.BreakStats
	for rows.Next() {
		s := domain.BreakStats{UserID: userID}
		var (
			kind  string
			total int64
		)
		if err := rows.Scan(&kind, &s.Count, &total); err != nil {
			return nil, domain.WrapStore("list break stats", err)
		}
		s.Kind = domain.BreakKind(kind)
		s.Total = fromSeconds(total)
		out = append(out, s)
	}
	return out, domain.WrapStore("list break stats", rows.Err())
}

func (r *SqliteStatsRepo) DeleteStats(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM break_stats WHERE user_id = ?`, userID)
	return domain.WrapStore("delete break stats", err)
}

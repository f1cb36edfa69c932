package sqlite

import (
	"context"

	"shift-bot/internal/domain"
)

// Read helpers for assertions; the bot itself never lists or counts rows.

func (r *SqliteShiftRepo) CountShifts(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *SqliteBreakRepo) ListBreaks(ctx context.Context, userID int64) ([]domain.BreakRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+breakColumns+` FROM breaks WHERE user_id = ? ORDER BY break_start, id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BreakRecord
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

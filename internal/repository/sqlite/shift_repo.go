package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shift-bot/internal/domain"
)

type SqliteShiftRepo struct {
	db querier
}

func NewSqliteShiftRepo(db querier) *SqliteShiftRepo {
	return &SqliteShiftRepo{db: db}
}

func (r *SqliteShiftRepo) OpenShift(ctx context.Context, userID int64) (domain.ShiftRecord, bool, error) {
	var (
		s         domain.ShiftRecord
		startStr  string
		endStr    sql.NullString
		totalWork sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, shift_start, shift_end, total_work_time FROM shifts WHERE user_id = ? AND shift_end IS NULL`,
		userID,
	).Scan(&s.ID, &s.UserID, &startStr, &endStr, &totalWork)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ShiftRecord{}, false, nil
	}
	if err != nil {
		return domain.ShiftRecord{}, false, domain.WrapStore("open shift", err)
	}
	s.Start, err = parseTime(startStr)
	if err != nil {
		return domain.ShiftRecord{}, false, domain.WrapStore("open shift", err)
	}
	if s.End, err = nullTime(endStr); err != nil {
		return domain.ShiftRecord{}, false, domain.WrapStore("open shift", err)
	}
	s.TotalWork = nullDuration(totalWork)
	return s, true, nil
}

func (r *SqliteShiftRepo) CreateShift(ctx context.Context, userID int64, start time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (user_id, shift_start) VALUES (?, ?)`,
		userID,
		formatTime(start),
	)
	if err != nil {
		return 0, domain.WrapStore("create shift", err)
	}
	id, err := res.LastInsertId()
	return id, domain.WrapStore("create shift", err)
}

func (r *SqliteShiftRepo) CloseShift(ctx context.Context, id int64, end time.Time, totalWork time.Duration) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET shift_end = ?, total_work_time = ? WHERE id = ?`,
		formatTime(end),
		seconds(totalWork),
		id,
	)
	return domain.WrapStore("close shift", err)
}

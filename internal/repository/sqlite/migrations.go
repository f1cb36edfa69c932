package sqlite

import (
	"context"
	"database/sql"

	"shift-bot/internal/domain"
)

const createShiftsTable = `
CREATE TABLE IF NOT EXISTS shifts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    shift_start TEXT NOT NULL,
    shift_end TEXT,
    total_work_time INTEGER
);
`

const createBreaksTable = `
CREATE TABLE IF NOT EXISTS breaks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    break_type TEXT NOT NULL,
    break_start TEXT NOT NULL,
    break_end TEXT,
    duration INTEGER
);
`

const createBreakStatsTable = `
CREATE TABLE IF NOT EXISTS break_stats (
    user_id INTEGER NOT NULL,
    break_type TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    total_duration INTEGER NOT NULL DEFAULT 0
);
`

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    role TEXT NOT NULL
);
`

// At most one open shift per user and one open break per (user, kind).
const createIndexes = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_open ON shifts(user_id) WHERE shift_end IS NULL;
CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_breaks_open ON breaks(user_id, break_type) WHERE break_end IS NULL;
CREATE INDEX IF NOT EXISTS idx_breaks_user ON breaks(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_break_stats_user_type ON break_stats(user_id, break_type);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		createShiftsTable,
		createBreaksTable,
		createBreakStatsTable,
		createEmployeesTable,
		createIndexes,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return domain.WrapStore("migrate", err)
		}
	}
	return nil
}

package domain

import (
	"context"
	"time"
)

type ShiftRecord struct {
	ID        int64
	UserID    int64
	Start     time.Time
	End       *time.Time
	TotalWork *time.Duration
}

func (s ShiftRecord) Open() bool { return s.End == nil }

type ShiftRepo interface {
	// OpenShift reports found=false when the user has no open shift.
	OpenShift(ctx context.Context, userID int64) (ShiftRecord, bool, error)
	CreateShift(ctx context.Context, userID int64, start time.Time) (int64, error)
	CloseShift(ctx context.Context, id int64, end time.Time, totalWork time.Duration) error
}

type BreakRepo interface {
	OpenBreak(ctx context.Context, userID int64, kind BreakKind) (BreakRecord, bool, error)
	// OldestOpenBreak returns the earliest open break of any kind.
	OldestOpenBreak(ctx context.Context, userID int64) (BreakRecord, bool, error)
	CreateBreak(ctx context.Context, userID int64, kind BreakKind, start time.Time) (int64, error)
	CloseBreak(ctx context.Context, id int64, end time.Time, d time.Duration) error
	SumDurations(ctx context.Context, userID int64) (time.Duration, error)
	Breakdown(ctx context.Context, userID int64) ([]BreakAggregate, error)
	DeleteBreaks(ctx context.Context, userID int64) error
}

type StatsRepo interface {
	IncrementCount(ctx context.Context, userID int64, kind BreakKind) error
	AddDuration(ctx context.Context, userID int64, kind BreakKind, d time.Duration) error
	GetStats(ctx context.Context, userID int64, kind BreakKind) (BreakStats, bool, error)
	ListStats(ctx context.Context, userID int64) ([]BreakStats, error)
	DeleteStats(ctx context.Context, userID int64) error
}

// Repos is the set of repositories bound to one unit of work.
type Repos struct {
	Shifts    ShiftRepo
	Breaks    BreakRepo
	Stats     StatsRepo
	Employees EmployeeRepo
}

// Store hands out Repos scoped to a transaction. fn's error rolls back.
type Store interface {
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

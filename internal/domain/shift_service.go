package domain

import (
	"context"
	"time"
)

type ShiftService interface {
	StartShift(ctx context.Context, userID int64) (ShiftRecord, error)
	EndShift(ctx context.Context, userID int64) (ShiftSummary, error)
	Status(ctx context.Context, userID int64) (Status, error)
}

type BreakService interface {
	StartBreak(ctx context.Context, userID int64, kind BreakKind) (BreakStarted, error)
	EndBreak(ctx context.Context, userID int64) (BreakEnded, error)
}

// ShiftSummary is produced when a shift is closed.
type ShiftSummary struct {
	Shift      ShiftRecord
	TotalWork  time.Duration
	TotalBreak time.Duration
	PureWork   time.Duration
	Breakdown  []BreakAggregate
}

type BreakStarted struct {
	Break BreakRecord
	Stats BreakStats
}

type BreakEnded struct {
	Break    BreakRecord
	Duration time.Duration
	Stats    BreakStats
}

type Status struct {
	Shift *ShiftRecord
	Break *BreakRecord
	Stats []BreakStats
}

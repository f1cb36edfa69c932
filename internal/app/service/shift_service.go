package service

import (
	"context"
	"time"

	"shift-bot/internal/clock"
	"shift-bot/internal/domain"
)

type ShiftServiceImpl struct {
	Store domain.Store
	Clock clock.Clock
}

func NewShiftService(store domain.Store, c clock.Clock) *ShiftServiceImpl {
	return &ShiftServiceImpl{Store: store, Clock: c}
}

// StartShift opens a shift and wipes the user's break log and break stats.
func (s *ShiftServiceImpl) StartShift(ctx context.Context, userID int64) (domain.ShiftRecord, error) {
	now := s.Clock.Now()
	var shift domain.ShiftRecord
	err := s.Store.WithTx(ctx, func(r domain.Repos) error {
		_, found, err := r.Shifts.OpenShift(ctx, userID)
		if err != nil {
			return err
		}
		if found {
			return domain.ErrAlreadyOnShift
		}
		id, err := r.Shifts.CreateShift(ctx, userID, now)
		if err != nil {
			return err
		}
		if err := r.Stats.DeleteStats(ctx, userID); err != nil {
			return err
		}
		if err := r.Breaks.DeleteBreaks(ctx, userID); err != nil {
			return err
		}
		shift = domain.ShiftRecord{ID: id, UserID: userID, Start: now}
		return nil
	})
	return shift, err
}

// EndShift closes the open shift and reports total, break and pure work
// time. The break log is purged afterwards; break stats are kept until the
// next StartShift.
func (s *ShiftServiceImpl) EndShift(ctx context.Context, userID int64) (domain.ShiftSummary, error) {
	now := s.Clock.Now()
	var sum domain.ShiftSummary
	err := s.Store.WithTx(ctx, func(r domain.Repos) error {
		open, found, err := r.Shifts.OpenShift(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNoOpenShift
		}

		totalWork := now.Sub(open.Start).Truncate(time.Second)
		totalBreak, err := r.Breaks.SumDurations(ctx, userID)
		if err != nil {
			return err
		}
		breakdown, err := r.Breaks.Breakdown(ctx, userID)
		if err != nil {
			return err
		}
		if err := r.Shifts.CloseShift(ctx, open.ID, now, totalWork); err != nil {
			return err
		}
		if err := r.Breaks.DeleteBreaks(ctx, userID); err != nil {
			return err
		}

		open.End = &now
		open.TotalWork = &totalWork
		sum = domain.ShiftSummary{
			Shift:      open,
			TotalWork:  totalWork,
			TotalBreak: totalBreak,
			PureWork:   totalWork - totalBreak,
			Breakdown:  breakdown,
		}
		return nil
	})
	return sum, err
}

// Status reports the open shift, the oldest open break and the running stats.
func (s *ShiftServiceImpl) Status(ctx context.Context, userID int64) (domain.Status, error) {
	var st domain.Status
	err := s.Store.WithTx(ctx, func(r domain.Repos) error {
		shift, found, err := r.Shifts.OpenShift(ctx, userID)
		if err != nil {
			return err
		}
		if found {
			st.Shift = &shift
		}
		b, found, err := r.Breaks.OldestOpenBreak(ctx, userID)
		if err != nil {
			return err
		}
		if found {
			st.Break = &b
		}
		st.Stats, err = r.Stats.ListStats(ctx, userID)
		return err
	})
	return st, err
}

package service

import (
	"context"
	"fmt"
	"time"

	"shift-bot/internal/clock"
	"shift-bot/internal/domain"
)

type BreakServiceImpl struct {
	Store  domain.Store
	Clock  clock.Clock
	Policy domain.BreakPolicy
}

func NewBreakService(store domain.Store, c clock.Clock, policy domain.BreakPolicy) *BreakServiceImpl {
	return &BreakServiceImpl{Store: store, Clock: c, Policy: policy}
}

func (s *BreakServiceImpl) StartBreak(ctx context.Context, userID int64, kind domain.BreakKind) (domain.BreakStarted, error) {
	if !kind.Valid() {
		return domain.BreakStarted{}, fmt.Errorf("%w: %q", domain.ErrUnknownBreakKind, kind)
	}
	now := s.Clock.Now()
	var started domain.BreakStarted
	err := s.Store.WithTx(ctx, func(r domain.Repos) error {
		_, found, err := r.Breaks.OpenBreak(ctx, userID, kind)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyOnBreak, kind)
		}
		if err := s.checkPolicy(ctx, r, userID); err != nil {
			return err
		}

		id, err := r.Breaks.CreateBreak(ctx, userID, kind, now)
		if err != nil {
			return err
		}
		if err := r.Stats.IncrementCount(ctx, userID, kind); err != nil {
			return err
		}
		stats, _, err := r.Stats.GetStats(ctx, userID, kind)
		if err != nil {
			return err
		}
		started = domain.BreakStarted{
			Break: domain.BreakRecord{ID: id, UserID: userID, Kind: kind, Start: now},
			Stats: stats,
		}
		return nil
	})
	return started, err
}

func (s *BreakServiceImpl) checkPolicy(ctx context.Context, r domain.Repos, userID int64) error {
	if s.Policy.RequireShift {
		_, found, err := r.Shifts.OpenShift(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotOnShift
		}
	}
	if s.Policy.SingleOpenBreak {
		other, found, err := r.Breaks.OldestOpenBreak(ctx, userID)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: %s", domain.ErrOtherBreakOpen, other.Kind)
		}
	}
	return nil
}

// EndBreak closes the user's open break. With overlapping breaks the oldest
// one is closed first.
func (s *BreakServiceImpl) EndBreak(ctx context.Context, userID int64) (domain.BreakEnded, error) {
	now := s.Clock.Now()
	var ended domain.BreakEnded
	err := s.Store.WithTx(ctx, func(r domain.Repos) error {
		b, found, err := r.Breaks.OldestOpenBreak(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNoOpenBreak
		}

		d := now.Sub(b.Start).Truncate(time.Second)
		if err := r.Breaks.CloseBreak(ctx, b.ID, now, d); err != nil {
			return err
		}
		if err := r.Stats.AddDuration(ctx, userID, b.Kind, d); err != nil {
			return err
		}
		stats, _, err := r.Stats.GetStats(ctx, userID, b.Kind)
		if err != nil {
			return err
		}

		b.End = &now
		b.Duration = &d
		ended = domain.BreakEnded{Break: b, Duration: d, Stats: stats}
		return nil
	})
	return ended, err
}

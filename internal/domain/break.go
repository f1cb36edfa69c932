package domain

import (
	"fmt"
	"strings"
	"time"
)

type BreakKind string

const (
	BreakMeal  BreakKind = "meal"
	BreakWC    BreakKind = "wc"
	BreakSmoke BreakKind = "smoke"
)

// BreakKinds lists the kinds in menu order.
var BreakKinds = []BreakKind{BreakMeal, BreakWC, BreakSmoke}

func (k BreakKind) Valid() bool {
	switch k {
	case BreakMeal, BreakWC, BreakSmoke:
		return true
	}
	return false
}

// ParseBreakKind accepts a kind name or a command such as "/meal".
func ParseBreakKind(s string) (BreakKind, error) {
	k := BreakKind(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "/")))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBreakKind, s)
	}
	return k, nil
}

type BreakRecord struct {
	ID       int64
	UserID   int64
	Kind     BreakKind
	Start    time.Time
	End      *time.Time
	Duration *time.Duration
}

func (b BreakRecord) Open() bool { return b.End == nil }

// BreakStats is the running per-kind tally for a user. Count moves on break
// start, Total on break end.
type BreakStats struct {
	UserID int64
	Kind   BreakKind
	Count  int
	Total  time.Duration
}

// BreakAggregate is one line of the end-of-shift breakdown, computed from the
// break log.
type BreakAggregate struct {
	Kind  BreakKind
	Count int
	Total time.Duration
}

// BreakPolicy tightens break start rules. The zero value keeps the lenient
// behaviour: breaks need no open shift and different kinds may overlap.
type BreakPolicy struct {
	RequireShift    bool
	SingleOpenBreak bool
}

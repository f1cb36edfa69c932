package clock

import (
	"sync"
	"time"
)

// DisplayLayout is the month/day time format shown to users.
const DisplayLayout = "01/02 15:04:05"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock with whole-second precision.
type System struct{}

func (System) Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Manual is a clock that only moves when told to. Used in tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

package engine

import (
	"time"
)

// TimeManager tracks the wall-clock budget of one decision. Search polls it
// between root moves; nothing is interrupted mid-move.
type TimeManager struct {
	budget    time.Duration // Zero or negative means already exhausted
	startTime time.Time
	now       func() time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{now: time.Now}
}

// Init starts the clock for a new decision with the given budget.
func (tm *TimeManager) Init(budget time.Duration) {
	tm.budget = budget
	tm.startTime = tm.now()
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return tm.now().Sub(tm.startTime)
}

// Budget returns the budget of the current decision.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}

// Remaining returns the unused part of the budget, never negative.
func (tm *TimeManager) Remaining() time.Duration {
	return max(tm.budget-tm.Elapsed(), 0)
}

// ShouldStop returns true once the budget is used up.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.budget
}

// Deadline returns the moment the budget runs out.
func (tm *TimeManager) Deadline() time.Time {
	return tm.startTime.Add(tm.budget)
}

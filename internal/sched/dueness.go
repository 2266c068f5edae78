package sched

import (
	"time"

	"github.com/me/goblocks/pkg/model"
)

// Conditions records the outcome of every due condition for one block in
// one scan. All four are evaluated in full so they can be logged together;
// none suppresses another.
type Conditions struct {
	FirstTime bool
	Outdated  bool
	Signaled  bool
	Clicked   bool
}

// Due reports whether any condition is satisfied.
func (c Conditions) Due() bool {
	return c.FirstTime || c.Outdated || c.Signaled || c.Clicked
}

// Trigger names the condition that made the block due, for journalling.
// When several hold at once the earliest in evaluation order wins.
func (c Conditions) Trigger() model.Trigger {
	switch {
	case c.FirstTime:
		return model.TriggerFirstRun
	case c.Outdated:
		return model.TriggerInterval
	case c.Signaled:
		return model.TriggerSignal
	default:
		return model.TriggerClick
	}
}

// Evaluate decides whether one block must update now.
//
//   - first-time: the block has never run (zero LastUpdate sentinel).
//   - outdated: the block has a period and its next scheduled instant has
//     arrived or passed. A zero interval never ages out.
//   - signaled: the last caught signal equals the block's assigned signal.
//     Blocks without an assigned signal never match.
//   - clicked: a click is pending for this block.
//
// time.Time comparison tolerates a clock that moved backwards; a next
// instant in the future is simply not yet due.
func Evaluate(st *model.BlockState, caught int, now time.Time) Conditions {
	var c Conditions

	c.FirstTime = st.LastUpdate.IsZero()

	if st.Interval > 0 {
		next := st.LastUpdate.Add(time.Duration(st.Interval) * time.Second)
		c.Outdated = !next.After(now)
	}

	c.Signaled = caught != 0 && caught == st.Signal
	c.Clicked = st.Click.Pending()

	return c
}

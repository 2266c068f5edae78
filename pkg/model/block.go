package model

import (
	"time"
)

// Block is the immutable configuration of one status unit.
//
// A Block with an empty Command is static: the scheduler never executes it
// and it is rendered from its configured text as-is.
type Block struct {
	Name     string `json:"name,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Command is the shell command (or "js:"-prefixed script) producing the
	// block's text. Empty marks a static block.
	Command string `json:"-"`

	// Interval is the re-run period in seconds. Zero means the block is
	// never re-run on a timer; it only updates on its first scan, on its
	// assigned signal, or on a click.
	Interval int `json:"-"`

	// Signal is the signal number assigned to force-refresh this block.
	// Zero means no signal is assigned.
	Signal int `json:"-"`

	// Presentation defaults, passed through to the status line.
	Label     string `json:"-"`
	FullText  string `json:"full_text"`
	ShortText string `json:"short_text,omitempty"`
	Color     string `json:"color,omitempty"`
	MinWidth  string `json:"min_width,omitempty"`
	Align     string `json:"align,omitempty"`
	Markup    string `json:"markup,omitempty"`
	Separator *bool  `json:"separator,omitempty"`
}

// Static reports whether the block has no command and is never executed.
func (b Block) Static() bool {
	return b.Command == ""
}

// DisplayName returns the label when set, otherwise the name. Used for
// human-facing output only.
func (b Block) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Name
}

// RuntimeState returns the fresh runtime state this block starts from.
// Dispatch resets a block to this value (carrying its pending click over)
// before every execution.
func (b Block) RuntimeState() BlockState {
	return BlockState{Block: b}
}

// BlockState is the mutable runtime state of one block. There is exactly one
// BlockState per configured Block, index-aligned with the configuration, and
// it is mutated only by the scheduler goroutine.
type BlockState struct {
	Block

	Urgent bool `json:"urgent,omitempty"`

	// LastUpdate is the wall-clock time of the last execution. The zero
	// value is the "never run" sentinel, not a real clock reading.
	LastUpdate time.Time `json:"-"`

	// ExitCode is the exit status of the last execution, when there was one.
	ExitCode int `json:"-"`

	// Click is the pending click for this block, consumed and cleared by
	// the scheduler on the next dispatch.
	Click Click `json:"-"`
}

// Trigger names the condition that made a block due.
type Trigger string

const (
	TriggerFirstRun Trigger = "first-run"
	TriggerInterval Trigger = "interval"
	TriggerSignal   Trigger = "signal"
	TriggerClick    Trigger = "click"
)

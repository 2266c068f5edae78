package model

import (
	"testing"
	"time"
)

func TestBlock_Static(t *testing.T) {
	if !(Block{Name: "note", FullText: "hi"}).Static() {
		t.Error("command-less block is not static")
	}
	if (Block{Name: "cpu", Command: "cpu.sh"}).Static() {
		t.Error("command block reported static")
	}
}

func TestBlock_RuntimeState(t *testing.T) {
	b := Block{Name: "vol", Instance: "0", Command: "vol.sh", Interval: 30, Signal: 10}
	st := b.RuntimeState()

	if st.Block != b {
		t.Errorf("state config = %+v, want %+v", st.Block, b)
	}
	if !st.LastUpdate.IsZero() {
		t.Error("fresh state has a last-update timestamp")
	}
	if st.Click.Pending() {
		t.Error("fresh state has a pending click")
	}
}

func TestBlock_DisplayName(t *testing.T) {
	if got := (Block{Name: "vol", Label: "♪"}).DisplayName(); got != "♪" {
		t.Errorf("DisplayName = %q, want label", got)
	}
	if got := (Block{Name: "vol"}).DisplayName(); got != "vol" {
		t.Errorf("DisplayName = %q, want name", got)
	}
}

func TestClick_PendingAndClear(t *testing.T) {
	var c Click
	if c.Pending() {
		t.Error("zero click is pending")
	}

	c = Click{Button: "1", X: "10", Y: "20"}
	if !c.Pending() {
		t.Error("click with button is not pending")
	}

	c.Clear()
	if c != (Click{}) {
		t.Errorf("Clear left %+v", c)
	}
}

func TestBlockState_ZeroLastUpdateIsSentinel(t *testing.T) {
	st := Block{Name: "b", Command: "x"}.RuntimeState()
	st.LastUpdate = time.Unix(0, 1)
	if st.LastUpdate.IsZero() {
		t.Error("non-zero timestamp treated as sentinel")
	}
}

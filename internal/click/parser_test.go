package click

import (
	"strings"
	"testing"

	"github.com/me/goblocks/pkg/model"
)

func TestParse_FullRecord(t *testing.T) {
	rec := Parse([]byte(`,{"name":"vol","instance":"0","button":1,"x":1186,"y":13}`))

	if rec.Name != "vol" {
		t.Errorf("Name = %q, want %q", rec.Name, "vol")
	}
	if rec.Instance != "0" {
		t.Errorf("Instance = %q, want %q", rec.Instance, "0")
	}
	if rec.Button != "1" {
		t.Errorf("Button = %q, want %q", rec.Button, "1")
	}
	if rec.X != "1186" {
		t.Errorf("X = %q, want %q", rec.X, "1186")
	}
	if rec.Y != "13" {
		t.Errorf("Y = %q, want %q", rec.Y, "13")
	}
}

func TestParse_QuotedScalars(t *testing.T) {
	rec := Parse([]byte(`{"name":"vol","instance":"0","button":"1","x":"10","y":"20"}`))

	if rec.Button != "1" || rec.X != "10" || rec.Y != "20" {
		t.Errorf("got button=%q x=%q y=%q, want 1/10/20", rec.Button, rec.X, rec.Y)
	}
}

func TestParse_AbsentOptionalFields(t *testing.T) {
	rec := Parse([]byte(`{"button":3,"x":5,"y":7}`))

	if rec.Name != "" || rec.Instance != "" {
		t.Errorf("got name=%q instance=%q, want empty", rec.Name, rec.Instance)
	}
	if rec.Button != "3" {
		t.Errorf("Button = %q, want %q", rec.Button, "3")
	}
}

func TestParse_MissingInstanceOnly(t *testing.T) {
	rec := Parse([]byte(`{"name":"cpu","button":1,"x":0,"y":0}`))

	if rec.Name != "cpu" {
		t.Errorf("Name = %q, want %q", rec.Name, "cpu")
	}
	if rec.Instance != "" {
		t.Errorf("Instance = %q, want empty", rec.Instance)
	}
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	rec := Parse([]byte(`{"modifiers":["Shift"],"name":"mem","relative_x":4,"button":2,"x":1,"y":2}`))

	if rec.Name != "mem" {
		t.Errorf("Name = %q, want %q", rec.Name, "mem")
	}
	if rec.Button != "2" {
		t.Errorf("Button = %q, want %q", rec.Button, "2")
	}
}

func TestParse_OversizedTokensTruncated(t *testing.T) {
	long := strings.Repeat("9", 2*TokenCap)
	rec := Parse([]byte(`{"name":"a","button":` + long + `,"x":` + long + `,"y":1}`))

	want := strings.Repeat("9", TokenCap-1)
	if rec.Button != want {
		t.Errorf("Button = %q, want %q", rec.Button, want)
	}
	if rec.X != want {
		t.Errorf("X = %q, want %q", rec.X, want)
	}
}

func TestParse_MalformedDegradesToEmpty(t *testing.T) {
	for _, raw := range []string{
		"",
		"garbage",
		`{"name":`,
		`{"name"}`,
		`{{{{`,
	} {
		rec := Parse([]byte(raw))
		if rec.Name != "" || rec.Button != "" {
			t.Errorf("Parse(%q) = %+v, want empty record", raw, rec)
		}
	}
}

func TestParse_UnterminatedStringTakesRemainder(t *testing.T) {
	rec := Parse([]byte(`{"name":"vol`))
	if rec.Name != "vol" {
		t.Errorf("Name = %q, want %q", rec.Name, "vol")
	}
}

func TestReadRecord_BoundedSingleRead(t *testing.T) {
	raw := `{"name":"vol","button":1,"x":2,"y":3}`
	rec := ReadRecord(strings.NewReader(raw))

	if rec.Name != "vol" || rec.Button != "1" {
		t.Errorf("got %+v", rec)
	}
}

func TestReadRecord_EmptyStream(t *testing.T) {
	rec := ReadRecord(strings.NewReader(""))
	if rec != (Record{}) {
		t.Errorf("got %+v, want zero record", rec)
	}
}

func testStates() []model.BlockState {
	blocks := []model.Block{
		{Name: "vol", Instance: "0", Command: "vol.sh"},
		{Name: "vol", Instance: "1", Command: "vol.sh"},
		{Name: "cpu", Command: "cpu.sh"},
		{Name: "", Command: "anon.sh"},
	}
	states := make([]model.BlockState, len(blocks))
	for i, b := range blocks {
		states[i] = b.RuntimeState()
	}
	return states
}

func TestDispatch_ExactFirstMatch(t *testing.T) {
	states := testStates()
	rec := Record{Name: "vol", Instance: "1", Click: model.Click{Button: "1", X: "10", Y: "20"}}

	if got := Dispatch(rec, states); got != 1 {
		t.Fatalf("Dispatch = %d, want 1", got)
	}
	if !states[1].Click.Pending() {
		t.Error("matched block has no pending click")
	}
	if states[0].Click.Pending() {
		t.Error("click leaked onto sibling block")
	}
}

func TestDispatch_DuplicatePairFirstWins(t *testing.T) {
	states := testStates()
	states[1].Name = "vol"
	states[1].Instance = "0" // duplicate of states[0]

	rec := Record{Name: "vol", Instance: "0", Click: model.Click{Button: "2"}}
	if got := Dispatch(rec, states); got != 0 {
		t.Fatalf("Dispatch = %d, want 0", got)
	}
	if states[1].Click.Pending() {
		t.Error("second duplicate received the click")
	}
}

func TestDispatch_MissingInstanceMatchesEmptyInstance(t *testing.T) {
	states := testStates()
	rec := Parse([]byte(`{"name":"cpu","button":1,"x":0,"y":0}`))

	if got := Dispatch(rec, states); got != 2 {
		t.Fatalf("Dispatch = %d, want 2", got)
	}
}

func TestDispatch_BlankRecordMatchesNothing(t *testing.T) {
	states := testStates()
	rec := Record{Click: model.Click{Button: "1"}}

	if got := Dispatch(rec, states); got != -1 {
		t.Fatalf("Dispatch = %d, want -1", got)
	}
	for i := range states {
		if states[i].Click.Pending() {
			t.Errorf("block %d received a click from a blank record", i)
		}
	}
}

func TestDispatch_UnmatchedIsNoOp(t *testing.T) {
	states := testStates()
	rec := Record{Name: "ghost", Click: model.Click{Button: "1"}}

	if got := Dispatch(rec, states); got != -1 {
		t.Fatalf("Dispatch = %d, want -1", got)
	}
	for i := range states {
		if states[i].Click.Pending() {
			t.Errorf("block %d changed on unmatched record", i)
		}
	}
}

func TestDispatch_OverwritesPendingClick(t *testing.T) {
	states := testStates()
	states[0].Click = model.Click{Button: "9", X: "1", Y: "1"}

	rec := Record{Name: "vol", Instance: "0", Click: model.Click{Button: "1"}}
	if got := Dispatch(rec, states); got != 0 {
		t.Fatalf("Dispatch = %d, want 0", got)
	}
	if states[0].Click.Button != "1" {
		t.Errorf("Button = %q, want overwrite to %q", states[0].Click.Button, "1")
	}
}

package executor

import (
	"context"
	"testing"

	"github.com/me/goblocks/internal/logging"
	"github.com/me/goblocks/pkg/model"
)

func runJS(t *testing.T, st *model.BlockState) error {
	t.Helper()
	e := NewJSExecutor(logging.Discard())
	return e.Execute(context.Background(), st)
}

func TestJSExecutor_StringResult(t *testing.T) {
	st := model.Block{Name: "calc", Command: `js:"result: " + (6*7)`}.RuntimeState()

	if err := runJS(t, &st); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if st.FullText != "result: 42" {
		t.Errorf("FullText = %q", st.FullText)
	}
	if st.LastUpdate.IsZero() {
		t.Error("LastUpdate not stamped")
	}
}

func TestJSExecutor_ObjectResult(t *testing.T) {
	st := model.Block{
		Name:    "obj",
		Command: `js:({full_text: "full", short_text: "s", color: "#abcdef", urgent: true})`,
	}.RuntimeState()

	if err := runJS(t, &st); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if st.FullText != "full" || st.ShortText != "s" || st.Color != "#abcdef" || !st.Urgent {
		t.Errorf("state = %+v", st)
	}
}

func TestJSExecutor_BlockContext(t *testing.T) {
	st := model.Block{Name: "vol", Instance: "0", Command: `js:block.name + "/" + block.button`}.RuntimeState()
	st.Click = model.Click{Button: "1"}

	if err := runJS(t, &st); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if st.FullText != "vol/1" {
		t.Errorf("FullText = %q, want %q", st.FullText, "vol/1")
	}
}

func TestJSExecutor_ScriptErrorIsSoft(t *testing.T) {
	st := model.Block{Name: "bad", Command: `js:no.such.thing()`}.RuntimeState()

	err := runJS(t, &st)
	if err == nil {
		t.Fatal("want error for broken script")
	}
	if st.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", st.ExitCode)
	}
	if st.FullText == "" {
		t.Error("failed block has no error text")
	}
	if st.LastUpdate.IsZero() {
		t.Error("LastUpdate not stamped on failure")
	}
}

func TestJSExecutor_FreshVMPerRun(t *testing.T) {
	st := model.Block{Name: "c", Command: `js:typeof counter === "undefined" ? (counter = 1) : (counter + 1)`}.RuntimeState()

	for i := 0; i < 2; i++ {
		if err := runJS(t, &st); err != nil {
			t.Fatalf("Execute #%d: %v", i, err)
		}
		if st.FullText != "1" {
			t.Errorf("run %d: FullText = %q, want %q (no state shared between runs)", i, st.FullText, "1")
		}
	}
}

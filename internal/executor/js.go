package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/me/goblocks/pkg/model"
)

// JSExecutor evaluates "js:"-prefixed block commands in an embedded
// JavaScript runtime. It exists for cheap blocks (a clock, arithmetic over
// environment state) that are not worth a fork per update.
type JSExecutor struct {
	logger *slog.Logger
}

// NewJSExecutor creates a JSExecutor.
func NewJSExecutor(logger *slog.Logger) *JSExecutor {
	return &JSExecutor{
		logger: logger.With("component", "js-executor"),
	}
}

// Kind returns KindJS.
func (e *JSExecutor) Kind() Kind {
	return KindJS
}

// Execute evaluates the script with a "block" context object exposing the
// block identity and pending click. A string result becomes the full text;
// an object result may set full_text, short_text, color and urgent.
//
// Each evaluation runs in a fresh VM: scripts share no state between
// updates.
func (e *JSExecutor) Execute(ctx context.Context, st *model.BlockState) error {
	defer func() { st.LastUpdate = time.Now().UTC() }()

	src := strings.TrimPrefix(st.Command, jsPrefix)

	vm := goja.New()
	if err := vm.Set("block", map[string]any{
		"name":     st.Name,
		"instance": st.Instance,
		"button":   st.Click.Button,
		"x":        st.Click.X,
		"y":        st.Click.Y,
	}); err != nil {
		return fmt.Errorf("set block context: %w", err)
	}

	// Scripts are expected to be short; interrupt on cancellation rather
	// than bounding runtime ourselves.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	v, err := vm.RunString(src)
	if err != nil {
		st.ExitCode = 1
		if st.FullText == "" {
			st.FullText = fmt.Sprintf("[%s] ERROR", st.DisplayName())
		}
		return fmt.Errorf("evaluate script: %w", err)
	}
	st.ExitCode = 0

	switch result := v.Export().(type) {
	case nil:
		// Script chose to leave the configured text in place.
	case string:
		st.FullText = result
	case map[string]any:
		applyObject(st, result)
	default:
		st.FullText = fmt.Sprintf("%v", result)
	}

	return nil
}

func applyObject(st *model.BlockState, obj map[string]any) {
	if s, ok := obj["full_text"].(string); ok {
		st.FullText = s
	}
	if s, ok := obj["short_text"].(string); ok {
		st.ShortText = s
	}
	if s, ok := obj["color"].(string); ok {
		st.Color = s
	}
	if b, ok := obj["urgent"].(bool); ok {
		st.Urgent = b
	}
}

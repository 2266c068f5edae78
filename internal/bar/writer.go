// Package bar emits the i3bar feeder protocol: a one-off header object
// followed by an unbounded JSON array whose elements are one status line
// (itself an array of block objects) per scheduler pass.
package bar

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/me/goblocks/pkg/model"
)

// Writer emits the protocol on one output stream. It is used only by the
// scheduler goroutine and needs no locking.
type Writer struct {
	w      io.Writer
	logger *slog.Logger
	wrote  bool
}

// NewWriter creates a Writer emitting to w, normally stdout.
func NewWriter(w io.Writer, logger *slog.Logger) *Writer {
	return &Writer{
		w:      w,
		logger: logger.With("component", "bar"),
	}
}

// WriteHeader emits the protocol header and opens the infinite array.
// Must be called once, before the first status line.
func (b *Writer) WriteHeader() error {
	_, err := fmt.Fprint(b.w, "{\"version\":1,\"click_events\":true}\n[\n")
	return err
}

// WriteStatusLine emits one full pass as a JSON array of block objects.
// Every configured block appears, static ones included, in configuration
// order.
func (b *Writer) WriteStatusLine(states []model.BlockState) error {
	line, err := MarshalStatusLine(states)
	if err != nil {
		return err
	}

	prefix := ""
	if b.wrote {
		prefix = ","
	}
	if _, err := fmt.Fprintf(b.w, "%s%s\n", prefix, line); err != nil {
		return err
	}
	b.wrote = true
	return nil
}

// MarshalStatusLine renders one pass as its wire JSON array without
// writing it anywhere. The stream endpoint shares this with the writer so
// both emit identical lines.
func MarshalStatusLine(states []model.BlockState) ([]byte, error) {
	items := make([]json.RawMessage, 0, len(states))
	for i := range states {
		raw, err := json.Marshal(&states[i])
		if err != nil {
			return nil, fmt.Errorf("marshal block %q: %w", states[i].Name, err)
		}
		items = append(items, raw)
	}
	return json.Marshal(items)
}

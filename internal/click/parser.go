// Package click decodes click records arriving on the input stream and
// routes them to the block they target.
//
// A record is one flat JSON-ish object per event, e.g.
//
//	,{"name":"vol","instance":"0","button":1,"x":1186,"y":13}
//
// "name" and "instance" are optional; values may be quoted or bare scalars.
// Parsing is tolerant by contract: absent, malformed or oversized fields
// degrade to empty (or truncated) strings and there is no error path — the
// caller always receives usable data.
package click

import (
	"io"

	"github.com/me/goblocks/pkg/model"
)

// MaxRecordSize bounds a single raw record read from the input stream.
const MaxRecordSize = 1024

// TokenCap is the fixed capacity of the button, x and y tokens. Longer
// source fields are truncated to TokenCap-1 bytes.
const TokenCap = 8

// Record is one decoded click event. Name and Instance identify the target
// block; the embedded Click is the payload handed to it.
type Record struct {
	Name     string
	Instance string
	model.Click
}

// ReadRecord performs a single bounded read from r and parses the result.
// One call consumes one readiness event; short reads and read errors yield
// a (possibly empty) record, never a failure.
func ReadRecord(r io.Reader) Record {
	buf := make([]byte, MaxRecordSize)
	n, _ := r.Read(buf)
	return Parse(buf[:n])
}

// Parse extracts the five known fields from one raw record in a single
// forward pass. Unknown keys are skipped; a field not found by the end of
// the buffer stays empty. The buffer is not modified and not retained.
func Parse(buf []byte) Record {
	var rec Record

	s := scanner{buf: buf}
	for {
		key, ok := s.nextKey()
		if !ok {
			break
		}
		val := s.value()
		switch key {
		case "name":
			rec.Name = val
		case "instance":
			rec.Instance = val
		case "button":
			rec.Button = bound(val)
		case "x":
			rec.X = bound(val)
		case "y":
			rec.Y = bound(val)
		}
	}

	return rec
}

// bound truncates a payload token to TokenCap-1 bytes.
func bound(s string) string {
	if len(s) > TokenCap-1 {
		return s[:TokenCap-1]
	}
	return s
}

// scanner walks a raw record left to right, yielding key/value pairs.
// It never backtracks: each call advances past the text it consumed.
type scanner struct {
	buf []byte
	pos int
}

// nextKey advances to the next quoted key followed by a colon and returns
// it. It returns ok=false once the buffer is exhausted.
func (s *scanner) nextKey() (string, bool) {
	for {
		start := s.seek('"')
		if start < 0 {
			return "", false
		}
		end := s.seek('"')
		if end < 0 {
			return "", false
		}
		// A key is only a key if a colon follows the closing quote.
		if s.skipSpace(); s.pos < len(s.buf) && s.buf[s.pos] == ':' {
			s.pos++
			return string(s.buf[start : end-1]), true
		}
	}
}

// value consumes the value after a colon: a quoted string or a bare scalar
// running up to the next comma, closing brace or whitespace.
func (s *scanner) value() string {
	s.skipSpace()
	if s.pos >= len(s.buf) {
		return ""
	}

	if s.buf[s.pos] == '"' {
		s.pos++
		start := s.pos
		end := s.seek('"')
		if end < 0 {
			// Unterminated string: take the remainder.
			return string(s.buf[start:])
		}
		return string(s.buf[start : end-1])
	}

	start := s.pos
	for s.pos < len(s.buf) {
		switch c := s.buf[s.pos]; c {
		case ',', '}', ' ', '\t', '\n', '\r', 0:
			return string(s.buf[start:s.pos])
		default:
			s.pos++
		}
	}
	return string(s.buf[start:])
}

// seek advances past the next occurrence of c and returns the position just
// after it, or -1 when c does not occur in the remainder.
func (s *scanner) seek(c byte) int {
	for i := s.pos; i < len(s.buf); i++ {
		if s.buf[i] == c {
			s.pos = i + 1
			return s.pos
		}
	}
	s.pos = len(s.buf)
	return -1
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

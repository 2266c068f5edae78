//go:build !unix

package sched

import (
	"errors"
	"os"
)

const inputReadySignal = 0

var defaultRefreshSignals = [2]int{}

// armInput is unsupported off unix: there is no SIGIO-style readiness
// delivery, so click events are unavailable.
func armInput(f *os.File) error {
	return errors.New("asynchronous input readiness is not supported on this platform")
}

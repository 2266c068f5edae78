//go:build unix

package sched

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// inputReadySignal is the fixed signal announcing that the input stream has
// a click record available.
const inputReadySignal = int(unix.SIGIO)

// defaultRefreshSignals are the user-assignable block refresh signals used
// when the configuration does not override them.
var defaultRefreshSignals = [2]int{int(unix.SIGUSR1), int(unix.SIGUSR2)}

// armInput configures f for asynchronous readiness notification: this
// process becomes the owner receiving SIGIO, and the descriptor is switched
// to O_ASYNC|O_NONBLOCK so the readiness read never blocks the loop.
// Failures here are fatal to scheduler startup.
func armInput(f *os.File) error {
	fd := int(f.Fd())

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETOWN, unix.Getpid()); err != nil {
		return fmt.Errorf("set owner for %s: %w", f.Name(), err)
	}

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return fmt.Errorf("get flags for %s: %w", f.Name(), err)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_ASYNC|unix.O_NONBLOCK); err != nil {
		return fmt.Errorf("enable async io for %s: %w", f.Name(), err)
	}

	return nil
}

// Package sched implements the block scheduling core: the single polling
// loop that re-executes configured blocks on elapsed intervals, caught
// signals and click events, and hands each rendered pass to the status
// line writer.
package sched

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/me/goblocks/internal/bar"
	"github.com/me/goblocks/internal/click"
	"github.com/me/goblocks/internal/executor"
	"github.com/me/goblocks/internal/store"
	"github.com/me/goblocks/pkg/model"
)

// Config holds scheduler configuration.
type Config struct {
	// RefreshSignals are the two user-assignable signal numbers delivered
	// to wake specific blocks. Zero entries are not registered.
	RefreshSignals [2]int

	// Interval overrides the reconciled sleep period in seconds. Zero
	// means derive it from the block intervals.
	Interval int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{RefreshSignals: defaultRefreshSignals}
}

type refreshReq struct {
	name     string
	instance string
}

// Scheduler owns one BlockState per configured block and runs the
// wake/scan/dispatch cycle over them. All state mutation happens on the
// goroutine running Run; signals and refresh requests reach it only
// through channels and the latch.
type Scheduler struct {
	blocks   []model.Block
	states   []model.BlockState
	registry *executor.Registry
	bar      *bar.Writer
	journal  store.Journal
	config   Config
	logger   *slog.Logger

	latch     Latch
	sigCh     chan os.Signal
	refreshCh chan refreshReq
	input     io.Reader
	sleep     time.Duration

	mu       sync.RWMutex
	snapshot []model.BlockState
	subs     map[chan []byte]struct{}
}

// Option configures optional Scheduler collaborators.
type Option func(*Scheduler)

// WithJournal records every block execution in j.
func WithJournal(j store.Journal) Option {
	return func(s *Scheduler) { s.journal = j }
}

// WithInput overrides the click record stream (os.Stdin by default).
func WithInput(r io.Reader) Option {
	return func(s *Scheduler) { s.input = r }
}

// New creates a Scheduler for the given blocks. The block slice is copied
// and never mutated afterwards; it is what every reset restores from. Each
// block gets a fresh runtime state, index-aligned with the blocks for the
// life of the process.
func New(blocks []model.Block, reg *executor.Registry, bw *bar.Writer, cfg Config, logger *slog.Logger, opts ...Option) *Scheduler {
	config := make([]model.Block, len(blocks))
	copy(config, blocks)

	states := make([]model.BlockState, len(config))
	for i, b := range config {
		states[i] = b.RuntimeState()
	}

	s := &Scheduler{
		blocks:    config,
		states:    states,
		registry:  reg,
		bar:       bw,
		config:    cfg,
		logger:    logger.With("component", "scheduler"),
		sigCh:     make(chan os.Signal, 1),
		refreshCh: make(chan refreshReq, 8),
		input:     os.Stdin,
		subs:      make(map[chan []byte]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// init registers signal delivery and arms the input stream. Failures here
// abort startup; everything past this point is soft-failure territory.
func (s *Scheduler) init() error {
	secs := s.config.Interval
	if secs <= 0 {
		secs = ReconcileInterval(s.blocks)
	}
	s.sleep = time.Duration(secs) * time.Second

	sigs := make([]os.Signal, 0, 3)
	for _, n := range s.config.RefreshSignals {
		if n > 0 {
			sigs = append(sigs, syscall.Signal(n))
		}
	}

	if f, ok := s.input.(*os.File); ok && inputReadySignal != 0 {
		if isatty.IsTerminal(f.Fd()) {
			s.logger.Info("input is a terminal, click events disabled")
		} else {
			if err := armInput(f); err != nil {
				return fmt.Errorf("arm click input: %w", err)
			}
			sigs = append(sigs, syscall.Signal(inputReadySignal))
		}
	}

	if len(sigs) > 0 {
		signal.Notify(s.sigCh, sigs...)
	}
	return nil
}

// Run starts the scheduling loop and blocks until ctx is cancelled. The
// loop has no other exit: process termination is the contract.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.init(); err != nil {
		return err
	}
	defer signal.Stop(s.sigCh)

	if err := s.bar.WriteHeader(); err != nil {
		return fmt.Errorf("write status line header: %w", err)
	}

	s.logger.Info("scheduler started", "sleep", s.sleep, "blocks", len(s.states))

	timer := time.NewTimer(s.sleep)
	defer timer.Stop()

	for {
		s.Scan(ctx, time.Now())
		s.render()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.sleep)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-timer.C:
		case sig := <-s.sigCh:
			n := signum(sig)
			s.latch.Set(n)
			s.logger.Debug("woken by signal", "signal", n)
			if inputReadySignal != 0 && n == inputReadySignal {
				s.handleClick()
			}
		case req := <-s.refreshCh:
			s.applyRefresh(req)
		}
	}
}

// Scan runs one full due-ness pass: every due non-static block is reset
// from its configuration (keeping its pending click), executed, and its
// click cleared. The signal latch is cleared after the whole pass so every
// block sees the same caught signal.
func (s *Scheduler) Scan(ctx context.Context, now time.Time) {
	caught := s.latch.Load()

	for i := range s.states {
		st := &s.states[i]

		if st.Static() {
			continue
		}

		cond := Evaluate(st, caught, now)
		s.logger.Debug("block checked",
			"name", st.Name, "instance", st.Instance,
			"first_time", cond.FirstTime, "outdated", cond.Outdated,
			"signaled", cond.Signaled, "clicked", cond.Clicked)

		if !cond.Due() {
			continue
		}

		// Reset from the immutable configuration, not from st.Block:
		// executors write output onto the embedded block fields, and a
		// block that stops emitting a value must fall back to its
		// configured one.
		next := s.blocks[i].RuntimeState()
		next.Click = st.Click
		*st = next

		s.execute(ctx, st, cond.Trigger())
		st.Click.Clear()
	}

	s.latch.Clear()
}

// execute dispatches one block to its executor and journals the result.
// Execution failures are soft: logged, never propagated.
func (s *Scheduler) execute(ctx context.Context, st *model.BlockState, trigger model.Trigger) {
	exec, err := s.registry.For(st.Command)
	if err != nil {
		st.LastUpdate = time.Now().UTC()
		s.logger.Error("no executor for block", "name", st.Name, "error", err)
		return
	}

	if err := exec.Execute(ctx, st); err != nil {
		s.logger.Warn("block execution failed",
			"name", st.Name, "instance", st.Instance, "error", err)
	}

	if s.journal == nil {
		return
	}
	rec := &model.UpdateRecord{
		Name:      st.Name,
		Instance:  st.Instance,
		Trigger:   trigger,
		ExitCode:  st.ExitCode,
		FullText:  st.FullText,
		CreatedAt: st.LastUpdate,
	}
	if err := s.journal.Append(ctx, rec); err != nil {
		s.logger.Warn("journal append failed", "name", st.Name, "error", err)
	}
}

// handleClick consumes one click record from the input stream and assigns
// it to the matching block. Unmatched records are dropped.
func (s *Scheduler) handleClick() {
	rec := click.ReadRecord(s.input)
	s.logger.Debug("click record",
		"name", rec.Name, "instance", rec.Instance,
		"button", rec.Button, "x", rec.X, "y", rec.Y)

	if i := click.Dispatch(rec, s.states); i < 0 {
		s.logger.Debug("click matched no block")
	}
}

// applyRefresh marks matching blocks as never-run so the next scan picks
// them up. An empty instance matches every instance of the name.
func (s *Scheduler) applyRefresh(req refreshReq) {
	found := false
	for i := range s.states {
		st := &s.states[i]
		if st.Name != req.name {
			continue
		}
		if req.instance != "" && st.Instance != req.instance {
			continue
		}
		st.LastUpdate = time.Time{}
		found = true
	}
	if !found {
		s.logger.Debug("refresh matched no block", "name", req.name, "instance", req.instance)
	}
}

// render emits the status line once per scan and publishes the pass to
// snapshot readers and stream subscribers.
func (s *Scheduler) render() {
	if err := s.bar.WriteStatusLine(s.states); err != nil {
		s.logger.Warn("write status line", "error", err)
	}

	snap := make([]model.BlockState, len(s.states))
	copy(snap, s.states)

	line, err := bar.MarshalStatusLine(s.states)
	if err != nil {
		s.logger.Warn("marshal status line", "error", err)
	}

	s.mu.Lock()
	s.snapshot = snap
	for ch := range s.subs {
		if line == nil {
			continue
		}
		select {
		case ch <- line:
		default: // slow subscriber, drop the pass
		}
	}
	s.mu.Unlock()
}

// Snapshot returns a copy of the block states as of the last completed
// scan. Safe to call from any goroutine.
func (s *Scheduler) Snapshot() []model.BlockState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make([]model.BlockState, len(s.snapshot))
	copy(snap, s.snapshot)
	return snap
}

// Refresh requests an out-of-band update of the named block, waking the
// loop as a signal would. It never blocks; false means the request queue
// was full and the request was dropped.
func (s *Scheduler) Refresh(name, instance string) bool {
	select {
	case s.refreshCh <- refreshReq{name: name, instance: instance}:
		return true
	default:
		return false
	}
}

// Subscribe registers a stream consumer receiving each rendered status
// line as marshalled JSON. The returned cancel func must be called to
// release the subscription.
func (s *Scheduler) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 4)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func signum(sig os.Signal) int {
	if n, ok := sig.(syscall.Signal); ok {
		return int(n)
	}
	return 0
}

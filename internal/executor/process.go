package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/me/goblocks/pkg/model"
)

// exitUrgent is the exit status a block command uses to flag its output as
// urgent while still succeeding.
const exitUrgent = 33

// ProcessExecutor runs block commands as local shell processes.
type ProcessExecutor struct {
	shell  string
	logger *slog.Logger
}

// NewProcessExecutor creates a ProcessExecutor. shell defaults to "sh".
func NewProcessExecutor(shell string, logger *slog.Logger) *ProcessExecutor {
	if shell == "" {
		shell = "sh"
	}
	return &ProcessExecutor{
		shell:  shell,
		logger: logger.With("component", "process-executor"),
	}
}

// Kind returns KindProcess.
func (e *ProcessExecutor) Kind() Kind {
	return KindProcess
}

// Execute runs the block command under the shell, passing the block
// identity and any pending click through BLOCK_* environment variables.
// The first three stdout lines become full text, short text, and color.
// Exit status 33 marks the block urgent; any other non-zero status leaves
// the captured text in place and is reported as a soft error.
func (e *ProcessExecutor) Execute(ctx context.Context, st *model.BlockState) error {
	defer func() { st.LastUpdate = time.Now().UTC() }()

	cmd := exec.CommandContext(ctx, e.shell, "-c", st.Command)
	cmd.Env = append(os.Environ(),
		"BLOCK_NAME="+st.Name,
		"BLOCK_INSTANCE="+st.Instance,
		"BLOCK_BUTTON="+st.Click.Button,
		"BLOCK_X="+st.Click.X,
		"BLOCK_Y="+st.Click.Y,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	st.ExitCode = 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			st.ExitCode = exitErr.ExitCode()
		} else {
			// The command never ran (shell missing, context cancelled).
			return fmt.Errorf("run %q: %w", st.Command, runErr)
		}
	}

	applyOutput(st, stdout.String())

	switch {
	case st.ExitCode == exitUrgent:
		st.Urgent = true
	case st.ExitCode != 0:
		if st.FullText == "" {
			st.FullText = fmt.Sprintf("[%s] ERROR", st.DisplayName())
		}
		e.logger.Debug("block command failed",
			"name", st.Name, "exit_code", st.ExitCode,
			"stderr", strings.TrimSpace(stderr.String()))
		return fmt.Errorf("command %q exited %d", st.Command, st.ExitCode)
	}

	return nil
}

// applyOutput maps up to three stdout lines onto the presentable fields.
// Fewer lines leave the corresponding fields at their configured values.
func applyOutput(st *model.BlockState, out string) {
	if out == "" {
		return
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > 0 {
		st.FullText = st.Label + lines[0]
	}
	if len(lines) > 1 {
		st.ShortText = lines[1]
	}
	if len(lines) > 2 && lines[2] != "" {
		st.Color = lines[2]
	}
}

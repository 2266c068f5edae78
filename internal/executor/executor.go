// Package executor runs block commands and fills in their presentable
// state. Backends are pluggable: shell commands run as local processes,
// "js:"-prefixed commands run in an embedded JavaScript runtime.
package executor

import (
	"context"
	"strings"

	"github.com/me/goblocks/pkg/model"
)

// Kind identifies an execution backend.
type Kind string

const (
	KindProcess Kind = "process"
	KindJS      Kind = "js"
)

// jsPrefix marks a block command evaluated in-process instead of forked.
const jsPrefix = "js:"

// KindFor returns the backend kind selected by a block command.
func KindFor(command string) Kind {
	if strings.HasPrefix(command, jsPrefix) {
		return KindJS
	}
	return KindProcess
}

// Executor is a pluggable backend that runs one block command.
type Executor interface {
	// Kind returns the backend identifier.
	Kind() Kind

	// Execute runs the block's command synchronously and mutates st's
	// presentable fields. It must stamp st.LastUpdate in every outcome,
	// success or failure, so the block does not hot-loop as never-run.
	Execute(ctx context.Context, st *model.BlockState) error
}

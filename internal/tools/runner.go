// Package tools wraps the external build tools r2meson drives: the
// meson generator, the ninja executor, and MSBuild for the Visual
// Studio backends. Each wrapper builds an argument list and runs the
// tool as a blocking child process; a non-zero exit status is fatal
// to the whole run.
package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
)

// Runner executes an external command and waits for it to finish.
// The orchestrator depends on this interface rather than os/exec
// directly so that tests can substitute a recording implementation
// and assert on invocation order without spawning processes.
type Runner interface {
	// Run executes name with args, blocking until the child exits.
	// It returns nil on exit status zero and an error otherwise.
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner is the production Runner backed by os/exec. The child
// inherits stdout and stderr, so compiler and linker output streams
// straight to the console the way it would when running the tools by
// hand.
type execRunner struct{}

// NewRunner returns the os/exec backed Runner used outside of tests.
func NewRunner() Runner {
	return execRunner{}
}

// Run implements Runner. There is no timeout: a build can legitimately
// run for a long time, and the original driver likewise waits
// indefinitely. The context is plumbed through so a future caller
// could cancel, but the CLI passes context.Background.
func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	logger.Debug("invoking %s %s\n", name, strings.Join(args, " "))

	// #nosec G204 -- the argument lists are constructed from fixed
	// tokens and validated flags, not raw user input.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.NewToolError(fmt.Sprintf("%s failed", name), err)
	}
	return nil
}

// Package exec provides a stub-friendly interface for running the external
// tools ltpl drives (package managers, scaffolders, ORM and UI CLIs).
package exec

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
)

// CmdResult holds the result of a command execution.
type CmdResult struct {
	ExitCode int
}

// RunOpts holds optional parameters for command execution.
// Nil streams are inherited from the current process.
type RunOpts struct {
	Dir    string // working directory (optional)
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner is the interface for running external commands.
type CommandRunner interface {
	// Run executes a command and blocks until it exits.
	// Returns CmdResult with ExitCode set if the process exits (even non-zero).
	// Returns error only for execution failures (binary not found, ctx canceled, io failure).
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
}

// DefaultWaitDelay bounds how long Run waits for a canceled command to exit
// and release its output before killing it.
const DefaultWaitDelay = 5 * time.Second

// RealRunner is the production implementation of CommandRunner using os/exec.
//
// On cancellation the child is interrupted first so package managers can
// stop their own children; it is killed after WaitDelay. Children stay in
// ltpl's process group so interactive tools (sv, shadcn-svelte) keep the
// terminal.
type RealRunner struct {
	WaitDelay time.Duration
}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{WaitDelay: DefaultWaitDelay}
}

// Run executes the command with inherited (or overridden) standard streams.
func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = r.WaitDelay

	cmd.Stdin = opts.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	err := cmd.Run()
	if err != nil {
		// Process ran but exited non-zero
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return CmdResult{ExitCode: exitErr.ExitCode()}, nil
		}
		if ctx.Err() != nil {
			return CmdResult{ExitCode: -1}, ctx.Err()
		}
		return CmdResult{ExitCode: -1}, err
	}

	return CmdResult{}, nil
}

// IsNotFound reports whether err means the binary could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// LookPath resolves a binary on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// CommandLine renders name and args as a shell-quoted command line for
// logs and error details.
func CommandLine(name string, args []string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

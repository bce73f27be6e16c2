package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
)

type call struct {
	Dir  string
	Line string
}

// fakeRunner records invocations instead of spawning processes. It can
// simulate the directories real tools create and fail a chosen command.
type fakeRunner struct {
	calls []call

	failOn   string // substring of the command line to fail
	exitCode int    // exit code for failOn (default 1)
	err      error  // returned instead of an exit code when set
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	line := exec.CommandLine(name, args)
	f.calls = append(f.calls, call{Dir: opts.Dir, Line: line})

	if f.failOn != "" && strings.Contains(line, f.failOn) {
		if f.err != nil {
			return exec.CmdResult{ExitCode: -1}, f.err
		}
		code := f.exitCode
		if code == 0 {
			code = 1
		}
		return exec.CmdResult{ExitCode: code}, nil
	}

	switch {
	case len(args) > 2 && args[1] == "create":
		// sv create <name>: skeleton with routes and static dirs
		root := filepath.Join(opts.Dir, args[2])
		for _, d := range []string{"src/routes", "static"} {
			if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
				return exec.CmdResult{}, err
			}
		}
	case strings.Contains(line, "prisma init"):
		if err := os.MkdirAll(filepath.Join(opts.Dir, "prisma"), 0o755); err != nil {
			return exec.CmdResult{}, err
		}
	}
	return exec.CmdResult{}, nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Line)
	}
	return out
}

package exec

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRealRunner_ExitCode(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		expectCode int
	}{
		{"exit 0", []string{"-c", "exit 0"}, 0},
		{"exit 1", []string{"-c", "exit 1"}, 1},
		{"exit 42", []string{"-c", "exit 42"}, 42},
	}

	r := NewRealRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Run(context.Background(), "sh", tt.args, RunOpts{
				Stdout: &bytes.Buffer{},
				Stderr: &bytes.Buffer{},
			})
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if result.ExitCode != tt.expectCode {
				t.Errorf("exit code = %d, want %d", result.ExitCode, tt.expectCode)
			}
		})
	}
}

func TestRealRunner_Streams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"}, RunOpts{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(stdout.String(), "out") {
		t.Errorf("stdout = %q, want to contain 'out'", stdout.String())
	}
	if !strings.Contains(stderr.String(), "err") {
		t.Errorf("stderr = %q, want to contain 'err'", stderr.String())
	}
}

func TestRealRunner_Dir(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	_, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "pwd"}, RunOpts{
		Dir:    dir,
		Stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// On macOS, temp dirs may be reported through /private
	if !strings.HasSuffix(strings.TrimSpace(stdout.String()), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", stdout.String(), dir)
	}
}

func TestRealRunner_NotFound(t *testing.T) {
	_, err := NewRealRunner().Run(context.Background(), "no_such_command_abc123", nil, RunOpts{})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestRealRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	r := &RealRunner{WaitDelay: time.Second}
	_, err := r.Run(ctx, "sh", []string{"-c", "sleep 10"}, RunOpts{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRealRunner_CanceledWithLingeringChild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// The background sleep outlives sh and holds the output pipes.
	var stdout, stderr bytes.Buffer
	r := &RealRunner{WaitDelay: 200 * time.Millisecond}
	start := time.Now()
	_, err := r.Run(ctx, "sh", []string{"-c", "sleep 3 & wait"}, RunOpts{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Run returned after %v, want it bounded by WaitDelay", elapsed)
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine("pnpm", []string{"add", "-D", "tailwindcss@latest"})
	want := "pnpm add -D tailwindcss@latest"
	if got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}

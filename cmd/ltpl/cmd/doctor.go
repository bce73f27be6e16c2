package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/ui"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the tools ltpl runs",
		Long: `Check that the package manager, the package launcher and node are on
PATH, and print their versions along with the resolved settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDoctor(cmd.Context())
		},
	}
}

// toolStatus is the outcome of checking one tool. err means the tool is
// missing; warning means it was found but did not report a version.
type toolStatus struct {
	name    string
	path    string
	version string
	warning string
	err     error
}

func (a *app) runDoctor(ctx context.Context) error {
	s := a.settings

	fmt.Fprintln(a.out, ui.RenderHeading("Settings:"))
	configFile := a.v.ConfigFileUsed()
	if configFile == "" {
		configFile = "(none)"
	}
	fmt.Fprintf(a.out, "  %-16s %s\n", "config:", configFile)
	fmt.Fprintf(a.out, "  %-16s %s\n", "package manager:", s.PackageManager)
	fmt.Fprintf(a.out, "  %-16s %s\n", "launcher:", s.Launcher)
	fmt.Fprintf(a.out, "  %-16s %s\n", "generator:", s.Generator)
	fmt.Fprintf(a.out, "  %-16s %s\n", "prompt:", s.Prompt)
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, ui.RenderHeading("Tools:"))
	var missing []string
	for _, name := range uniq("node", s.PackageManager, s.Launcher) {
		st := a.checkTool(ctx, name)
		if st.err != nil {
			missing = append(missing, name)
			fmt.Fprintf(a.out, "  %s %-6s %s\n", ui.RenderFail(ui.IconFail), name, ui.RenderMuted(st.err.Error()))
			continue
		}
		if st.warning != "" {
			fmt.Fprintf(a.out, "  %s %-6s %s %s\n", ui.RenderWarn(ui.IconWarn), name, ui.RenderWarn(st.warning), ui.RenderMuted(st.path))
			continue
		}
		fmt.Fprintf(a.out, "  %s %-6s %s %s\n", ui.RenderPass(ui.IconPass), name, st.version, ui.RenderMuted(st.path))
	}

	if len(missing) > 0 {
		return lerrors.NewWithDetails(lerrors.ECommandNotFound, "required tools are missing", map[string]string{
			"missing": strings.Join(missing, ", "),
		})
	}
	return nil
}

func (a *app) checkTool(ctx context.Context, name string) toolStatus {
	st := toolStatus{name: name}

	path, err := a.lookPath(name)
	if err != nil {
		st.err = fmt.Errorf("not found on PATH")
		return st
	}
	st.path = path

	var stdout, stderr bytes.Buffer
	res, err := a.runner.Run(ctx, name, []string{"--version"}, exec.RunOpts{Stdout: &stdout, Stderr: &stderr})
	switch {
	case err != nil:
		st.warning = "version unknown: " + err.Error()
	case res.ExitCode != 0:
		st.warning = fmt.Sprintf("version unknown: --version exited with status %d", res.ExitCode)
	default:
		st.version = firstLine(stdout.String())
	}
	return st
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func uniq(names ...string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Package cmd implements the ltpl CLI.
//
// The root command scaffolds a project; "ltpl doctor" checks the toolchain
// the scaffold depends on.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/prompt"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/ui"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// app carries the process-level dependencies of the commands so tests can
// swap them.
type app struct {
	runner      exec.CommandRunner
	newDriver   func(style string) (prompt.Driver, error)
	interactive func() bool
	getwd       func() (string, error)
	lookPath    func(name string) (string, error)
	out         io.Writer
	errOut      io.Writer

	// set by the root command's PersistentPreRunE
	v        *viper.Viper
	settings *config.Settings
	log      *slog.Logger
}

func defaultApp() *app {
	return &app{
		runner:      exec.NewRealRunner(),
		newDriver:   prompt.NewDriver,
		interactive: prompt.Interactive,
		getwd:       os.Getwd,
		lookPath:    exec.LookPath,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}
}

type rootFlags struct {
	configFile string
	home       string
	verbose    bool
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags
	var create createFlags

	root := &cobra.Command{
		Use:   "ltpl",
		Short: "Scaffold a SvelteKit project on the LTPL stack",
		Long: `ltpl creates a SvelteKit starter project in a new directory under the
current one. It asks a few questions, runs sv to generate the base project,
then installs the features you picked:

  - Tailwind CSS
  - shadcn-svelte
  - Prisma with Auth.js (Google and GitHub providers)
  - Stripe

Answers can come from a preset file instead of the prompts:

  ltpl --preset answers.yaml

Tool settings are read from config.yaml in $LTPL_HOME (default ~/.ltpl)
and from LTPL_* environment variables.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCreate(cmd.Context(), create)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Config file (default: config.yaml in the ltpl home)")
	pf.StringVar(&flags.home, "home", "", "ltpl home directory (default: $LTPL_HOME or ~/.ltpl)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log every command ltpl runs")
	pf.String("package-manager", "", "Package manager: pnpm, npm, yarn or bun")

	f := root.Flags()
	f.StringVar(&create.preset, "preset", "", "Answers file to use instead of prompting")
	f.StringVar(&create.savePreset, "save-preset", "", "Write the collected answers to this file")
	f.String("prompt", "", "Prompt style: form or line")

	root.AddCommand(newDoctorCmd(a))
	return root
}

// setup resolves settings and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, flags rootFlags) error {
	ui.InitColor()

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	if flags.home != "" {
		config.SetHome(flags.home)
	}

	v, err := config.NewViper(flags.configFile)
	if err != nil {
		return lerrors.Wrap(lerrors.EConfigInvalid, "failed to load settings", err)
	}
	if err := bindFlag(v, cmd, "package_manager", "package-manager"); err != nil {
		return err
	}
	if err := bindFlag(v, cmd, "prompt", "prompt"); err != nil {
		return err
	}

	settings, err := config.LoadSettings(v)
	if err != nil {
		return lerrors.Wrap(lerrors.EConfigInvalid, "invalid settings", err)
	}
	a.v = v
	a.settings = settings
	a.log.Debug("settings loaded", "config", v.ConfigFileUsed(), "package_manager", settings.PackageManager, "prompt", settings.Prompt)
	return nil
}

// bindFlag binds a flag to a viper key when the command defines it.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, name string) error {
	fl := cmd.Flags().Lookup(name)
	if fl == nil {
		return nil
	}
	if err := v.BindPFlag(key, fl); err != nil {
		return lerrors.Wrap(lerrors.EInternal, "failed to bind flag --"+name, err)
	}
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := defaultApp()
	return run(ctx, a, os.Args[1:])
}

func run(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	switch lerrors.GetCode(err) {
	case lerrors.EAborted:
		fmt.Fprintln(a.errOut, ui.RenderMuted("Cancelled."))
	case "":
		// cobra usage errors (unknown flag, bad args)
		fmt.Fprintln(a.errOut, ui.RenderFail("Error: "+err.Error()))
		err = lerrors.Wrap(lerrors.EUsage, err.Error(), err)
	default:
		lerrors.Print(a.errOut, err)
	}
	return lerrors.ExitCode(err)
}

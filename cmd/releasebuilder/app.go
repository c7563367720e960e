package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aledsdavies/releasebuilder/internal/committer"
	"github.com/aledsdavies/releasebuilder/internal/config"
	"github.com/aledsdavies/releasebuilder/internal/logging"
)

// Exit code constants
const (
	ExitSuccess          = 0
	ExitFailure          = 1
	ExitInvalidArguments = 2
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// app holds what the commands share
type app struct {
	in       io.Reader
	out, err io.Writer

	home string
	git  committer.Runner

	cfg    config.Config
	logger *zap.Logger

	// persistent flags
	configFile string
	verbose    bool
	noColor    bool
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	home, _ := os.UserHomeDir()
	return &app{
		in:     in,
		out:    out,
		err:    errOut,
		home:   home,
		git:    committer.Git,
		logger: zap.NewNop(),
	}
}

func (a *app) configDir() string {
	return filepath.Join(a.home, config.DirName)
}

func (a *app) useColor() bool {
	return ShouldUseColor(a.noColor, a.out)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "releasebuilder",
		Short:         "Create GitHub releases and keep a PHP version constant in step",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				File:  a.configFile,
				Home:  a.home,
				Flags: cmd.Flags(),
			})
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.LogLevel
			if a.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, cfg.LogFormat, ShouldUseColor(a.noColor, a.err))
			if err != nil {
				return err
			}
			a.logger = logger
			if cfg.File != "" {
				a.logger.Debug("Loaded config", zap.String("file", cfg.File))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default $HOME/.releaseBuilder/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().String("log-format", logging.FormatConsole, "Log format: console or json")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(a.buildCmd(), a.constantCmd(), a.versionCmd())
	return root
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the releasebuilder version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), "releasebuilder "+version+"\n")
			return err
		},
	}
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, a *app, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		FormatError(a.err, err, ShouldUseColor(a.noColor, a.err))
		return exitCode(err)
	}
	return ExitSuccess
}

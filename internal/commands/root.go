// Package commands provides CLI commands for intakechat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/intakechat/internal/chat"
	"github.com/diogo/intakechat/internal/config"
	"github.com/diogo/intakechat/internal/logging"
	"github.com/diogo/intakechat/internal/render"
	"github.com/diogo/intakechat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app holds per-invocation state shared by the subcommands
type app struct {
	deps *Dependencies

	// Global flags
	configPath string
	assistant  string
	logLevel   string

	cfg      config.Config
	logger   zerolog.Logger
	closeLog func() error
}

// setup loads configuration and opens the log file
func (a *app) setup(cmd *cobra.Command) error {
	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return err
	}
	if a.assistant != "" {
		cfg.AssistantID = a.assistant
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	if render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	logger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		// keep going with warnings on stderr rather than refusing to start
		logger = logging.Console(cmd.ErrOrStderr(), "warn")
		logger.Warn().Err(err).Str("path", cfg.LogFile).Msg("file logging disabled")
		closeLog = func() error { return nil }
	}
	a.logger = logger
	a.closeLog = closeLog

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("assistant", cfg.AssistantID).
		Dur("poll_interval", cfg.PollInterval).
		Msg("starting")
	return nil
}

// teardown closes the log file; safe to call more than once
func (a *app) teardown() {
	if a.closeLog != nil {
		_ = a.closeLog()
		a.closeLog = nil
	}
}

func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.GetConfigPath()
}

// newController builds the chat controller from the loaded configuration
func (a *app) newController() (*chat.Controller, error) {
	service, err := a.deps.NewService(a.cfg)
	if err != nil {
		return nil, err
	}
	return chat.NewController(service,
		chat.WithAssistantID(a.cfg.AssistantID),
		chat.WithPollInterval(a.cfg.PollInterval),
		chat.WithLogger(a.logger),
	), nil
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	return newRootCmd(&app{deps: deps, logger: zerolog.Nop()})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intakechat",
		Short: "Project intake chat backed by an OpenAI assistant",
		Long: `intakechat is a terminal chat that walks a prospective client through a
project intake conversation. Messages are forwarded to a hosted OpenAI
assistant and its replies are shown as they arrive.

The API key is read from OPENAI_API_KEY (or INTAKECHAT_API_KEY, or the
api_key config entry).

Examples:
  intakechat                          Start the intake chat
  intakechat ask "Hi, I'm Jane Doe"   Send one message and print the reply
  intakechat config show              Show the current configuration
  intakechat config set poll_interval 2s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.teardown()
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "intakechat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, a)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.intakechat/config.json)")
	cmd.PersistentFlags().StringVarP(&a.assistant, "assistant", "a", "", "Assistant ID to run")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(a))
	cmd.AddCommand(newAskCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// rootCmd is the command tree used by Execute
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if errors.Is(err, errInterrupted) {
		fmt.Fprintln(os.Stderr, "Interrupted")
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err, "Error"))
		os.Exit(1)
	}
}

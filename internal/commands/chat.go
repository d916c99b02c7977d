package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/intakechat/internal/render"
	"github.com/diogo/intakechat/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive intake chat",
		Long: `Start the interactive intake chat.

A conversation thread is created on start and the assistant greets you.
Press Enter to send, Ctrl+Y to copy the last reply, Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, a)
		},
	}
}

func runChat(cmd *cobra.Command, a *app) error {
	defer a.teardown()

	controller, err := a.newController()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// Initialization runs inside the TUI so the window opens immediately
	opts := tui.Options{
		Title:    "Project Intake",
		Markdown: render.FromConfig(a.cfg.Markdown),
	}
	return a.deps.TUI.RunChat(cmd.Context(), controller, opts)
}

package commands

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/diogo/intakechat/internal/api"
	"github.com/diogo/intakechat/internal/config"
	"github.com/diogo/intakechat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, chat tui.ChatController, opts tui.Options) error
}

// ServiceFactory builds the assistant service from the loaded configuration.
type ServiceFactory func(cfg config.Config) (api.AssistantService, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewService creates the assistant service client.
	NewService ServiceFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, chat tui.ChatController, opts tui.Options) error {
	return tui.RunChat(ctx, chat, opts)
}

// NewAssistantsService is the production ServiceFactory
func NewAssistantsService(cfg config.Config) (api.AssistantService, error) {
	client, err := api.NewClient(cfg.APIKey,
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewService:      NewAssistantsService,
		TUI:             &DefaultTUI{},
		CopyToClipboard: clipboard.WriteAll,
	}
}

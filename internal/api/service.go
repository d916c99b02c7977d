package api

import (
	"context"

	"github.com/diogo/intakechat/internal/models"
)

// AssistantService is the capability the chat controller needs from the
// hosted assistant. Tests substitute MockAssistantService.
type AssistantService interface {
	CreateThread(ctx context.Context) (*models.Thread, error)
	CreateMessage(ctx context.Context, threadID string, role models.Role, content string) (*models.ThreadMessage, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (*models.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (*models.Run, error)
	// ListMessages returns the thread's messages, most recent first.
	ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error)
}

// Ensure AssistantsClient implements AssistantService
var _ AssistantService = (*AssistantsClient)(nil)

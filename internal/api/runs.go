package api

import (
	"context"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/models"
)

type createRunRequest struct {
	AssistantID string `json:"assistant_id"`
}

// CreateRun starts the assistant against the thread's messages
func (c *AssistantsClient) CreateRun(ctx context.Context, threadID, assistantID string) (*models.Run, error) {
	if threadID == "" {
		return nil, apierrors.ErrNoThread
	}
	if assistantID == "" {
		return nil, fmt.Errorf("create run: assistant id cannot be empty")
	}

	path := fmt.Sprintf(models.PathRuns, threadID)
	result, err := c.do(ctx, http.MethodPost, path, createRunRequest{AssistantID: assistantID})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return parseRun(result, path)
}

// RetrieveRun fetches the current state of a run
func (c *AssistantsClient) RetrieveRun(ctx context.Context, threadID, runID string) (*models.Run, error) {
	if threadID == "" {
		return nil, apierrors.ErrNoThread
	}

	path := fmt.Sprintf(models.PathRun, threadID, runID)
	result, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve run: %w", err)
	}
	return parseRun(result, path)
}

func parseRun(data gjson.Result, path string) (*models.Run, error) {
	run := &models.Run{
		ID:          data.Get(PathID).String(),
		ThreadID:    data.Get(PathThreadID).String(),
		AssistantID: data.Get(PathAssistantID).String(),
		Status:      models.RunStatus(data.Get(PathStatus).String()),
		LastError:   data.Get(PathLastError).String(),
	}
	if run.ID == "" {
		return nil, apierrors.NewParseError("run id missing", path)
	}
	if run.Status == "" {
		return nil, apierrors.NewParseError("run status missing", path)
	}
	return run, nil
}

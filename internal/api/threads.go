package api

import (
	"context"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/models"
)

type createMessageRequest struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// CreateThread opens a new, empty conversation
func (c *AssistantsClient) CreateThread(ctx context.Context) (*models.Thread, error) {
	result, err := c.do(ctx, http.MethodPost, models.PathThreads, struct{}{})
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	id := result.Get(PathID).String()
	if id == "" {
		return nil, apierrors.NewParseError("thread id missing", PathID)
	}

	return &models.Thread{
		ID:        id,
		CreatedAt: result.Get(PathCreatedAt).Int(),
	}, nil
}

// CreateMessage appends a message to a thread
func (c *AssistantsClient) CreateMessage(ctx context.Context, threadID string, role models.Role, content string) (*models.ThreadMessage, error) {
	if threadID == "" {
		return nil, apierrors.ErrNoThread
	}

	path := fmt.Sprintf(models.PathMessages, threadID)
	result, err := c.do(ctx, http.MethodPost, path, createMessageRequest{Role: role, Content: content})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	msg := parseThreadMessage(result)
	if msg.ID == "" {
		return nil, apierrors.NewParseError("message id missing", PathID)
	}
	return &msg, nil
}

// ListMessages returns the thread's messages, most recent first
func (c *AssistantsClient) ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error) {
	if threadID == "" {
		return nil, apierrors.ErrNoThread
	}

	// only the newest message is read
	path := fmt.Sprintf(models.PathMessages, threadID) + "?order=desc&limit=1"
	result, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	data := result.Get(PathData)
	if !data.IsArray() {
		return nil, apierrors.NewParseError("message list missing", PathData)
	}

	var messages []models.ThreadMessage
	data.ForEach(func(_, item gjson.Result) bool {
		messages = append(messages, parseThreadMessage(item))
		return true
	})
	return messages, nil
}

// parseThreadMessage extracts a ThreadMessage from a message object
func parseThreadMessage(data gjson.Result) models.ThreadMessage {
	msg := models.ThreadMessage{
		ID:       data.Get(PathID).String(),
		ThreadID: data.Get(PathThreadID).String(),
		Role:     models.Role(data.Get(PathRole).String()),
		RunID:    data.Get(PathRunID).String(),
	}
	for _, v := range data.Get(PathTextValues).Array() {
		msg.Texts = append(msg.Texts, v.String())
	}
	return msg
}

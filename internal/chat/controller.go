// Package chat implements the intake chat session: one remote thread, an
// append-only message log, and the send/run/poll/fetch cycle against the
// assistant service.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/intakechat/internal/api"
	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/models"
)

// Controller owns the conversation state and drives submission cycles.
//
// It does not serialize submissions: callers are expected to wait until
// IsLoading reports false before submitting again.
type Controller struct {
	service      api.AssistantService
	assistantID  string
	pollInterval time.Duration
	logger       zerolog.Logger
	newCycleID   func() string

	mu         sync.RWMutex
	threadID   string
	messages   []models.Message
	loading    bool
	clientInfo models.ClientInfo
}

// Option configures a Controller
type Option func(*Controller)

// WithAssistantID selects the hosted assistant used for runs
func WithAssistantID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.assistantID = id
		}
	}
}

// WithPollInterval sets the wait between run status checks
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller bound to the given service
func NewController(service api.AssistantService, opts ...Option) *Controller {
	c := &Controller{
		service:      service,
		assistantID:  models.DefaultAssistantID,
		pollInterval: models.DefaultPollInterval,
		logger:       zerolog.Nop(),
		newCycleID:   uuid.NewString,
		messages:     []models.Message{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize creates the remote thread and seeds the greeting. On failure the
// error is logged and returned, and the controller stays uninitialized; there
// is no retry. Calling it again after success does nothing.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.Ready() {
		return nil
	}

	thread, err := c.service.CreateThread(ctx)
	if err != nil {
		c.logger.Error().Err(err).Str("stage", "create_thread").Msg("error initializing chat")
		return err
	}

	c.mu.Lock()
	c.threadID = thread.ID
	c.messages = []models.Message{{Role: models.RoleAssistant, Content: models.Greeting}}
	c.mu.Unlock()

	c.logger.Info().Str("thread", thread.ID).Msg("chat initialized")
	return nil
}

// Submit sends text to the assistant and appends its reply. It is a no-op
// when no thread exists. The user's message is appended immediately; the
// reply is appended only if the whole cycle succeeds and the newest message
// on the thread is from the assistant. Failures are logged and returned; the
// log is left with the user's message only.
//
// The poll loop only ends when the run leaves in_progress or ctx is done.
func (c *Controller) Submit(ctx context.Context, text string) error {
	c.mu.Lock()
	threadID := c.threadID
	if threadID == "" {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.messages = append(c.messages, models.Message{Role: models.RoleUser, Content: text})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	log := c.logger.With().Str("cycle", c.newCycleID()).Str("thread", threadID).Logger()

	reply, ok, err := c.exchange(ctx, log, threadID, text)
	if err != nil {
		log.Error().Err(err).Msg("error processing message")
		return err
	}
	if !ok {
		log.Warn().Msg("latest message is not from the assistant, nothing appended")
		return nil
	}

	c.mu.Lock()
	c.messages = append(c.messages, models.Message{Role: models.RoleAssistant, Content: reply})
	c.mu.Unlock()

	log.Debug().Int("reply_len", len(reply)).Msg("reply appended")
	return nil
}

// exchange runs send -> run -> poll -> fetch and returns the newest
// assistant text. ok is false when the newest message is not the assistant's.
func (c *Controller) exchange(ctx context.Context, log zerolog.Logger, threadID, text string) (string, bool, error) {
	if _, err := c.service.CreateMessage(ctx, threadID, models.RoleUser, text); err != nil {
		return "", false, fmt.Errorf("send message: %w", err)
	}

	run, err := c.service.CreateRun(ctx, threadID, c.assistantID)
	if err != nil {
		return "", false, fmt.Errorf("start run: %w", err)
	}
	log.Debug().Str("run", run.ID).Msg("run started")

	status, err := c.service.RetrieveRun(ctx, threadID, run.ID)
	if err != nil {
		return "", false, fmt.Errorf("poll run: %w", err)
	}

	polls := 1
	for status.InProgress() {
		if err := c.wait(ctx); err != nil {
			return "", false, fmt.Errorf("poll run: %w", err)
		}
		status, err = c.service.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return "", false, fmt.Errorf("poll run: %w", err)
		}
		polls++
	}
	log.Debug().Str("run", run.ID).Str("status", string(status.Status)).Int("polls", polls).Msg("run left in_progress")

	messages, err := c.service.ListMessages(ctx, threadID)
	if err != nil {
		return "", false, fmt.Errorf("fetch messages: %w", err)
	}
	if len(messages) == 0 {
		return "", false, fmt.Errorf("fetch messages: %w", apierrors.ErrNoContent)
	}

	latest := messages[0]
	if latest.Role != models.RoleAssistant {
		return "", false, nil
	}
	if len(latest.Texts) == 0 {
		return "", false, fmt.Errorf("fetch messages: %w", apierrors.ErrNoContent)
	}
	return latest.Text(), true, nil
}

func (c *Controller) wait(ctx context.Context) error {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Messages returns a copy of the message log in display order
func (c *Controller) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ThreadID returns the remote thread id, or "" before initialization
func (c *Controller) ThreadID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threadID
}

// Ready reports whether a thread exists
func (c *Controller) Ready() bool {
	return c.ThreadID() != ""
}

// IsLoading reports whether a submission cycle is outstanding
func (c *Controller) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// ClientInfo returns the intake details collected so far (always empty for now)
func (c *Controller) ClientInfo() models.ClientInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientInfo
}

// LastReply returns the newest assistant message, if any
func (c *Controller) LastReply() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i].Content, true
		}
	}
	return "", false
}

// IsCanceled reports whether err stems from the caller giving up
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

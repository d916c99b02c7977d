package chat

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/diogo/intakechat/internal/api"
	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/logging"
	"github.com/diogo/intakechat/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func replyMessages(text string) []models.ThreadMessage {
	return []models.ThreadMessage{
		{ID: "msg_2", Role: models.RoleAssistant, Texts: []string{text}},
		{ID: "msg_1", Role: models.RoleUser, Texts: []string{"hello"}},
	}
}

func newReadyController(t *testing.T, svc *api.MockAssistantService, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithPollInterval(time.Millisecond)}, opts...)
	c := NewController(svc, opts...)
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

func TestInitialize(t *testing.T) {
	svc := &api.MockAssistantService{ThreadID: "thread_1"}
	c := NewController(svc)

	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, "thread_1", c.ThreadID())
	assert.True(t, c.Ready())
	assert.False(t, c.IsLoading())
	assert.Equal(t, []models.Message{{Role: models.RoleAssistant, Content: models.Greeting}}, c.Messages())
	assert.Equal(t, models.ClientInfo{}, c.ClientInfo())
}

func TestInitialize_Idempotent(t *testing.T) {
	svc := &api.MockAssistantService{ThreadID: "thread_1"}
	c := NewController(svc)

	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, 1, svc.CreateThreadCalls)
	assert.Len(t, c.Messages(), 1)
}

func TestInitialize_FailureLeavesSessionEmpty(t *testing.T) {
	var logBuf bytes.Buffer
	boom := errors.New("network down")
	svc := &api.MockAssistantService{CreateThreadErr: boom}
	c := NewController(svc, WithLogger(logging.New(&logBuf, "debug")))

	err := c.Initialize(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Ready())
	assert.Empty(t, c.Messages())
	assert.Contains(t, logBuf.String(), "error initializing chat")

	// submit is a no-op without a thread
	require.NoError(t, c.Submit(context.Background(), "hello"))
	assert.Empty(t, c.Messages())
	assert.Equal(t, 0, svc.CreateMessageCalls)
	assert.Equal(t, 0, svc.CreateRunCalls)
}

func TestSubmit_Success(t *testing.T) {
	svc := &api.MockAssistantService{
		ThreadID: "thread_1",
		RunID:    "run_1",
		Statuses: []models.RunStatus{models.RunInProgress, models.RunInProgress, models.RunCompleted},
		Messages: replyMessages("Thanks, Jane! What's your email?"),
	}
	c := newReadyController(t, svc, WithAssistantID("asst_test"))

	require.NoError(t, c.Submit(context.Background(), "Jane Doe"))

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "Jane Doe"}, msgs[1])
	assert.Equal(t, models.Message{Role: models.RoleAssistant, Content: "Thanks, Jane! What's your email?"}, msgs[2])
	assert.False(t, c.IsLoading())

	assert.Equal(t, "Jane Doe", svc.LastContent)
	assert.Equal(t, "asst_test", svc.LastAssistantID)
	assert.Equal(t, 3, svc.RetrieveRunCalls)
	assert.Equal(t, 1, svc.ListMessagesCalls)

	reply, ok := c.LastReply()
	assert.True(t, ok)
	assert.Equal(t, "Thanks, Jane! What's your email?", reply)
}

func TestSubmit_OnlyInProgressKeepsPolling(t *testing.T) {
	tests := []struct {
		name      string
		status    models.RunStatus
		wantPolls int
	}{
		{name: "queued exits immediately", status: models.RunQueued, wantPolls: 1},
		{name: "requires_action exits immediately", status: models.RunRequiresAction, wantPolls: 1},
		{name: "failed exits immediately", status: models.RunFailed, wantPolls: 1},
		{name: "completed exits immediately", status: models.RunCompleted, wantPolls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &api.MockAssistantService{
				ThreadID: "thread_1",
				Statuses: []models.RunStatus{tt.status},
				Messages: replyMessages("stale or fresh"),
			}
			c := newReadyController(t, svc)

			require.NoError(t, c.Submit(context.Background(), "hi"))
			assert.Equal(t, tt.wantPolls, svc.RetrieveRunCalls)
			assert.Equal(t, 1, svc.ListMessagesCalls)
			assert.Len(t, c.Messages(), 3)
		})
	}
}

func TestSubmit_LatestNotAssistant(t *testing.T) {
	svc := &api.MockAssistantService{
		ThreadID: "thread_1",
		Messages: []models.ThreadMessage{{Role: models.RoleUser, Texts: []string{"hi"}}},
	}
	c := newReadyController(t, svc)

	require.NoError(t, c.Submit(context.Background(), "hi"))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.False(t, c.IsLoading())
}

func TestSubmit_Failures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		svc     *api.MockAssistantService
		wantErr error
	}{
		{
			name:    "send message",
			svc:     &api.MockAssistantService{ThreadID: "thread_1", CreateMessageErr: boom},
			wantErr: boom,
		},
		{
			name:    "start run",
			svc:     &api.MockAssistantService{ThreadID: "thread_1", CreateRunErr: boom},
			wantErr: boom,
		},
		{
			name:    "poll run",
			svc:     &api.MockAssistantService{ThreadID: "thread_1", RetrieveRunErr: boom},
			wantErr: boom,
		},
		{
			name:    "list messages",
			svc:     &api.MockAssistantService{ThreadID: "thread_1", ListMessagesErr: boom},
			wantErr: boom,
		},
		{
			name:    "empty message list",
			svc:     &api.MockAssistantService{ThreadID: "thread_1"},
			wantErr: apierrors.ErrNoContent,
		},
		{
			name: "assistant message without text",
			svc: &api.MockAssistantService{
				ThreadID: "thread_1",
				Messages: []models.ThreadMessage{{Role: models.RoleAssistant}},
			},
			wantErr: apierrors.ErrNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			c := newReadyController(t, tt.svc, WithLogger(logging.New(&logBuf, "debug")))

			err := c.Submit(context.Background(), "hello")
			assert.ErrorIs(t, err, tt.wantErr)

			msgs := c.Messages()
			require.Len(t, msgs, 2, "only greeting and user message")
			assert.Equal(t, models.RoleUser, msgs[1].Role)
			assert.False(t, c.IsLoading())
			assert.Contains(t, logBuf.String(), "error processing message")
			assert.Contains(t, logBuf.String(), `"cycle"`)
		})
	}
}

func TestSubmit_LoadingWhileOutstanding(t *testing.T) {
	svc := &api.MockAssistantService{
		ThreadID: "thread_1",
		Statuses: []models.RunStatus{models.RunInProgress},
	}
	c := newReadyController(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Submit(ctx, "hello") }()

	assert.Eventually(t, c.IsLoading, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return svc.RetrieveRunCount() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, c.IsLoading())

	cancel()
	err := <-done
	assert.True(t, IsCanceled(err))
	assert.False(t, c.IsLoading())
	assert.Len(t, c.Messages(), 2)
}

// A run stuck in in_progress keeps the loop alive until the caller gives up.
func TestSubmit_StuckRunPollsUntilContextEnds(t *testing.T) {
	svc := &api.MockAssistantService{
		ThreadID: "thread_1",
		Statuses: []models.RunStatus{models.RunInProgress},
		Messages: replyMessages("never fetched"),
	}
	c := newReadyController(t, svc)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Submit(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, svc.RetrieveRunCount(), 5)
	assert.Equal(t, 0, svc.ListMessagesCalls)
	assert.Len(t, c.Messages(), 2)
}

func TestSubmit_NotSerialized(t *testing.T) {
	svc := &api.MockAssistantService{
		ThreadID: "thread_1",
		Messages: replyMessages("ok"),
	}
	c := newReadyController(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Submit(context.Background(), "hi")
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, svc.CreateMessageCalls)
	assert.Len(t, c.Messages(), 5)
}

func TestMessagesReturnsCopy(t *testing.T) {
	c := newReadyController(t, &api.MockAssistantService{ThreadID: "thread_1"})

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, models.Greeting, c.Messages()[0].Content)
}

func TestLastReply_None(t *testing.T) {
	c := NewController(&api.MockAssistantService{})
	_, ok := c.LastReply()
	assert.False(t, ok)
}

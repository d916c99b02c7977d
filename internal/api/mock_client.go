package api

import (
	"context"
	"sync"

	"github.com/diogo/intakechat/internal/models"
)

// MockAssistantService is a scripted AssistantService for testing
type MockAssistantService struct {
	mu sync.Mutex

	// Mock return values
	ThreadID         string
	CreateThreadErr  error
	CreateMessageErr error
	RunID            string
	CreateRunErr     error
	// Statuses are returned by successive RetrieveRun calls; the last one
	// repeats forever.
	Statuses        []models.RunStatus
	RetrieveRunErr  error
	Messages        []models.ThreadMessage
	ListMessagesErr error

	// Call counters/recorders
	CreateThreadCalls  int
	CreateMessageCalls int
	CreateRunCalls     int
	RetrieveRunCalls   int
	ListMessagesCalls  int
	LastContent        string
	LastAssistantID    string
}

// Ensure MockAssistantService implements AssistantService
var _ AssistantService = (*MockAssistantService)(nil)

func (m *MockAssistantService) CreateThread(ctx context.Context) (*models.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateThreadCalls++
	if m.CreateThreadErr != nil {
		return nil, m.CreateThreadErr
	}
	return &models.Thread{ID: m.ThreadID}, nil
}

func (m *MockAssistantService) CreateMessage(ctx context.Context, threadID string, role models.Role, content string) (*models.ThreadMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMessageCalls++
	m.LastContent = content
	if m.CreateMessageErr != nil {
		return nil, m.CreateMessageErr
	}
	return &models.ThreadMessage{ID: "msg_user", ThreadID: threadID, Role: role, Texts: []string{content}}, nil
}

func (m *MockAssistantService) CreateRun(ctx context.Context, threadID, assistantID string) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateRunCalls++
	m.LastAssistantID = assistantID
	if m.CreateRunErr != nil {
		return nil, m.CreateRunErr
	}
	return &models.Run{ID: m.RunID, ThreadID: threadID, AssistantID: assistantID, Status: models.RunQueued}, nil
}

func (m *MockAssistantService) RetrieveRun(ctx context.Context, threadID, runID string) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetrieveRunCalls++
	if m.RetrieveRunErr != nil {
		return nil, m.RetrieveRunErr
	}
	status := models.RunCompleted
	if n := len(m.Statuses); n > 0 {
		idx := m.RetrieveRunCalls - 1
		if idx >= n {
			idx = n - 1
		}
		status = m.Statuses[idx]
	}
	return &models.Run{ID: runID, ThreadID: threadID, Status: status}, nil
}

func (m *MockAssistantService) ListMessages(ctx context.Context, threadID string) ([]models.ThreadMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListMessagesCalls++
	if m.ListMessagesErr != nil {
		return nil, m.ListMessagesErr
	}
	out := make([]models.ThreadMessage, len(m.Messages))
	copy(out, m.Messages)
	return out, nil
}

// RetrieveRunCount returns RetrieveRunCalls under the lock, for use while a
// poll loop is still running.
func (m *MockAssistantService) RetrieveRunCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RetrieveRunCalls
}

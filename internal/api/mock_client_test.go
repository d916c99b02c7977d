package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/intakechat/internal/models"
)

func TestMockAssistantService_StatusScript(t *testing.T) {
	m := &MockAssistantService{
		RunID:    "run_1",
		Statuses: []models.RunStatus{models.RunInProgress, models.RunCompleted},
	}
	ctx := context.Background()

	first, err := m.RetrieveRun(ctx, "t", "run_1")
	require.NoError(t, err)
	assert.Equal(t, models.RunInProgress, first.Status)

	for i := 0; i < 3; i++ {
		next, err := m.RetrieveRun(ctx, "t", "run_1")
		require.NoError(t, err)
		assert.Equal(t, models.RunCompleted, next.Status)
	}
	assert.Equal(t, 4, m.RetrieveRunCount())
}

func TestMockAssistantService_Errors(t *testing.T) {
	boom := errors.New("boom")
	m := &MockAssistantService{CreateThreadErr: boom, ListMessagesErr: boom}

	_, err := m.CreateThread(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = m.ListMessages(context.Background(), "t")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.CreateThreadCalls)
	assert.Equal(t, 1, m.ListMessagesCalls)
}

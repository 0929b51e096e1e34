package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/store"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	service := NewHistoryService(st)

	require.NoError(t, st.SaveConversation(ctx, store.Conversation{
		ID: "conv-1", Query: "What is Go?", TotalTokens: 420, TotalCost: 0.0042,
	}))
	time.Sleep(2 * time.Millisecond) // distinct created_at stamps
	require.NoError(t, st.SaveConversation(ctx, store.Conversation{
		ID: "conv-2", Query: "What is a monad?",
	}))

	t.Run("lists newest first", func(t *testing.T) {
		conversations, err := service.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, conversations, 2)
		assert.Equal(t, "conv-2", conversations[0].ID)
		assert.Equal(t, "conv-1", conversations[1].ID)
	})

	t.Run("honors the limit", func(t *testing.T) {
		conversations, err := service.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, conversations, 1)
	})

	t.Run("delete removes the conversation and its records", func(t *testing.T) {
		_, err := st.LogExecution(ctx, store.ExecutionLog{
			ConversationID: "conv-1", Stage: "stage1_response", NodeID: "node-1",
		})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, "conv-1"))

		conversations, err := service.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, conversations, 1)
		assert.Equal(t, "conv-2", conversations[0].ID)

		logs, err := st.ExecutionLogs(ctx, "conv-1", 0)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("delete validates the id", func(t *testing.T) {
		err := service.Delete(ctx, "")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

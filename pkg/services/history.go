package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curia-dev/curia/pkg/store"
)

// HistoryService serves past conversations.
type HistoryService struct {
	store *store.Store
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(st *store.Store) *HistoryService {
	return &HistoryService{store: st}
}

// List returns recent conversations, newest first. A non-positive limit
// falls back to the store default of 50.
func (s *HistoryService) List(ctx context.Context, limit int) ([]store.Conversation, error) {
	conversations, err := s.store.Conversations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// Delete removes a conversation together with its execution logs and
// decision tree. Unknown ids succeed quietly.
func (s *HistoryService) Delete(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return NewValidationError("conversation_id", "required")
	}
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	slog.Info("Deleted conversation", "conversation_id", conversationID)
	return nil
}

package services

import (
	"context"
	"fmt"

	"github.com/curia-dev/curia/pkg/store"
)

// LogService serves execution logs and decision trees recorded during
// council runs.
type LogService struct {
	store *store.Store
}

// NewLogService creates a new LogService
func NewLogService(st *store.Store) *LogService {
	return &LogService{store: st}
}

// Logs returns a conversation's execution logs in execution order. A round
// of zero or less returns all rounds.
func (s *LogService) Logs(ctx context.Context, conversationID string, round int) ([]store.ExecutionLog, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	logs, err := s.store.ExecutionLogs(ctx, conversationID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution logs: %w", err)
	}
	return logs, nil
}

// Rounds returns the distinct round numbers recorded for a conversation.
func (s *LogService) Rounds(ctx context.Context, conversationID string) ([]int, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	rounds, err := s.store.Rounds(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// DecisionTree returns a conversation's decision entries in recorded order.
// A round of zero or less returns all rounds.
func (s *LogService) DecisionTree(ctx context.Context, conversationID string, round int) ([]store.Decision, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	decisions, err := s.store.Decisions(ctx, conversationID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	return decisions, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// defaultConversationLimit bounds history listings when no limit is given.
const defaultConversationLimit = 50

// Conversation is one completed council execution.
type Conversation struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Title       string          `json:"title,omitempty"`
	Config      json.RawMessage `json:"config"`
	Responses   json.RawMessage `json:"responses"`
	FinalAnswer json.RawMessage `json:"final_answer"`
	TotalTokens int             `json:"total_tokens"`
	TotalCost   float64         `json:"total_cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

// rawOrEmptyObject keeps JSON payload columns decodable: absent payloads
// are stored and served as empty objects.
func rawOrEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}

// SaveConversation inserts a completed conversation.
func (s *Store) SaveConversation(ctx context.Context, conv Conversation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, query, title, config, responses, final_answer, total_tokens, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conv.ID,
		conv.Query,
		conv.Title,
		string(rawOrEmptyObject(conv.Config)),
		string(rawOrEmptyObject(conv.Responses)),
		string(rawOrEmptyObject(conv.FinalAnswer)),
		conv.TotalTokens,
		conv.TotalCost,
		now())
	if err != nil {
		return fmt.Errorf("saving conversation %q: %w", conv.ID, err)
	}
	return nil
}

// Conversations returns recent conversations, newest first. A limit of
// zero or less applies the default of 50.
func (s *Store) Conversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, title, config, responses, final_answer, total_tokens, total_cost, created_at
		FROM conversations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		var cfg, responses, finalAnswer, createdAt string
		if err := rows.Scan(&c.ID, &c.Query, &c.Title, &cfg, &responses, &finalAnswer,
			&c.TotalTokens, &c.TotalCost, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		c.Config = rawOrEmptyObject(json.RawMessage(cfg))
		c.Responses = rawOrEmptyObject(json.RawMessage(responses))
		c.FinalAnswer = rawOrEmptyObject(json.RawMessage(finalAnswer))
		c.CreatedAt = parseTime(createdAt)
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// DeleteConversation removes a conversation together with its execution
// logs and decision tree.
func (s *Store) DeleteConversation(ctx context.Context, convID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting conversation %q: %w", convID, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM execution_logs WHERE conversation_id = ?`,
		`DELETE FROM decision_tree WHERE conversation_id = ?`,
		`DELETE FROM conversations WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, convID); err != nil {
			return fmt.Errorf("deleting conversation %q: %w", convID, err)
		}
	}
	return tx.Commit()
}

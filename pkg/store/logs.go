package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ExecutionLog is one logged model interaction within a conversation.
type ExecutionLog struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	RoundNumber    int       `json:"round_number"`
	Stage          string    `json:"stage"`
	NodeID         string    `json:"node_id"`
	NodeName       string    `json:"node_name"`
	Model          string    `json:"model"`
	Role           string    `json:"role"`
	InputContent   string    `json:"input_content"`
	OutputContent  string    `json:"output_content"`
	TokensUsed     int       `json:"tokens_used"`
	Cost           float64   `json:"cost"`
	DurationMS     int64     `json:"duration_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

// Decision is one node of the recorded decision tree.
type Decision struct {
	ID             int64           `json:"id"`
	ConversationID string          `json:"conversation_id"`
	RoundNumber    int             `json:"round_number"`
	ParentNodeID   string          `json:"parent_node_id"`
	NodeID         string          `json:"node_id"`
	DecisionType   string          `json:"decision_type"`
	DecisionData   json.RawMessage `json:"decision_data"`
	Timestamp      time.Time       `json:"timestamp"`
}

func defaultRound(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// LogExecution appends an execution log row and returns its id.
func (s *Store) LogExecution(ctx context.Context, entry ExecutionLog) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_logs
		(conversation_id, round_number, stage, node_id, node_name, model, role,
		 input_content, output_content, tokens_used, cost, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ConversationID,
		defaultRound(entry.RoundNumber),
		entry.Stage,
		entry.NodeID,
		entry.NodeName,
		entry.Model,
		entry.Role,
		entry.InputContent,
		entry.OutputContent,
		entry.TokensUsed,
		entry.Cost,
		entry.DurationMS,
		now())
	if err != nil {
		return 0, fmt.Errorf("logging execution step: %w", err)
	}
	return res.LastInsertId()
}

const executionLogColumns = `id, conversation_id, round_number, stage, node_id, node_name, model, role,
	input_content, output_content, tokens_used, cost, duration_ms, timestamp`

// ExecutionLogs returns a conversation's logs in execution order. A round
// of zero or less returns all rounds.
func (s *Store) ExecutionLogs(ctx context.Context, conversationID string, round int) ([]ExecutionLog, error) {
	query := `SELECT ` + executionLogColumns + `
		FROM execution_logs
		WHERE conversation_id = ?
		ORDER BY round_number ASC, timestamp ASC, id ASC`
	args := []any{conversationID}
	if round > 0 {
		query = `SELECT ` + executionLogColumns + `
		FROM execution_logs
		WHERE conversation_id = ? AND round_number = ?
		ORDER BY timestamp ASC, id ASC`
		args = append(args, round)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing execution logs: %w", err)
	}
	defer rows.Close()

	var logs []ExecutionLog
	for rows.Next() {
		var e ExecutionLog
		var ts string
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.RoundNumber, &e.Stage,
			&e.NodeID, &e.NodeName, &e.Model, &e.Role,
			&e.InputContent, &e.OutputContent, &e.TokensUsed, &e.Cost,
			&e.DurationMS, &ts); err != nil {
			return nil, fmt.Errorf("scanning execution log: %w", err)
		}
		e.Timestamp = parseTime(ts)
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

// Rounds returns the distinct round numbers recorded for a conversation.
func (s *Store) Rounds(ctx context.Context, conversationID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT round_number FROM execution_logs
		WHERE conversation_id = ?
		ORDER BY round_number ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	defer rows.Close()

	var rounds []int
	for rows.Next() {
		var round int
		if err := rows.Scan(&round); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// LogDecision appends a decision tree node and returns its id.
func (s *Store) LogDecision(ctx context.Context, d Decision) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO decision_tree
		(conversation_id, round_number, parent_node_id, node_id, decision_type, decision_data, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ConversationID,
		defaultRound(d.RoundNumber),
		d.ParentNodeID,
		d.NodeID,
		d.DecisionType,
		string(rawOrEmptyObject(d.DecisionData)),
		now())
	if err != nil {
		return 0, fmt.Errorf("logging decision: %w", err)
	}
	return res.LastInsertId()
}

// Decisions returns a conversation's decision tree in recorded order. A
// round of zero or less returns all rounds.
func (s *Store) Decisions(ctx context.Context, conversationID string, round int) ([]Decision, error) {
	query := `
		SELECT id, conversation_id, round_number, parent_node_id, node_id, decision_type, decision_data, timestamp
		FROM decision_tree
		WHERE conversation_id = ?
		ORDER BY round_number ASC, timestamp ASC, id ASC`
	args := []any{conversationID}
	if round > 0 {
		query = `
		SELECT id, conversation_id, round_number, parent_node_id, node_id, decision_type, decision_data, timestamp
		FROM decision_tree
		WHERE conversation_id = ? AND round_number = ?
		ORDER BY timestamp ASC, id ASC`
		args = append(args, round)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		var data, ts string
		if err := rows.Scan(&d.ID, &d.ConversationID, &d.RoundNumber, &d.ParentNodeID,
			&d.NodeID, &d.DecisionType, &data, &ts); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		d.DecisionData = rawOrEmptyObject(json.RawMessage(data))
		d.Timestamp = parseTime(ts)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

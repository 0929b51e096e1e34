package events

// Frame holds the envelope fields shared by every server frame.
type Frame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
}

// StageUpdateFrame announces entry into a numbered execution stage.
type StageUpdateFrame struct {
	Frame
	Stage int `json:"stage"`
}

// NodeStateFrame reports one node's execution state transition.
type NodeStateFrame struct {
	Frame
	NodeID string `json:"nodeId"`
	State  State  `json:"state"`
}

// ResponseFrame delivers one node's individual answer.
type ResponseFrame struct {
	Frame
	NodeID  string  `json:"nodeId"`
	Content string  `json:"content"`
	Tokens  int     `json:"tokens"`
	Cost    float64 `json:"cost"`
}

// RankingFrame delivers one evaluator's parsed ranking together with a
// bounded slice of the reasoning it was parsed from.
type RankingFrame struct {
	Frame
	NodeID    string   `json:"nodeId"`
	Rankings  []string `json:"rankings"`
	Reasoning string   `json:"reasoning"`
}

// FinalAnswerFrame delivers the chairman synthesis.
type FinalAnswerFrame struct {
	Frame
	Content string  `json:"content"`
	Tokens  int     `json:"tokens"`
	Cost    float64 `json:"cost"`
}

// ErrorFrame reports a node-level failure, or an execution-level one when
// NodeID is empty.
type ErrorFrame struct {
	Frame
	NodeID string `json:"nodeId,omitempty"`
	Error  string `json:"error"`
}

// CompleteFrame closes an execution with its totals.
type CompleteFrame struct {
	Frame
	TotalTokens int     `json:"totalTokens"`
	TotalCost   float64 `json:"totalCost"`
}

// PongFrame answers a client ping.
type PongFrame struct {
	Type string `json:"type"` // always TypePong
}

// RejectionFrame refuses an execute request before any orchestration
// runs. Type carries the limiter's denial kind.
type RejectionFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

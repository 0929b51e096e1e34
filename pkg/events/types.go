// Package events defines the typed JSON frames streamed to clients while
// a council executes, plus the inbound client message format.
//
// Frame ordering contract, within one execution:
//
//   - stage_update(k) precedes every per-node frame of stage k
//   - all frames for a node at stage k precede its frames at stage k+1
//   - complete is the final frame
//
// Every server frame embeds Frame, which guarantees the conversation id
// is present — clients correlate frames by it when a socket is reused
// across executions.
package events

import "encoding/json"

// Server frame types.
const (
	TypeStageUpdate = "stage_update"
	TypeNodeState   = "node_state"
	TypeResponse    = "response"
	TypeRanking     = "ranking"
	TypeFinalAnswer = "final_answer"
	TypeError       = "error"
	TypeComplete    = "complete"
	TypePong        = "pong"
)

// TypeInjectionDetected rejects an execute whose query tripped the safety
// filter; carried in a RejectionFrame before any orchestration runs.
const TypeInjectionDetected = "injection_detected"

// Client → server message types.
const (
	MessageExecute = "execute"
	MessagePing    = "ping"
)

// Stage numbers as streamed in stage_update frames.
const (
	StageResponses = 1
	StageRankings  = 2
	StageSynthesis = 3
)

// State is a node's execution state as carried by node_state frames.
type State string

const (
	StateIdle     State = "idle"
	StateActive   State = "active"
	StateComplete State = "complete"
	StateError    State = "error"
)

// ClientMessage is the JSON structure for client → server WebSocket
// messages. Query and Config are only meaningful for "execute".
type ClientMessage struct {
	Type   string          `json:"type"`
	Query  string          `json:"query,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

package orchestrator

import (
	"context"

	"github.com/curia-dev/curia/pkg/events"
)

// EventSink receives the typed frames of one execution in emission order.
// The orchestrator calls it from a single goroutine per run; frame order
// is the stream contract clients rely on.
type EventSink interface {
	PublishStageUpdate(ctx context.Context, frame events.StageUpdateFrame) error
	PublishNodeState(ctx context.Context, frame events.NodeStateFrame) error
	PublishResponse(ctx context.Context, frame events.ResponseFrame) error
	PublishRanking(ctx context.Context, frame events.RankingFrame) error
	PublishFinalAnswer(ctx context.Context, frame events.FinalAnswerFrame) error
	PublishError(ctx context.Context, frame events.ErrorFrame) error
	PublishComplete(ctx context.Context, frame events.CompleteFrame) error
}

// NopSink discards all frames. Used for headless runs with no client
// streaming.
type NopSink struct{}

func (NopSink) PublishStageUpdate(context.Context, events.StageUpdateFrame) error { return nil }
func (NopSink) PublishNodeState(context.Context, events.NodeStateFrame) error     { return nil }
func (NopSink) PublishResponse(context.Context, events.ResponseFrame) error       { return nil }
func (NopSink) PublishRanking(context.Context, events.RankingFrame) error         { return nil }
func (NopSink) PublishFinalAnswer(context.Context, events.FinalAnswerFrame) error { return nil }
func (NopSink) PublishError(context.Context, events.ErrorFrame) error             { return nil }
func (NopSink) PublishComplete(context.Context, events.CompleteFrame) error       { return nil }

package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/curia-dev/curia/pkg/cache"
	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/council"
	"github.com/curia-dev/curia/pkg/events"
	"github.com/curia-dev/curia/pkg/llm"
	"github.com/curia-dev/curia/pkg/store"
)

// Execution log stage names, as recorded in the store.
const (
	logStage1Response   = "stage1_response"
	logStage1Error      = "stage1_error"
	logStage2Evaluation = "stage2_evaluation"
	logStage2Error      = "stage2_error"
	logStage3Synthesis  = "stage3_synthesis"
	logStage3Error      = "stage3_error"
)

// Decision tree node types.
const (
	decisionStart      = "start_execution"
	decisionStageStart = "stage_start"
	decisionResponse   = "response_generated"
	decisionRanking    = "ranking_provided"
	decisionSynthesis  = "final_synthesis"
	decisionComplete   = "execution_complete"
)

// logClip bounds prompt text copied into Stage 2 log rows and streamed
// reasoning excerpts; synthesisClip bounds the chairman's logged input.
const (
	logClip       = 500
	synthesisClip = 1000
)

// execution carries one run's mutable state. An execution lives on a
// single goroutine; nothing here needs locking.
type execution struct {
	o         *Orchestrator
	id        string
	round     int
	query     string
	skipCache bool
	plan      *council.Plan

	totalTokens int
	totalCost   float64

	sink EventSink

	responses   map[string]*council.Response
	order       []string
	rankings    []council.Ranking
	labelToNode map[string]string
	aggregate   []council.AggregateRank
	synthesis   *council.Response

	parent string
}

func (o *Orchestrator) newExecution(query string, opts Options) *execution {
	id := opts.ConversationID
	if id == "" {
		id = uuid.NewString()
	}
	round := opts.Round
	if round <= 0 {
		round = 1
	}
	sink := opts.Events
	if sink == nil {
		sink = o.events
	}
	return &execution{
		o:         o,
		id:        id,
		round:     round,
		query:     query,
		skipCache: opts.SkipCache,
		sink:      sink,
		responses: make(map[string]*council.Response),
	}
}

func (e *execution) redact(text string) string {
	return e.o.redactor.Redact(text, 0)
}

// nodeModel fills a node's model with the configured default.
func (e *execution) nodeModel(n *council.Node) string {
	if n.Model == "" {
		return e.o.cfg.Defaults.ChairmanModel
	}
	return n.Model
}

func (e *execution) chairmanModel() string {
	return e.nodeModel(e.plan.Chairman)
}

// nodeRole fills a node's role with the responder default.
func nodeRole(n *council.Node) string {
	if n.Role == "" {
		return "responder"
	}
	return n.Role
}

// modelsFor resolves the models a stage would call for the given nodes.
func (e *execution) modelsFor(ids []string) []string {
	models := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := e.plan.Participant(id); n != nil {
			models = append(models, e.nodeModel(n))
		}
	}
	return models
}

// temperatureFor resolves sampling temperature: the pattern's when set,
// else the node's, else the configured default.
func (e *execution) temperatureFor(n *council.Node, pattern *config.PatternConfig) float64 {
	if pattern.Temperature > 0 {
		return pattern.Temperature
	}
	return n.TemperatureOr(e.o.defaultTemp())
}

func (o *Orchestrator) defaultTemp() float64 {
	if o.cfg.Defaults != nil && o.cfg.Defaults.Temperature != nil {
		return *o.cfg.Defaults.Temperature
	}
	return defaultTemperature
}

// budgetDenied gates a stage on its estimated cost.
func (e *execution) budgetDenied(models []string) (string, bool) {
	estimate := e.o.accountant.Estimate(models, 0)
	if e.o.accountant.CanProceed(estimate) {
		return "", false
	}
	slog.Error("Budget exceeded", "estimated_cost", estimate, "conversation_id", e.id)
	return fmt.Sprintf("Budget limit exceeded. Remaining: $%.2f", e.o.accountant.Remaining()), true
}

// dispatch runs one model call through the response cache, then the
// resilience layer. Cached results are free and flagged fromCache.
func (e *execution) dispatch(ctx context.Context, model string, messages []llm.Message, temperature *float64) (result *llm.CallResult, fromCache bool, err error) {
	var cached llm.CallResult
	if e.o.responses.Get(ctx, model, messages, &cached) {
		return &cached, true, nil
	}

	result, err = e.o.resilience.CallWithRetry(ctx, llm.CallRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return nil, false, err
	}
	if e.o.resilience.Validate(result) {
		e.o.responses.Set(ctx, model, messages, result)
	}
	return result, false, nil
}

// record charges the accountant for a fresh call and accumulates run
// totals. Cached calls add tokens but no cost.
func (e *execution) record(model string, result *llm.CallResult, fromCache bool, elapsed time.Duration) (tokens int, cost float64) {
	tokens = result.Usage.TotalTokens
	if !fromCache {
		info := e.o.accountant.Record(model, result.Usage, elapsed.Seconds())
		cost = info.TotalCost
	}
	e.totalTokens += tokens
	e.totalCost += cost
	return tokens, cost
}

// stage1List returns the valid Stage 1 responses in execution order.
func (e *execution) stage1List() []council.Response {
	list := make([]council.Response, 0, len(e.order))
	for _, id := range e.order {
		list = append(list, *e.responses[id])
	}
	return list
}

// labelToModel maps anonymous labels to the models behind them.
func (e *execution) labelToModel() map[string]string {
	m := make(map[string]string, len(e.labelToNode))
	for label, nodeID := range e.labelToNode {
		if r := e.responses[nodeID]; r != nil {
			m[label] = r.Model
		}
	}
	return m
}

// finish assembles completion metadata, persists the conversation when
// the run produced anything, memoizes fully successful bundles, and
// closes the stream with a complete frame.
func (e *execution) finish(ctx context.Context, errKind string) *Result {
	metadata := map[string]any{
		"label_to_model":     e.labelToModel(),
		"aggregate_rankings": e.aggregate,
		"cost":               round4(e.totalCost),
		"cache_hit":          false,
		"models_used":        len(e.order),
		"budget_remaining":   e.o.accountant.Remaining(),
		"cache_stats":        e.o.responses.Stats(),
	}
	if errKind != "" {
		metadata["error"] = errKind
	}

	e.logDecision(ctx, "complete", decisionComplete, map[string]any{
		"total_tokens":    e.totalTokens,
		"total_cost":      e.totalCost,
		"responses_count": len(e.order),
	})

	result := &Result{
		ConversationID: e.id,
		Stage1:         e.stage1List(),
		Stage2:         e.rankings,
		Stage3:         e.synthesis,
		Aggregate:      e.aggregate,
		Metadata:       metadata,
		TotalTokens:    e.totalTokens,
		TotalCost:      e.totalCost,
		ErrorKind:      errKind,
	}

	if len(e.order) > 0 {
		result.Title = e.saveConversation(ctx)
	}

	if errKind == "" && !e.skipCache {
		e.o.queries.Set(ctx, e.query, cache.CouncilResult{
			Stage1:   result.Stage1,
			Stage2:   result.Stage2,
			Stage3:   result.Stage3,
			Metadata: metadata,
		})
	}

	e.emitComplete(ctx)
	return result
}

// saveConversation writes the history row under a generated title and
// returns the title. Headless runs without a store skip the title call.
func (e *execution) saveConversation(ctx context.Context) string {
	if e.o.store == nil {
		return ""
	}
	title := e.generateTitle(ctx)

	configJSON, _ := json.Marshal(e.plan.Config)
	responsesJSON, _ := json.Marshal(e.responses)
	finalJSON := json.RawMessage(`{}`)
	if e.synthesis != nil {
		finalJSON, _ = json.Marshal(e.synthesis)
	}

	if err := e.o.store.SaveConversation(ctx, store.Conversation{
		ID:          e.id,
		Query:       e.query,
		Title:       title,
		Config:      configJSON,
		Responses:   responsesJSON,
		FinalAnswer: finalJSON,
		TotalTokens: e.totalTokens,
		TotalCost:   e.totalCost,
	}); err != nil {
		slog.Error("Failed to save conversation", "conversation_id", e.id, "error", err)
	}
	return title
}

// replay streams a cached bundle as synthesized frames without touching
// any model. The replayed run costs nothing.
func (e *execution) replay(ctx context.Context, cached *cache.CouncilResult) (*Result, error) {
	slog.Info("Replaying cached council result", "conversation_id", e.id)

	metadata := cached.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["cache_hit"] = true
	metadata["cost"] = 0.0

	e.emitStageUpdate(ctx, events.StageResponses)
	for i := range cached.Stage1 {
		r := &cached.Stage1[i]
		e.totalTokens += r.Tokens
		e.emitResponse(ctx, r.NodeID, r.Content, r.Tokens, r.Cost)
		e.emitNodeState(ctx, r.NodeID, events.StateComplete)
	}
	if len(cached.Stage2) > 0 {
		e.emitStageUpdate(ctx, events.StageRankings)
		for i := range cached.Stage2 {
			rk := &cached.Stage2[i]
			e.totalTokens += rk.Tokens
			e.emitRanking(ctx, rk.NodeID, rk.Labels, clip(rk.RawText, logClip))
			e.emitNodeState(ctx, rk.NodeID, events.StateComplete)
		}
	}
	if cached.Stage3 != nil {
		e.emitStageUpdate(ctx, events.StageSynthesis)
		e.totalTokens += cached.Stage3.Tokens
		e.emitFinalAnswer(ctx, cached.Stage3.Content, cached.Stage3.Tokens, cached.Stage3.Cost)
		e.emitNodeState(ctx, cached.Stage3.NodeID, events.StateComplete)
	}
	e.emitComplete(ctx)

	return &Result{
		ConversationID: e.id,
		Stage1:         cached.Stage1,
		Stage2:         cached.Stage2,
		Stage3:         cached.Stage3,
		Metadata:       metadata,
		TotalTokens:    e.totalTokens,
		TotalCost:      0,
	}, nil
}

// logStep appends one execution log row. Store failures are logged and
// swallowed; a lost log row must not kill the run.
func (e *execution) logStep(ctx context.Context, entry store.ExecutionLog) {
	if e.o.store == nil {
		return
	}
	entry.ConversationID = e.id
	entry.RoundNumber = e.round
	if _, err := e.o.store.LogExecution(ctx, entry); err != nil {
		slog.Error("Failed to log execution step",
			"stage", entry.Stage, "conversation_id", e.id, "error", err)
	}
}

// logDecision appends one decision tree node. Parent ids chain in
// emission order, whether or not a store is attached.
func (e *execution) logDecision(ctx context.Context, nodeID, decisionType string, data map[string]any) {
	defer func() { e.parent = nodeID }()
	if e.o.store == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte(`{}`)
	}
	if _, err := e.o.store.LogDecision(ctx, store.Decision{
		ConversationID: e.id,
		RoundNumber:    e.round,
		ParentNodeID:   e.parent,
		NodeID:         nodeID,
		DecisionType:   decisionType,
		DecisionData:   payload,
	}); err != nil {
		slog.Error("Failed to log decision",
			"node_id", nodeID, "conversation_id", e.id, "error", err)
	}
}

func (e *execution) frame(frameType string) events.Frame {
	return events.Frame{Type: frameType, ConversationID: e.id}
}

func (e *execution) emitStageUpdate(ctx context.Context, stage int) {
	e.dropOnError(events.TypeStageUpdate, e.sink.PublishStageUpdate(ctx, events.StageUpdateFrame{
		Frame: e.frame(events.TypeStageUpdate),
		Stage: stage,
	}))
}

func (e *execution) emitNodeState(ctx context.Context, nodeID string, state events.State) {
	e.dropOnError(events.TypeNodeState, e.sink.PublishNodeState(ctx, events.NodeStateFrame{
		Frame:  e.frame(events.TypeNodeState),
		NodeID: nodeID,
		State:  state,
	}))
}

func (e *execution) emitResponse(ctx context.Context, nodeID, content string, tokens int, cost float64) {
	e.dropOnError(events.TypeResponse, e.sink.PublishResponse(ctx, events.ResponseFrame{
		Frame:   e.frame(events.TypeResponse),
		NodeID:  nodeID,
		Content: content,
		Tokens:  tokens,
		Cost:    cost,
	}))
}

func (e *execution) emitRanking(ctx context.Context, nodeID string, rankings []string, reasoning string) {
	if rankings == nil {
		rankings = []string{}
	}
	e.dropOnError(events.TypeRanking, e.sink.PublishRanking(ctx, events.RankingFrame{
		Frame:     e.frame(events.TypeRanking),
		NodeID:    nodeID,
		Rankings:  rankings,
		Reasoning: reasoning,
	}))
}

func (e *execution) emitFinalAnswer(ctx context.Context, content string, tokens int, cost float64) {
	e.dropOnError(events.TypeFinalAnswer, e.sink.PublishFinalAnswer(ctx, events.FinalAnswerFrame{
		Frame:   e.frame(events.TypeFinalAnswer),
		Content: content,
		Tokens:  tokens,
		Cost:    cost,
	}))
}

func (e *execution) emitError(ctx context.Context, nodeID, message string) {
	e.dropOnError(events.TypeError, e.sink.PublishError(ctx, events.ErrorFrame{
		Frame:  e.frame(events.TypeError),
		NodeID: nodeID,
		Error:  message,
	}))
}

func (e *execution) emitComplete(ctx context.Context) {
	e.dropOnError(events.TypeComplete, e.sink.PublishComplete(ctx, events.CompleteFrame{
		Frame:       e.frame(events.TypeComplete),
		TotalTokens: e.totalTokens,
		TotalCost:   e.totalCost,
	}))
}

// dropOnError logs a failed frame write. The run continues; a dead
// socket surfaces as context cancellation instead.
func (e *execution) dropOnError(frameType string, err error) {
	if err != nil {
		slog.Warn("Dropping event frame",
			"type", frameType, "conversation_id", e.id, "error", err)
	}
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

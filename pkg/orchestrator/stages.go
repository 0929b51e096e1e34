package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/curia-dev/curia/pkg/council"
	"github.com/curia-dev/curia/pkg/events"
	"github.com/curia-dev/curia/pkg/llm"
	"github.com/curia-dev/curia/pkg/ranking"
	"github.com/curia-dev/curia/pkg/store"
)

// titleTimeout bounds the conversation-title call; it is a nicety, not
// part of the run.
const titleTimeout = 30 * time.Second

// fallbackTitle names conversations whose title call failed.
const fallbackTitle = "New Conversation"

// stage1Failure keeps what a fallback substitute needs to retry a node.
type stage1Failure struct {
	node        *council.Node
	role        string
	patternID   string
	messages    []llm.Message
	userMessage string
	temperature float64
}

// stage1 collects individual responses in plan order. Upstream context is
// assembled from incoming edges, which the topological order guarantees
// have already produced their responses. Failed nodes are retried on
// reserve models after the pass; only context cancellation aborts the
// stage.
func (e *execution) stage1(ctx context.Context) error {
	e.emitStageUpdate(ctx, events.StageResponses)
	e.logDecision(ctx, "stage1", decisionStageStart, map[string]any{
		"stage":        "individual_responses",
		"participants": len(e.plan.Order),
	})

	var failures []stage1Failure
	for _, nodeID := range e.plan.Order {
		node := e.plan.Participant(nodeID)
		model := e.nodeModel(node)
		role := nodeRole(node)
		pattern := e.o.cfg.PatternRegistry.GetOrStandard(node.Pattern)

		base := node.SystemPrompt
		if base == "" {
			base = e.o.rolePrompt(role)
		}
		system := pattern.ApplyToSystemPrompt(base)

		var upstream []upstreamEntry
		for _, srcID := range e.plan.Upstream(nodeID) {
			src := e.responses[srcID]
			if src == nil {
				continue
			}
			upstream = append(upstream, upstreamEntry{
				Display: e.plan.Participant(srcID).Display(),
				Content: src.Content,
			})
		}
		userMessage := pattern.ApplyToQuery(e.query) + upstreamContext(upstream)

		messages := []llm.Message{
			llm.SystemMessage(system),
			llm.UserMessage(userMessage),
		}
		temperature := e.temperatureFor(node, pattern)

		e.emitNodeState(ctx, nodeID, events.StateActive)

		start := time.Now()
		result, fromCache, err := e.dispatch(ctx, model, messages, &temperature)
		elapsed := time.Since(start)

		if err != nil || !e.o.resilience.Validate(result) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			reason := "Model failed to respond"
			if err != nil {
				reason = err.Error()
			}
			e.logStep(ctx, store.ExecutionLog{
				Stage:         logStage1Error,
				NodeID:        nodeID,
				NodeName:      node.Display(),
				Model:         model,
				Role:          role,
				InputContent:  e.redact(e.query),
				OutputContent: e.redact(reason),
				DurationMS:    elapsed.Milliseconds(),
			})
			e.emitNodeState(ctx, nodeID, events.StateError)
			e.emitError(ctx, nodeID, "Model failed to respond")
			failures = append(failures, stage1Failure{
				node:        node,
				role:        role,
				patternID:   pattern.ID,
				messages:    messages,
				userMessage: userMessage,
				temperature: temperature,
			})
			continue
		}

		e.acceptStage1Response(ctx, node, model, role, pattern.ID, userMessage, result, fromCache, elapsed)
	}

	return e.retryWithFallbacks(ctx, failures)
}

// acceptStage1Response records one validated Stage 1 answer: the response
// record, log row, decision entry, and frames.
func (e *execution) acceptStage1Response(ctx context.Context, node *council.Node, model, role, patternID, userMessage string, result *llm.CallResult, fromCache bool, elapsed time.Duration) {
	tokens, cost := e.record(model, result, fromCache, elapsed)
	e.responses[node.ID] = &council.Response{
		NodeID:           node.ID,
		Model:            model,
		Content:          result.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		Tokens:           tokens,
		Cost:             cost,
		DurationMS:       elapsed.Milliseconds(),
	}
	e.order = append(e.order, node.ID)

	e.logStep(ctx, store.ExecutionLog{
		Stage:         logStage1Response,
		NodeID:        node.ID,
		NodeName:      node.Display(),
		Model:         model,
		Role:          role,
		InputContent:  e.redact(userMessage),
		OutputContent: e.redact(result.Content),
		TokensUsed:    tokens,
		Cost:          cost,
		DurationMS:    elapsed.Milliseconds(),
	})
	e.logDecision(ctx, node.ID, decisionResponse, map[string]any{
		"model":   model,
		"role":    role,
		"pattern": patternID,
		"tokens":  tokens,
		"cost":    cost,
		"cached":  fromCache,
	})

	e.emitResponse(ctx, node.ID, result.Content, tokens, cost)
	e.emitNodeState(ctx, node.ID, events.StateComplete)
}

// retryWithFallbacks re-asks failed nodes on reserve models, stopping once
// the quorum is met or the reserve pool is exhausted. A substituted node
// keeps its identity and prompt; only the model changes.
func (e *execution) retryWithFallbacks(ctx context.Context, failures []stage1Failure) error {
	needed := e.o.resilience.Quorum() - len(e.order)
	if needed <= 0 || len(failures) == 0 {
		return nil
	}
	if needed > len(failures) {
		needed = len(failures)
	}

	used := make(map[string]bool, len(e.plan.Order))
	for _, id := range e.plan.Order {
		used[e.nodeModel(e.plan.Participant(id))] = true
	}
	candidates := e.o.resilience.FallbackCandidates(used, needed)
	if len(candidates) == 0 {
		return nil
	}
	slog.Warn("Substituting fallback models for failed council members",
		"failed", len(failures), "fallbacks", candidates, "conversation_id", e.id)

	for i, f := range failures {
		if i >= len(candidates) {
			break
		}
		model := candidates[i]
		e.emitNodeState(ctx, f.node.ID, events.StateActive)

		start := time.Now()
		result, fromCache, err := e.dispatch(ctx, model, f.messages, &f.temperature)
		elapsed := time.Since(start)

		if err != nil || !e.o.resilience.Validate(result) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Fallback model failed",
				"model", model, "node_id", f.node.ID, "conversation_id", e.id)
			e.emitNodeState(ctx, f.node.ID, events.StateError)
			continue
		}

		e.acceptStage1Response(ctx, f.node, model, f.role, f.patternID, f.userMessage, result, fromCache, elapsed)
	}
	return nil
}

// stage2 runs the peer-evaluation round over the anonymized Stage 1
// corpus. The same nodes that produced responses evaluate them; evaluator
// failures are logged and skipped. Evaluations are serialized so the
// frame stream interleaves deterministically.
func (e *execution) stage2(ctx context.Context, ranked []council.Response) error {
	e.emitStageUpdate(ctx, events.StageRankings)
	e.logDecision(ctx, "stage2", decisionStageStart, map[string]any{
		"stage":     "peer_evaluation",
		"responses": len(ranked),
	})

	e.labelToNode = make(map[string]string, len(ranked))
	labeled := make([]labeledResponse, len(ranked))
	for i, r := range ranked {
		label := responseLabel(i)
		e.labelToNode["Response "+label] = r.NodeID
		labeled[i] = labeledResponse{Label: label, Content: r.Content}
	}
	prompt := rankingPrompt(e.query, labeled)
	messages := []llm.Message{llm.UserMessage(prompt)}

	for _, r := range ranked {
		nodeID := r.NodeID
		node := e.plan.Participant(nodeID)
		// The model that actually answered evaluates, which matters for
		// nodes a fallback substitute answered for.
		model := r.Model

		e.emitNodeState(ctx, nodeID, events.StateActive)

		start := time.Now()
		result, fromCache, err := e.dispatch(ctx, model, messages, nil)
		elapsed := time.Since(start)

		if err != nil || result == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			reason := "Evaluator failed to respond"
			if err != nil {
				reason = err.Error()
			}
			e.logStep(ctx, store.ExecutionLog{
				Stage:         logStage2Error,
				NodeID:        nodeID,
				NodeName:      node.Display(),
				Model:         model,
				Role:          nodeRole(node),
				InputContent:  e.redact(clip(prompt, logClip)),
				OutputContent: e.redact(reason),
				DurationMS:    elapsed.Milliseconds(),
			})
			e.emitNodeState(ctx, nodeID, events.StateError)
			continue
		}

		tokens, cost := e.record(model, result, fromCache, elapsed)
		labels := ranking.Parse(result.Content)
		e.rankings = append(e.rankings, council.Ranking{
			NodeID:  nodeID,
			Model:   model,
			Labels:  labels,
			RawText: result.Content,
			Tokens:  tokens,
			Cost:    cost,
		})

		e.logStep(ctx, store.ExecutionLog{
			Stage:         logStage2Evaluation,
			NodeID:        nodeID,
			NodeName:      node.Display(),
			Model:         model,
			Role:          nodeRole(node),
			InputContent:  e.redact(clip(prompt, logClip)),
			OutputContent: e.redact(result.Content),
			TokensUsed:    tokens,
			Cost:          cost,
			DurationMS:    elapsed.Milliseconds(),
		})
		e.logDecision(ctx, nodeID+"_ranking", decisionRanking, map[string]any{
			"rankings":        labels,
			"response_labels": e.labelToNode,
		})

		e.emitRanking(ctx, nodeID, labels, clip(result.Content, logClip))
		e.emitNodeState(ctx, nodeID, events.StateComplete)
	}

	e.aggregate = ranking.Aggregate(e.rankings, e.labelToNode)
	return nil
}

// stage3 runs the chairman synthesis over the responses flowing into the
// chairman node, or over all of Stage 1 when no edges point at it. A
// failed synthesis is reported and the run still completes.
func (e *execution) stage3(ctx context.Context) error {
	chair := e.plan.Chairman
	model := e.chairmanModel()

	e.emitStageUpdate(ctx, events.StageSynthesis)
	e.logDecision(ctx, "stage3", decisionStageStart, map[string]any{
		"stage": "chairman_synthesis",
	})
	e.emitNodeState(ctx, chair.ID, events.StateActive)

	include := e.order
	if upstream := e.plan.Upstream(chair.ID); len(upstream) > 0 {
		include = include[:0:0]
		for _, id := range e.order {
			for _, src := range upstream {
				if id == src {
					include = append(include, id)
					break
				}
			}
		}
	}

	entries := make([]synthesisEntry, 0, len(include))
	for _, id := range include {
		r := e.responses[id]
		entries = append(entries, synthesisEntry{
			Display: e.plan.Participant(id).Display(),
			Model:   r.Model,
			Content: r.Content,
		})
	}
	input := chairmanInput(e.query, entries)

	system := chair.SystemPrompt
	if system == "" {
		system = e.o.rolePrompt("chairman")
	}
	messages := []llm.Message{
		llm.SystemMessage(system),
		llm.UserMessage(input),
	}
	var temperature *float64
	if chair.Temperature != nil {
		temperature = chair.Temperature
	}

	start := time.Now()
	result, fromCache, err := e.dispatch(ctx, model, messages, temperature)
	elapsed := time.Since(start)

	if err != nil || !e.o.resilience.Validate(result) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reason := "Chairman failed to respond"
		if err != nil {
			reason = err.Error()
		}
		e.logStep(ctx, store.ExecutionLog{
			Stage:         logStage3Error,
			NodeID:        chair.ID,
			NodeName:      chair.Display(),
			Model:         model,
			Role:          "chairman",
			InputContent:  e.redact(clip(input, synthesisClip)),
			OutputContent: e.redact(reason),
			DurationMS:    elapsed.Milliseconds(),
		})
		e.emitNodeState(ctx, chair.ID, events.StateError)
		e.emitError(ctx, chair.ID, "Chairman synthesis failed")
		return nil
	}

	tokens, cost := e.record(model, result, fromCache, elapsed)
	e.synthesis = &council.Response{
		NodeID:           chair.ID,
		Model:            model,
		Content:          result.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		Tokens:           tokens,
		Cost:             cost,
		DurationMS:       elapsed.Milliseconds(),
	}

	e.logStep(ctx, store.ExecutionLog{
		Stage:         logStage3Synthesis,
		NodeID:        chair.ID,
		NodeName:      chair.Display(),
		Model:         model,
		Role:          "chairman",
		InputContent:  e.redact(clip(input, synthesisClip)),
		OutputContent: e.redact(result.Content),
		TokensUsed:    tokens,
		Cost:          cost,
		DurationMS:    elapsed.Milliseconds(),
	})
	e.logDecision(ctx, chair.ID, decisionSynthesis, map[string]any{
		"model":  model,
		"tokens": tokens,
		"cost":   cost,
	})

	e.emitFinalAnswer(ctx, result.Content, tokens, cost)
	e.emitNodeState(ctx, chair.ID, events.StateComplete)
	return nil
}

// generateTitle asks a cheap model for a 3-5 word conversation title. The
// call bypasses the resilience layer; a failure just yields the fallback.
func (e *execution) generateTitle(ctx context.Context) string {
	model := e.o.cfg.Defaults.TitleModel
	if model == "" {
		model = e.o.cfg.Defaults.ChairmanModel
	}

	result, err := e.o.client.Call(ctx, llm.CallRequest{
		Model:    model,
		Messages: []llm.Message{llm.UserMessage(titlePrompt(e.query))},
		Timeout:  titleTimeout,
	})
	if err != nil {
		return fallbackTitle
	}

	title := strings.TrimSpace(result.Content)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return fallbackTitle
	}
	if len(title) > 50 {
		title = title[:47] + "..."
	}

	// Titles are billed but kept out of the run totals the client saw in
	// its complete frame.
	e.o.accountant.Record(model, result.Usage, 0)
	return title
}

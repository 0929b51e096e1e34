// Package orchestrator drives the three-stage council protocol over a
// compiled execution plan: individual responses collected along the graph,
// anonymized peer ranking, and chairman synthesis. Typed frames stream to
// the session's event sink as the run progresses, and every model
// interaction is logged to the store with PII redacted.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curia-dev/curia/pkg/budget"
	"github.com/curia-dev/curia/pkg/cache"
	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/council"
	"github.com/curia-dev/curia/pkg/llm"
	"github.com/curia-dev/curia/pkg/resilience"
	"github.com/curia-dev/curia/pkg/safety"
	"github.com/curia-dev/curia/pkg/store"
)

// defaultTemperature applies when neither the reasoning pattern nor the
// node specifies one.
const defaultTemperature = 0.7

// noResponsesMessage is streamed when every Stage 1 call failed.
const noResponsesMessage = "All models failed to respond. Fallback models were also unavailable. Please try again."

// insufficientMessage is streamed when a multi-member council kept too few
// responses for a meaningful deliberation.
const insufficientMessage = "Not enough council members responded to continue. Please try again."

// Deps wires the orchestrator's collaborators. Events may be nil (frames
// are dropped) and Store may be nil (persistence is skipped); everything
// else is required.
type Deps struct {
	Config     *config.Config
	Client     llm.Client
	Responses  *cache.ResponseCache
	Queries    *cache.QueryCache
	Accountant *budget.Accountant
	Resilience *resilience.Executor
	Partial    resilience.PartialPolicy
	Sanitizer  *safety.Sanitizer
	Redactor   *safety.Redactor
	Store      *store.Store
	Events     EventSink
}

// Orchestrator executes council runs. It is safe for concurrent use; all
// per-run state lives in the execution created by Execute.
type Orchestrator struct {
	cfg        *config.Config
	client     llm.Client
	responses  *cache.ResponseCache
	queries    *cache.QueryCache
	accountant *budget.Accountant
	resilience *resilience.Executor
	partial    resilience.PartialPolicy
	sanitizer  *safety.Sanitizer
	redactor   *safety.Redactor
	store      *store.Store
	events     EventSink
}

// New builds an orchestrator from its dependencies.
func New(deps Deps) *Orchestrator {
	if deps.Events == nil {
		deps.Events = NopSink{}
	}
	return &Orchestrator{
		cfg:        deps.Config,
		client:     deps.Client,
		responses:  deps.Responses,
		queries:    deps.Queries,
		accountant: deps.Accountant,
		resilience: deps.Resilience,
		partial:    deps.Partial,
		sanitizer:  deps.Sanitizer,
		redactor:   deps.Redactor,
		store:      deps.Store,
		events:     deps.Events,
	}
}

// Execute runs the full council protocol for one query: sanitize, consult
// the query cache, compile the plan, then drive the stages with a budget
// gate before each. The returned Result carries everything produced, even
// when the run terminated early with a typed error kind.
func (o *Orchestrator) Execute(ctx context.Context, query string, cfg *council.Config, opts Options) (*Result, error) {
	clean, err := o.sanitizer.Sanitize(query)
	if err != nil {
		return nil, fmt.Errorf("rejecting query: %w", err)
	}

	e := o.newExecution(clean, opts)

	if !opts.SkipCache {
		if cached, ok := o.queries.Get(ctx, clean); ok {
			return e.replay(ctx, cached)
		}
	}

	// An explicitly supplied council is authoritative; tier-based model
	// selection only fills in when the client sent none.
	if cfg == nil || len(cfg.Nodes) == 0 {
		cfg, err = o.composeDefault(clean)
		if err != nil {
			return nil, err
		}
	}

	plan, err := council.Compile(cfg)
	if err != nil {
		return nil, err
	}
	e.plan = plan

	slog.Info("Starting council execution",
		"conversation_id", e.id,
		"config", cfg.DisplayName(),
		"participants", len(plan.Order),
		"query", o.redactor.SafeLogMessage(clean))

	e.logDecision(ctx, "root", decisionStart, map[string]any{
		"query":       e.redact(clean),
		"config_name": cfg.DisplayName(),
	})

	if msg, denied := e.budgetDenied(e.modelsFor(plan.Order)); denied {
		e.emitError(ctx, "", msg)
		return e.finish(ctx, ErrorBudgetExceeded), nil
	}
	if err := e.stage1(ctx); err != nil {
		return nil, err
	}
	if len(e.order) == 0 {
		e.emitError(ctx, "", noResponsesMessage)
		return e.finish(ctx, ErrorNoResponses), nil
	}
	if len(plan.Order) > 1 && !o.partial.CanProceed(e.stage1List()) {
		e.emitError(ctx, "", insufficientMessage)
		return e.finish(ctx, ErrorInsufficientResponses), nil
	}

	if ranked := o.partial.AdjustForRanking(e.stage1List()); len(ranked) > 0 {
		if msg, denied := e.budgetDenied(e.modelsFor(e.order)); denied {
			e.emitError(ctx, "", msg)
			return e.finish(ctx, ErrorBudgetExceeded), nil
		}
		if err := e.stage2(ctx, ranked); err != nil {
			return nil, err
		}
	}

	if plan.Chairman != nil {
		if msg, denied := e.budgetDenied([]string{e.chairmanModel()}); denied {
			e.emitError(ctx, "", msg)
			return e.finish(ctx, ErrorBudgetExceeded), nil
		}
		if err := e.stage3(ctx); err != nil {
			return nil, err
		}
	}

	return e.finish(ctx, ""), nil
}

// composeDefault builds a council when the client supplied none: the
// complexity classifier picks a tier slate within the remaining budget and
// the composer seats it with priority roles under the default chairman.
func (o *Orchestrator) composeDefault(query string) (*council.Config, error) {
	models := budget.SelectModels(query, o.accountant.Remaining(), "")
	comp, err := council.NewComposer().Compose(council.ComposeRequest{Models: models})
	if err != nil {
		return nil, err
	}
	slog.Info("Composed default council",
		"agents", comp.AgentCount, "topology", comp.Topology)
	return comp.Council(o.cfg.Defaults.ChairmanModel), nil
}

// rolePrompt resolves a role's system prompt fragment, empty for unknown
// roles. Custom roles reach the engine through the node's prompt override
// instead.
func (o *Orchestrator) rolePrompt(roleID string) string {
	role, err := o.cfg.RoleRegistry.Get(roleID)
	if err != nil {
		return ""
	}
	return role.Prompt
}

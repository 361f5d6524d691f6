package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/merchai/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// AnalyzeRequest is the input of a full workflow run
type AnalyzeRequest struct {
	Query string

	// URL of the product page; when empty the extraction branch is skipped
	// and Fallback is analyzed instead
	URL string

	// Fallback is the caller-supplied product record, used when there is no
	// URL or extraction produced nothing
	Fallback domain.ProductRecord

	RouterMode domain.RouterMode
}

// OrchestratorConfig holds configuration for the orchestrator
type OrchestratorConfig struct {
	DefaultRouterMode domain.RouterMode
	EnableCritic      bool
}

// Orchestrator composes the agents into the fixed two-branch-then-merge
// pipeline: context gathering and product extraction run in parallel, both
// are joined, then the analysis step runs on the merged inputs.
type Orchestrator struct {
	router     *RouterAgent
	context    *ContextAgent
	extraction *ExtractionAgent
	analysis   *AnalysisAgent
	critic     *CriticAgent

	defaultMode  domain.RouterMode
	enableCritic bool

	// Run supersession: starting a new run cancels the previous run's
	// context, and a superseded run's outcome never reaches the caller.
	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
}

// NewOrchestrator wires the agents into an orchestrator
func NewOrchestrator(
	router *RouterAgent,
	contextAgent *ContextAgent,
	extraction *ExtractionAgent,
	analysis *AnalysisAgent,
	critic *CriticAgent,
	config OrchestratorConfig,
) *Orchestrator {
	mode := config.DefaultRouterMode
	if !mode.Valid() {
		mode = domain.RouterSmart
	}

	return &Orchestrator{
		router:       router,
		context:      contextAgent,
		extraction:   extraction,
		analysis:     analysis,
		critic:       critic,
		defaultMode:  mode,
		enableCritic: config.EnableCritic,
	}
}

// GetContext runs the context branch standalone: router (unless forced)
// followed by the context agent. The returned cost includes the router's.
func (o *Orchestrator) GetContext(ctx context.Context, query string, mode domain.RouterMode) (*domain.ContextResult, error) {
	mode = o.resolveMode(mode)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown router mode %q", domain.ErrInvalidRequest, mode)
	}

	decision, err := o.route(ctx, query, mode)
	if err != nil {
		return nil, err
	}

	result, err := o.context.GetContext(ctx, query, decision.NeedsSearch)
	if err != nil {
		return nil, err
	}

	if decision.Cost == 0 {
		return result, nil
	}

	// Cache entries are immutable; fold the router cost into a copy
	combined := *result
	combined.Cost = &domain.CostMeta{EstimatedCostUSD: costOf(result.Cost) + decision.Cost}
	if result.Cost != nil {
		combined.Cost.PromptTokens = result.Cost.PromptTokens
		combined.Cost.CompletionTokens = result.Cost.CompletionTokens
	}
	return &combined, nil
}

// ExtractProduct runs the extraction branch standalone
func (o *Orchestrator) ExtractProduct(ctx context.Context, url, query string) (*domain.ProductRecord, error) {
	return o.extraction.Extract(ctx, url, query)
}

// AnalyzeRelevance runs the full workflow. Starting a new run cancels any
// run still in flight; the superseded run settles as aborted and its
// outcome is discarded.
func (o *Orchestrator) AnalyzeRelevance(ctx context.Context, req AnalyzeRequest) (*domain.WorkflowResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	mode := o.resolveMode(req.RouterMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown router mode %q", domain.ErrInvalidRequest, req.RouterMode)
	}

	runCtx, generation := o.begin(ctx)
	defer o.finish(generation)

	result, err := o.run(runCtx, req, mode)

	if o.superseded(generation) {
		return nil, fmt.Errorf("%w: superseded by a newer run", domain.ErrAborted)
	}
	return result, err
}

// run executes one workflow pass against an already-registered run context
func (o *Orchestrator) run(ctx context.Context, req AnalyzeRequest, mode domain.RouterMode) (*domain.WorkflowResult, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: cancelled before start", domain.ErrAborted)
	}

	var (
		contextResult *domain.ContextResult
		routerCost    float64
		extracted     *domain.ProductRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	// Branch A: routing then context, strictly sequential within the branch
	g.Go(func() error {
		decision, err := o.route(gctx, req.Query, mode)
		if err != nil {
			return err
		}
		routerCost = decision.Cost

		result, err := o.context.GetContext(gctx, req.Query, decision.NeedsSearch)
		if err != nil {
			return err
		}
		contextResult = result
		return nil
	})

	// Branch B: extraction, only when a URL was supplied
	if strings.TrimSpace(req.URL) != "" {
		g.Go(func() error {
			record, err := o.extraction.Extract(gctx, req.URL, req.Query)
			if err != nil {
				return err
			}
			extracted = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Recheck immediately after the join: a cancellation signalled while a
	// branch was in flight must stop the merge from proceeding.
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: cancelled before merge", domain.ErrAborted)
	}

	// Merge: the extracted record always wins when the extraction branch
	// produced one, even if it carries fewer fields than the fallback.
	product := req.Fallback
	extractionCost := 0.0
	if extracted != nil {
		product = *extracted
		extractionCost = costOf(extracted.Cost)
	}

	log.Printf("[ORCH] merged inputs for %q (extracted=%v), running analysis", req.Query, extracted != nil)

	analysis, err := o.analysis.Analyze(ctx, req.Query, product, contextResult.Overview)
	if err != nil {
		return nil, err
	}

	costs := domain.CostBreakdown{
		RouterCost:     routerCost,
		ContextCost:    costOf(contextResult.Cost),
		ExtractionCost: extractionCost,
		AnalysisCost:   costOf(analysis.Cost),
	}

	var critique *domain.CriticEvaluation
	if o.enableCritic && o.critic != nil {
		critique, err = o.critic.Evaluate(ctx, req.Query, product, contextResult.Overview, *analysis)
		if err != nil {
			return nil, err
		}
		costs.CriticCost = costOf(critique.Cost)
	}

	costs.TotalCost = costs.RouterCost + costs.ContextCost + costs.ExtractionCost +
		costs.AnalysisCost + costs.CriticCost

	return &domain.WorkflowResult{
		Context:  *contextResult,
		Product:  product,
		Analysis: *analysis,
		Critique: critique,
		Costs:    costs,
	}, nil
}

// route resolves the search decision. Forced modes skip the router agent
// entirely; the skipped step costs nothing.
func (o *Orchestrator) route(ctx context.Context, query string, mode domain.RouterMode) (domain.RouterDecision, error) {
	switch mode {
	case domain.RouterForceSearch:
		return domain.RouterDecision{NeedsSearch: true}, nil
	case domain.RouterForceKnowledge:
		return domain.RouterDecision{NeedsSearch: false}, nil
	default:
		return o.router.DetermineNecessity(ctx, query)
	}
}

func (o *Orchestrator) resolveMode(mode domain.RouterMode) domain.RouterMode {
	if mode == "" {
		return o.defaultMode
	}
	return mode
}

// begin registers a new run, cancelling whichever run was in flight
func (o *Orchestrator) begin(ctx context.Context) (context.Context, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.generation++
	return runCtx, o.generation
}

// finish releases the run's context if it is still the current one
func (o *Orchestrator) finish(generation uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation == generation && o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// superseded reports whether a newer run has started since this one
func (o *Orchestrator) superseded(generation uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation != generation
}

// costOf reads the estimated cost out of an optional cost side channel
func costOf(meta *domain.CostMeta) float64 {
	if meta == nil {
		return 0
	}
	return meta.EstimatedCostUSD
}

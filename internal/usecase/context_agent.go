package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/merchai/backend/internal/domain"
)

// degradedOverview is returned when context generation fails; the workflow
// must still be able to proceed to analysis with degraded context.
const degradedOverview = "context unavailable"

// ContextAgent produces a short natural-language intent overview for a
// query, either search-grounded or from model knowledge. The mode is always
// chosen by the caller.
type ContextAgent struct {
	core  agentCore
	cache domain.Cache
}

// NewContextAgent creates a context agent on the lightweight model class
func NewContextAgent(client domain.GenAI, model string, cache domain.Cache) *ContextAgent {
	return &ContextAgent{
		core:  agentCore{client: client, model: model, tier: TierLightweight},
		cache: cache,
	}
}

// GetContext returns the intent overview for a query in the given mode.
// Results are cached per (normalized query, mode); toggling the mode is a
// cache miss because the two modes are not interchangeable. Any failure
// other than cancellation degrades to a knowledge-unavailable placeholder
// at zero cost.
func (a *ContextAgent) GetContext(ctx context.Context, query string, needsSearch bool) (*domain.ContextResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: cancelled before dispatch", domain.ErrAborted)
	}

	key := contextCacheKey(query, needsSearch)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		if result, ok := cached.(*domain.ContextResult); ok {
			log.Printf("[CONTEXT] cache hit for %q (search=%v)", query, needsSearch)
			return result, nil
		}
	}

	var prompt string
	if needsSearch {
		prompt = searchIntentPrompt(query)
	} else {
		prompt = knowledgeIntentPrompt(query)
	}

	result, cost, err := a.core.generate(ctx, prompt, domain.GenerateOptions{
		EnableSearch: needsSearch,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, err
		}
		log.Printf("[CONTEXT] failed for %q, degrading: %v", query, err)
		return &domain.ContextResult{
			Overview: degradedOverview,
			Source:   domain.SourceKnowledge,
			Cost:     &domain.CostMeta{},
		}, nil
	}

	overview := result.Text
	if overview == "" {
		overview = degradedOverview
	}

	contextResult := &domain.ContextResult{
		Overview: overview,
		Source:   domain.SourceKnowledge,
		Cost:     costMeta(cost, result.Usage),
	}
	if needsSearch {
		contextResult.Source = domain.SourceSearch
		contextResult.Citations = filterCitations(result.Citations)
	}

	if err := a.cache.Set(ctx, key, contextResult); err != nil {
		log.Printf("[CONTEXT] cache write failed for %q: %v", query, err)
	}

	return contextResult, nil
}

// filterCitations drops citations without a URI and falls back to the URI
// when a title is absent.
func filterCitations(citations []domain.Citation) []domain.Citation {
	var kept []domain.Citation
	for _, c := range citations {
		if c.URI == "" {
			continue
		}
		if c.Title == "" {
			c.Title = c.URI
		}
		kept = append(kept, c)
	}
	return kept
}

// contextCacheKey builds the cache key from the normalized query and mode
func contextCacheKey(query string, needsSearch bool) string {
	return fmt.Sprintf("context:%s:%t", normalizeQuery(query), needsSearch)
}

// normalizeQuery folds a query for cache keying only; the original casing
// is always what gets sent to the model.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

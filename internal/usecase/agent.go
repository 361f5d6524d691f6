package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/merchai/backend/internal/domain"
)

// Pricing constants (estimated USD). Search grounding is billed per
// request; token rates are per million tokens.
const (
	priceSearchRequest = 0.035

	priceLightweightInput1M  = 0.075
	priceLightweightOutput1M = 0.30

	priceHeavyweightInput1M  = 3.50
	priceHeavyweightOutput1M = 10.50
)

// ModelTier selects the pricing class an agent declares at construction
type ModelTier int

const (
	// TierLightweight is the cheap model class (routing, context, extraction)
	TierLightweight ModelTier = iota

	// TierHeavyweight is the expensive reasoning class (analysis, critique)
	TierHeavyweight
)

func (t ModelTier) inputRate() float64 {
	if t == TierHeavyweight {
		return priceHeavyweightInput1M
	}
	return priceLightweightInput1M
}

func (t ModelTier) outputRate() float64 {
	if t == TierHeavyweight {
		return priceHeavyweightOutput1M
	}
	return priceLightweightOutput1M
}

// agentCore is the invocation contract shared by every agent: cancellation
// checks around the remote call and cost estimation from usage counters.
// Agents compose it rather than reimplementing either concern.
type agentCore struct {
	client domain.GenAI
	model  string
	tier   ModelTier
}

// generate invokes the inference service with a cancellation check on each
// side of the call. A response that arrives after cancellation is discarded
// together with its usage, so aborted calls always cost zero.
func (a agentCore) generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (*domain.GenerateResult, float64, error) {
	if ctx.Err() != nil {
		return nil, 0, fmt.Errorf("%w: cancelled before dispatch", domain.ErrAborted)
	}

	result, err := a.client.Generate(ctx, a.model, prompt, opts)
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, 0, err
		}
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %v", domain.ErrAborted, err)
		}
		if errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if ctx.Err() != nil {
		return nil, 0, fmt.Errorf("%w: response discarded", domain.ErrAborted)
	}

	return result, a.estimateCost(result.Usage, opts.EnableSearch), nil
}

// estimateCost derives the estimated USD cost of a call from its token
// counters. Missing counters count as zero tokens, leaving only the search
// surcharge when the tool was enabled.
func (a agentCore) estimateCost(usage domain.TokenUsage, hasSearch bool) float64 {
	cost := 0.0
	if hasSearch {
		cost += priceSearchRequest
	}

	cost += float64(usage.PromptTokens) / 1_000_000 * a.tier.inputRate()
	cost += float64(usage.CandidatesTokens) / 1_000_000 * a.tier.outputRate()

	return cost
}

// costMeta builds the cost side channel attached to agent results
func costMeta(cost float64, usage domain.TokenUsage) *domain.CostMeta {
	return &domain.CostMeta{
		EstimatedCostUSD: cost,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CandidatesTokens,
	}
}

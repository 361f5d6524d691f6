package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/merchai/backend/internal/domain"
)

// routerSchema is the structured-output shape of the router's decision
var routerSchema = &domain.Schema{
	Type: "OBJECT",
	Properties: map[string]*domain.Schema{
		"needsSearch": {Type: "BOOLEAN"},
		"reason":      {Type: "STRING"},
	},
	Required: []string{"needsSearch", "reason"},
}

// RouterAgent classifies whether a query needs live web search or can be
// answered from model knowledge.
type RouterAgent struct {
	core agentCore
}

// NewRouterAgent creates a router agent on the lightweight model class
func NewRouterAgent(client domain.GenAI, model string) *RouterAgent {
	return &RouterAgent{
		core: agentCore{client: client, model: model, tier: TierLightweight},
	}
}

// DetermineNecessity decides whether the query needs live search. Any
// failure other than cancellation falls back to needsSearch=true at zero
// cost: the searched branch is the safe default over an ungrounded answer.
func (a *RouterAgent) DetermineNecessity(ctx context.Context, query string) (domain.RouterDecision, error) {
	result, cost, err := a.core.generate(ctx, routerPrompt(query), domain.GenerateOptions{
		ResponseSchema: routerSchema,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return domain.RouterDecision{}, err
		}
		log.Printf("[ROUTER] failed, defaulting to search: %v", err)
		return domain.RouterDecision{NeedsSearch: true, Cost: 0}, nil
	}

	var decision struct {
		NeedsSearch bool   `json:"needsSearch"`
		Reason      string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(result.Text), &decision); err != nil {
		log.Printf("[ROUTER] malformed decision, defaulting to search: %v", err)
		return domain.RouterDecision{NeedsSearch: true, Cost: 0}, nil
	}

	log.Printf("[ROUTER] needsSearch=%v for %q (%s)", decision.NeedsSearch, query, decision.Reason)

	return domain.RouterDecision{NeedsSearch: decision.NeedsSearch, Cost: cost}, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/merchai/backend/internal/domain"
)

// criticSchema is the structured-output shape of a critique
var criticSchema = &domain.Schema{
	Type: "OBJECT",
	Properties: map[string]*domain.Schema{
		"satisfactory":          {Type: "BOOLEAN"},
		"scoreAdjustmentNeeded": {Type: "BOOLEAN"},
		"critique":              {Type: "STRING"},
		"suggestions":           {Type: "ARRAY", Items: &domain.Schema{Type: "STRING"}},
	},
	Required: []string{"satisfactory", "scoreAdjustmentNeeded", "critique", "suggestions"},
}

// CriticAgent judges the quality of an analysis produced by the analysis
// agent. It fails open: when the critic itself fails, the analysis is
// assumed satisfactory so a broken critic can never block a verdict.
type CriticAgent struct {
	core agentCore
}

// NewCriticAgent creates a critic agent on the heavyweight model class
func NewCriticAgent(client domain.GenAI, model string) *CriticAgent {
	return &CriticAgent{
		core: agentCore{client: client, model: model, tier: TierHeavyweight},
	}
}

// Evaluate reviews an existing analysis for missed mismatches, unjustified
// scores, hallucinated features and vague reasoning.
func (a *CriticAgent) Evaluate(ctx context.Context, query string, product domain.ProductRecord, contextOverview string, analysis domain.AnalysisResult) (*domain.CriticEvaluation, error) {
	result, cost, err := a.core.generate(ctx, criticPrompt(query, product, contextOverview, analysis), domain.GenerateOptions{
		ResponseSchema: criticSchema,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, err
		}
		log.Printf("[CRITIC] failed, assuming satisfactory: %v", err)
		return satisfactoryFallback(), nil
	}

	var evaluation domain.CriticEvaluation
	if err := json.Unmarshal([]byte(result.Text), &evaluation); err != nil {
		log.Printf("[CRITIC] malformed evaluation, assuming satisfactory: %v", err)
		return satisfactoryFallback(), nil
	}

	evaluation.Cost = costMeta(cost, result.Usage)
	return &evaluation, nil
}

func satisfactoryFallback() *domain.CriticEvaluation {
	return &domain.CriticEvaluation{
		Satisfactory: true,
		Critique:     "Critic unavailable",
		Cost:         &domain.CostMeta{},
	}
}

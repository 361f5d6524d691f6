package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/merchai/backend/internal/domain"
)

// analysisSchema is the strict structured-output shape of the verdict.
// Every field is required; a response missing any of them is rejected.
var analysisSchema = &domain.Schema{
	Type: "OBJECT",
	Properties: map[string]*domain.Schema{
		"relevanceScore":            {Type: "NUMBER"},
		"reasoning":                 {Type: "STRING"},
		"keyMatches":                {Type: "ARRAY", Items: &domain.Schema{Type: "STRING"}},
		"missingFeatures":           {Type: "ARRAY", Items: &domain.Schema{Type: "STRING"}},
		"customerUtilityAssessment": {Type: "STRING"},
		"humanReviewNeeded":         {Type: "BOOLEAN"},
		"reviewReason":              {Type: "STRING"},
	},
	Required: []string{
		"relevanceScore", "reasoning", "keyMatches", "missingFeatures",
		"customerUtilityAssessment", "humanReviewNeeded", "reviewReason",
	},
}

// AnalysisAgent is the deep-judgment step producing the final relevance
// verdict. It runs on the heavyweight model class with a large reasoning
// budget, and is deliberately never cached: the verdict must reflect the
// freshest product/context pairing each time.
type AnalysisAgent struct {
	core           agentCore
	thinkingBudget int
}

// NewAnalysisAgent creates an analysis agent on the heavyweight model class
func NewAnalysisAgent(client domain.GenAI, model string, thinkingBudget int) *AnalysisAgent {
	return &AnalysisAgent{
		core:           agentCore{client: client, model: model, tier: TierHeavyweight},
		thinkingBudget: thinkingBudget,
	}
}

// Analyze scores the product against the query using the context overview.
// Failures are never degraded here; this is the final deliverable.
func (a *AnalysisAgent) Analyze(ctx context.Context, query string, product domain.ProductRecord, contextOverview string) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}

	result, cost, err := a.core.generate(ctx, analysisPrompt(query, product, contextOverview), domain.GenerateOptions{
		ResponseSchema: analysisSchema,
		ThinkingBudget: a.thinkingBudget,
	})
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(result.Text) == "" {
		return nil, fmt.Errorf("%w: empty analysis response", domain.ErrParseFailure)
	}

	// Pointer fields so omitted keys are distinguishable from zero values
	var raw struct {
		RelevanceScore            *float64  `json:"relevanceScore"`
		Reasoning                 *string   `json:"reasoning"`
		KeyMatches                *[]string `json:"keyMatches"`
		MissingFeatures           *[]string `json:"missingFeatures"`
		CustomerUtilityAssessment *string   `json:"customerUtilityAssessment"`
		HumanReviewNeeded         *bool     `json:"humanReviewNeeded"`
		ReviewReason              *string   `json:"reviewReason"`
	}
	if err := json.Unmarshal([]byte(result.Text), &raw); err != nil {
		return nil, fmt.Errorf("%w: analysis response is not valid JSON: %v", domain.ErrParseFailure, err)
	}

	missing := ""
	switch {
	case raw.RelevanceScore == nil:
		missing = "relevanceScore"
	case raw.Reasoning == nil:
		missing = "reasoning"
	case raw.KeyMatches == nil:
		missing = "keyMatches"
	case raw.MissingFeatures == nil:
		missing = "missingFeatures"
	case raw.CustomerUtilityAssessment == nil:
		missing = "customerUtilityAssessment"
	case raw.HumanReviewNeeded == nil:
		missing = "humanReviewNeeded"
	case raw.ReviewReason == nil:
		missing = "reviewReason"
	}
	if missing != "" {
		return nil, fmt.Errorf("%w: analysis response missing required field %q", domain.ErrParseFailure, missing)
	}

	return &domain.AnalysisResult{
		RelevanceScore:            clampScore(int(*raw.RelevanceScore)),
		Reasoning:                 *raw.Reasoning,
		KeyMatches:                *raw.KeyMatches,
		MissingFeatures:           *raw.MissingFeatures,
		CustomerUtilityAssessment: *raw.CustomerUtilityAssessment,
		HumanReviewNeeded:         *raw.HumanReviewNeeded,
		ReviewReason:              *raw.ReviewReason,
		Cost:                      costMeta(cost, result.Usage),
	}, nil
}

// clampScore keeps the score inside [0,100] even if the model overshoots
// the schema constraint.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

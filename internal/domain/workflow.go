package domain

// RouterMode controls whether the router agent is consulted at all.
type RouterMode string

const (
	// RouterSmart delegates the search decision to the router agent
	RouterSmart RouterMode = "smart"

	// RouterForceSearch skips the router and always grounds with search
	RouterForceSearch RouterMode = "force-search"

	// RouterForceKnowledge skips the router and never searches
	RouterForceKnowledge RouterMode = "force-knowledge"
)

// Valid reports whether the mode is one of the three known settings.
func (m RouterMode) Valid() bool {
	switch m {
	case RouterSmart, RouterForceSearch, RouterForceKnowledge:
		return true
	}
	return false
}

// RouterDecision is the router agent's verdict. It is consumed by the
// orchestrator and never persisted.
type RouterDecision struct {
	NeedsSearch bool
	Cost        float64
}

// CostMeta carries the estimated cost of the call that produced a result.
// It is a side channel, not part of the semantic payload.
type CostMeta struct {
	EstimatedCostUSD float64 `json:"cost"`
	PromptTokens     int     `json:"promptTokens,omitempty"`
	CompletionTokens int     `json:"completionTokens,omitempty"`
}

// CostBreakdown itemizes the estimated spend of one workflow run
type CostBreakdown struct {
	RouterCost     float64 `json:"routerCost"`
	ContextCost    float64 `json:"contextCost"`
	ExtractionCost float64 `json:"extractionCost"`
	AnalysisCost   float64 `json:"analysisCost"`
	CriticCost     float64 `json:"criticCost,omitempty"`
	TotalCost      float64 `json:"totalCost"`
}

// WorkflowResult is the terminal artifact of one end-to-end run
type WorkflowResult struct {
	Context  ContextResult     `json:"context"`
	Product  ProductRecord     `json:"product"`
	Analysis AnalysisResult    `json:"analysis"`
	Critique *CriticEvaluation `json:"critique,omitempty"`
	Costs    CostBreakdown     `json:"costs"`
}

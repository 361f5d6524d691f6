package domain

// ContextSource identifies how an intent overview was produced.
type ContextSource string

const (
	// SourceSearch means the overview was grounded by a live web search
	SourceSearch ContextSource = "SEARCH"

	// SourceKnowledge means the overview came from model knowledge alone
	SourceKnowledge ContextSource = "KNOWLEDGE"
)

// Citation is a single grounding reference returned by a search-augmented call
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ContextResult is the intent overview for a query. Citations are only
// present when Source is SEARCH.
type ContextResult struct {
	Overview  string        `json:"overview"`
	Citations []Citation    `json:"citations"`
	Source    ContextSource `json:"source"`

	Cost *CostMeta `json:"_meta,omitempty"`
}

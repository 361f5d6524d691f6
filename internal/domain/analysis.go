package domain

// RelevanceBand is one of the five named score ranges.
type RelevanceBand string

const (
	BandEmbarrassing RelevanceBand = "Embarrassing"
	BandBad          RelevanceBand = "Bad"
	BandOkay         RelevanceBand = "Okay"
	BandGood         RelevanceBand = "Good"
	BandExcellent    RelevanceBand = "Excellent"
)

// AnalysisResult is the final relevance verdict for a query/product pair
type AnalysisResult struct {
	RelevanceScore            int      `json:"relevanceScore"`
	Reasoning                 string   `json:"reasoning"`
	KeyMatches                []string `json:"keyMatches"`
	MissingFeatures           []string `json:"missingFeatures"`
	CustomerUtilityAssessment string   `json:"customerUtilityAssessment"`
	HumanReviewNeeded         bool     `json:"humanReviewNeeded"`
	ReviewReason              string   `json:"reviewReason"`

	Cost *CostMeta `json:"_meta,omitempty"`
}

// Band derives the relevance band from the score. The band is never stored
// independently so it cannot drift from the score.
func (a AnalysisResult) Band() RelevanceBand {
	return BandForScore(a.RelevanceScore)
}

// BandForScore maps a 0-100 relevance score to its band.
func BandForScore(score int) RelevanceBand {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandOkay
	case score >= 20:
		return BandBad
	default:
		return BandEmbarrassing
	}
}

// CriticEvaluation is an optional QA judgment of an AnalysisResult
type CriticEvaluation struct {
	Satisfactory          bool     `json:"satisfactory"`
	ScoreAdjustmentNeeded bool     `json:"scoreAdjustmentNeeded"`
	Critique              string   `json:"critique"`
	Suggestions           []string `json:"suggestions"`

	Cost *CostMeta `json:"_meta,omitempty"`
}

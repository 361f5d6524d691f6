package domain

import "testing"

func TestBandForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RelevanceBand
	}{
		{0, BandEmbarrassing},
		{10, BandEmbarrassing},
		{19, BandEmbarrassing},
		{20, BandBad},
		{39, BandBad},
		{40, BandOkay},
		{59, BandOkay},
		{60, BandGood},
		{79, BandGood},
		{80, BandExcellent},
		{100, BandExcellent},
	}

	for _, tt := range tests {
		if got := BandForScore(tt.score); got != tt.want {
			t.Errorf("BandForScore(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAnalysisResultBand(t *testing.T) {
	result := AnalysisResult{RelevanceScore: 65}
	if result.Band() != BandGood {
		t.Errorf("Band() = %v, want %v", result.Band(), BandGood)
	}
}

func TestRouterModeValid(t *testing.T) {
	for _, mode := range []RouterMode{RouterSmart, RouterForceSearch, RouterForceKnowledge} {
		if !mode.Valid() {
			t.Errorf("mode %q should be valid", mode)
		}
	}
	if RouterMode("bogus").Valid() {
		t.Error("mode \"bogus\" should not be valid")
	}
	if RouterMode("").Valid() {
		t.Error("empty mode should not be valid")
	}
}

func TestProductRecordIsEmpty(t *testing.T) {
	if !(ProductRecord{}).IsEmpty() {
		t.Error("zero record should be empty")
	}
	if (ProductRecord{Badge: "Best Seller"}).IsEmpty() {
		t.Error("record with a badge should not be empty")
	}
	// Cost is a side channel, not part of the semantic payload
	if !(ProductRecord{Cost: &CostMeta{EstimatedCostUSD: 0.1}}).IsEmpty() {
		t.Error("record with only cost meta should still be empty")
	}
}

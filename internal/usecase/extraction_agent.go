package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/merchai/backend/internal/domain"
)

// ExtractionAgent turns a product-page URL plus the shopper's query into a
// structured ProductRecord using a search-grounded call.
type ExtractionAgent struct {
	core  agentCore
	cache domain.Cache
}

// NewExtractionAgent creates an extraction agent on the lightweight model class
func NewExtractionAgent(client domain.GenAI, model string, cache domain.Cache) *ExtractionAgent {
	return &ExtractionAgent{
		core:  agentCore{client: client, model: model, tier: TierLightweight},
		cache: cache,
	}
}

// Extract fetches a structured product record for the URL. The query only
// focuses the prompt; see extractionCacheKey for the caching consequence.
// A response that cannot be parsed as JSON is a terminal parse failure for
// the extraction branch: a garbled record would corrupt the judgment step.
func (a *ExtractionAgent) Extract(ctx context.Context, url, query string) (*domain.ProductRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: cancelled before dispatch", domain.ErrAborted)
	}

	key := extractionCacheKey(url)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		if record, ok := cached.(*domain.ProductRecord); ok {
			log.Printf("[EXTRACT] cache hit for %s", url)
			return record, nil
		}
	}

	result, cost, err := a.core.generate(ctx, extractionPrompt(url, query), domain.GenerateOptions{
		EnableSearch: true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, err
		}
		return nil, fmt.Errorf("could not extract product details, the URL may be invalid or not indexable: %w", err)
	}

	text := stripCodeFences(result.Text)
	if text == "" {
		// The model produced nothing usable, usually after getting confused
		// by tool output. Return an empty record with the observed cost.
		log.Printf("[EXTRACT] no text generated for %s, returning empty record", url)
		return &domain.ProductRecord{Cost: costMeta(cost, result.Usage)}, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: extracted product data is not valid JSON: %v", domain.ErrParseFailure, err)
	}

	record := &domain.ProductRecord{
		Name:        stringField(raw, "name"),
		Description: stringField(raw, "description"),
		Price:       stringField(raw, "price"),
		Category:    stringField(raw, "category"),
		Brand:       stringField(raw, "brand"),
		Size:        stringField(raw, "size"),
		Color:       stringField(raw, "color"),
		Gender:      stringField(raw, "gender"),
		Badge:       stringField(raw, "badge"),
		Cost:        costMeta(cost, result.Usage),
	}

	if err := a.cache.Set(ctx, key, record); err != nil {
		log.Printf("[EXTRACT] cache write failed for %s: %v", url, err)
	}

	return record, nil
}

// extractionCacheKey is keyed by URL alone. The query shapes the prompt but
// not the key, so two different queries against the same URL share whichever
// record was extracted first. Known limitation of the current design.
func extractionCacheKey(url string) string {
	return "product:" + url
}

// stripCodeFences removes leading/trailing Markdown code-fence markers the
// model sometimes adds despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// stringField reads a field from the parsed object, tolerating omitted
// fields and non-string scalars. Absence is always the empty string.
func stringField(raw map[string]interface{}, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

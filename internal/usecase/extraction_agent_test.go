package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/merchai/backend/internal/domain"
	"github.com/merchai/backend/internal/infrastructure/cache"
)

func newExtractionAgent(fake *fakeGenAI) *ExtractionAgent {
	return NewExtractionAgent(fake, "flash-model", cache.NewMemoryCache())
}

const productJSON = `{
	"name": "Classic Red Dress",
	"description": "A-line midi dress",
	"price": "49.99",
	"category": "Dresses",
	"brand": "Acme",
	"size": "S, M, L",
	"color": "Red",
	"gender": "Women",
	"badge": "Best Seller"
}`

func TestExtract(t *testing.T) {
	fake := staticFake(productJSON)
	agent := newExtractionAgent(fake)

	record, err := agent.Extract(context.Background(), "https://shop.example/p/123", "red dress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "Classic Red Dress" {
		t.Errorf("name = %q", record.Name)
	}
	if record.Price != "49.99" {
		t.Errorf("price = %q", record.Price)
	}
	if record.Badge != "Best Seller" {
		t.Errorf("badge = %q", record.Badge)
	}
	if record.Cost == nil || record.Cost.EstimatedCostUSD <= 0 {
		t.Error("extraction must carry the observed cost")
	}

	call := fake.lastCall()
	if !call.opts.EnableSearch {
		t.Error("extraction must always enable search")
	}
	if !strings.Contains(call.prompt, "https://shop.example/p/123") {
		t.Error("prompt must embed the URL")
	}
	if !strings.Contains(call.prompt, `"red dress"`) {
		t.Error("prompt must embed the focusing query when present")
	}
}

func TestExtractFencedOutputEquivalent(t *testing.T) {
	fenced := "```json\n" + productJSON + "\n```"

	plainAgent := newExtractionAgent(staticFake(productJSON))
	fencedAgent := newExtractionAgent(staticFake(fenced))
	ctx := context.Background()

	plain, err := plainAgent.Extract(ctx, "https://shop.example/p/1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unfenced, err := fencedAgent.Extract(ctx, "https://shop.example/p/1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plain.Cost, unfenced.Cost = nil, nil
	if *plain != *unfenced {
		t.Errorf("fenced and plain output must parse identically:\n%+v\n%+v", plain, unfenced)
	}
}

func TestExtractTolerantFieldDefaults(t *testing.T) {
	// price arrives as a number, badge is absent entirely
	fake := staticFake(`{"name": "Widget", "price": 19.99, "category": null}`)
	agent := newExtractionAgent(fake)

	record, err := agent.Extract(context.Background(), "https://shop.example/p/2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "Widget" {
		t.Errorf("name = %q", record.Name)
	}
	if record.Price != "19.99" {
		t.Errorf("numeric price must be stringified, got %q", record.Price)
	}
	if record.Category != "" || record.Badge != "" {
		t.Errorf("absent fields must default to empty, got category=%q badge=%q", record.Category, record.Badge)
	}
}

func TestExtractEmptyResponseYieldsEmptyRecord(t *testing.T) {
	fake := &fakeGenAI{fn: func(ctx context.Context, model, prompt string, opts domain.GenerateOptions) (*domain.GenerateResult, error) {
		return textResult("", 200, 0), nil
	}}
	agent := newExtractionAgent(fake)

	record, err := agent.Extract(context.Background(), "https://shop.example/p/3", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.IsEmpty() {
		t.Errorf("expected an empty record, got %+v", record)
	}
	// Tokens were still consumed; the cost is real even though the record is empty
	if record.Cost == nil || record.Cost.EstimatedCostUSD <= 0 {
		t.Error("empty record must still carry the observed cost")
	}
}

func TestExtractMalformedJSONIsParseFailure(t *testing.T) {
	fake := staticFake(`The product appears to be a red dress priced at`)
	agent := newExtractionAgent(fake)

	_, err := agent.Extract(context.Background(), "https://shop.example/p/4", "")
	if !errors.Is(err, domain.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestExtractUpstreamFailurePropagates(t *testing.T) {
	fake := &fakeGenAI{fn: func(ctx context.Context, model, prompt string, opts domain.GenerateOptions) (*domain.GenerateResult, error) {
		return nil, fmt.Errorf("%w: status 502", domain.ErrUpstreamFailure)
	}}
	agent := newExtractionAgent(fake)

	_, err := agent.Extract(context.Background(), "https://shop.example/p/5", "")
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "not indexable") {
		t.Errorf("error must explain the likely cause, got %q", err.Error())
	}
}

func TestExtractCachedByURLOnly(t *testing.T) {
	fake := staticFake(productJSON)
	agent := newExtractionAgent(fake)
	ctx := context.Background()

	if _, err := agent.Extract(ctx, "https://shop.example/p/6", "red dress"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Different query, same URL: served from cache
	if _, err := agent.Extract(ctx, "https://shop.example/p/6", "evening gown"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.callCount() != 1 {
		t.Errorf("cache is keyed by URL alone, got %d invocations", fake.callCount())
	}
}

func TestExtractEmptyURLRejected(t *testing.T) {
	agent := newExtractionAgent(staticFake(productJSON))

	_, err := agent.Extract(context.Background(), "  ", "red dress")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestExtractAbortPropagates(t *testing.T) {
	fake := staticFake(productJSON)
	agent := newExtractionAgent(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Extract(ctx, "https://shop.example/p/7", "")
	if !errors.Is(err, domain.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if fake.callCount() != 0 {
		t.Errorf("no call should be dispatched after cancellation, got %d", fake.callCount())
	}
}

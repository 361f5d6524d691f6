package main

import (
	"fmt"
	"log"
	"os"

	"github.com/merchai/backend/config"
	httpDelivery "github.com/merchai/backend/internal/delivery/http"
	"github.com/merchai/backend/internal/domain"
	"github.com/merchai/backend/internal/infrastructure/cache"
	"github.com/merchai/backend/internal/infrastructure/gemini"
	"github.com/merchai/backend/internal/usecase"
)

func main() {
	// Load configuration; a missing API key fails here, before anything
	// can reach the inference service
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MerchAI Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Models: flash=%s pro=%s", cfg.Gemini.FlashModel, cfg.Gemini.ProModel)

	// Initialize infrastructure dependencies
	client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Gemini client debug mode enabled")
	}

	// One explicit cache per memoized agent, constructed once per process
	contextCache := cache.NewMemoryCache()
	extractionCache := cache.NewMemoryCache()

	// Initialize agents
	router := usecase.NewRouterAgent(client, cfg.Gemini.FlashModel)
	contextAgent := usecase.NewContextAgent(client, cfg.Gemini.FlashModel, contextCache)
	extraction := usecase.NewExtractionAgent(client, cfg.Gemini.FlashModel, extractionCache)
	analysis := usecase.NewAnalysisAgent(client, cfg.Gemini.ProModel, cfg.Workflow.ThinkingBudget)
	critic := usecase.NewCriticAgent(client, cfg.Gemini.ProModel)

	orchestrator := usecase.NewOrchestrator(router, contextAgent, extraction, analysis, critic,
		usecase.OrchestratorConfig{
			DefaultRouterMode: domain.RouterMode(cfg.Workflow.DefaultRouterMode),
			EnableCritic:      cfg.Workflow.EnableCritic,
		})

	log.Printf("Workflow: routerMode=%s critic=%v thinkingBudget=%d",
		cfg.Workflow.DefaultRouterMode, cfg.Workflow.EnableCritic, cfg.Workflow.ThinkingBudget)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(orchestrator)

	// Setup router
	ginRouter := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := ginRouter.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

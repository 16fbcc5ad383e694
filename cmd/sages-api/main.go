package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/kongmeng/sages/internal/adapters/http"
	"github.com/kongmeng/sages/internal/adapters/llm"
	"github.com/kongmeng/sages/internal/adapters/storage/memory"
	"github.com/kongmeng/sages/internal/app/chat"
	"github.com/kongmeng/sages/internal/app/debate"
	"github.com/kongmeng/sages/internal/config"
	"github.com/kongmeng/sages/internal/domain"
	"github.com/kongmeng/sages/internal/observability"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var provider llm.Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		log.Println("[LLM] Using OpenAI provider", "model:", cfg.OpenAIModel)
		provider = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	case config.ProviderGemini:
		log.Println("[LLM] Using Gemini provider", "model:", cfg.GeminiModel)
		p, err := llm.NewGemini(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("error initializing Gemini provider: %v", err)
		}
		provider = p

	default:
		log.Println("[LLM] Using mock provider")
		provider = llm.NewMock()
	}

	gen := llm.NewAdapter(provider)
	sessions := memory.NewSessionRegistry()

	chatSvc := chat.NewService(gen, sessions, domain.ParseResponseLength(cfg.DefaultLength))
	debateSvc := debate.NewOrchestrator(gen, sessions)

	handler := httpadapter.NewServer(chatSvc, debateSvc)

	observability.Logger().Info("sages API listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal(err)
	}
}

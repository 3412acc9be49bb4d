// README: Entry point; loads config, wires services, starts the HTTP server and shuts it down on signal.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/cache"
	"github.com/cow-planmate/Ai/internal/config"
	httptransport "github.com/cow-planmate/Ai/internal/http"
	"github.com/cow-planmate/Ai/internal/infra"
	"github.com/cow-planmate/Ai/internal/maps"
	"github.com/cow-planmate/Ai/internal/modules/aiusage"
	"github.com/cow-planmate/Ai/internal/modules/chat"
	"github.com/cow-planmate/Ai/internal/modules/pricing"
	"github.com/cow-planmate/Ai/internal/modules/recommendation"
	"github.com/cow-planmate/Ai/internal/modules/schedule"
	"github.com/cow-planmate/Ai/internal/modules/search"
	"github.com/cow-planmate/Ai/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store cache.Cache = cache.NewMemory(cfg.Cache.TTL)
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Printf("[BOOT] redis unavailable, using in-process cache: %v", err)
		} else {
			defer rdb.Close()
			store = cache.NewRedis(rdb, cfg.Cache.TTL)
		}
	}

	llm, closeLLM, err := ai.NewProvider(ctx, ai.Settings{
		Provider:    cfg.AI.Provider,
		GeminiKey:   cfg.AI.GeminiKey,
		GeminiModel: cfg.AI.GeminiModel,
		OpenAIKey:   cfg.AI.OpenAIKey,
		OpenAIModel: cfg.AI.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("ai init: %v", err)
	}
	defer closeLLM()

	chatOpts := chat.Options{Mode: chat.Mode(cfg.AI.ChatMode)}
	if cfg.DB.DSN != "" {
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		chatOpts.History = chat.NewStore(db)
		if cfg.Quota.Monthly > 0 {
			chatOpts.Quota = aiusage.NewService(aiusage.NewStore(db), cfg.Quota.Monthly)
		}
	}

	deps := httptransport.ServerDeps{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		InternalToken:  cfg.HTTP.InternalToken,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Pricing:        pricing.NewService(pricing.NewLLMEstimator(llm, store)),
	}

	var searcher *search.Service
	if cfg.Maps.PlacesKey == "" {
		log.Printf("[BOOT] GOOGLE_PLACES_API_KEY not set; place search and auto-scheduling disabled")
	} else {
		places, err := maps.NewPlacesService(cfg.Maps.PlacesKey, cfg.Maps.Language, store)
		if err != nil {
			log.Fatalf("places init: %v", err)
		}
		searcher = search.NewService(places)
		deps.Schedule = schedule.NewService(searcher, places)
	}

	if searcher != nil {
		deps.Chat = chat.NewService(llm, searcher, chatOpts)
	} else {
		// No place search: the model answers with structured JSON only.
		chatOpts.Mode = chat.ModeStructured
		deps.Chat = chat.NewService(llm, nil, chatOpts)
	}

	if cfg.Weather.APIKey == "" {
		log.Printf("[BOOT] OPENWEATHER_API_KEY not set; recommendations disabled")
	} else {
		deps.Recommendation = recommendation.NewService(weather.NewClient(cfg.Weather.APIKey), llm)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[BOOT] listening on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("[BOOT] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[BOOT] shutdown: %v", err)
	}
}

package main

import (
	"brandquiz/internal/cache"
	"brandquiz/internal/catalog"
	"brandquiz/internal/config"
	"brandquiz/internal/repository"
	"brandquiz/internal/service"
	"brandquiz/internal/transport/rest"
	"brandquiz/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.MustLoad()

	// Log AI model settings
	log.Printf("AI Config:")
	log.Printf("  Classify: %s", cfg.AI.Models.Classify)
	log.Printf("  Report:   %s", cfg.AI.Models.Report)
	log.Printf("  Analyze:  %s", cfg.AI.Models.Analyze)
	if cfg.AI.IsEnabled() {
		log.Println("  API Key:  configured ✓")
	} else {
		log.Println("  API Key:  NOT SET (using mock evaluator)")
	}

	archetypes := catalog.Default()

	// MongoDB holds the editable question bank; without it the built-in bank is used
	var questions *catalog.QuestionSet
	if cfg.Mongo.URI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Printf("Warning: failed to ping MongoDB: %v", err)
		} else {
			log.Println("Connected to MongoDB")
		}
		cancel()

		questionRepo := repository.NewQuestionRepo(mongoClient.Database(cfg.Mongo.Database))
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		questions = catalog.LoadQuestionSet(loadCtx, questionRepo, archetypes)
		cancel()
	} else {
		log.Println("Warning: MONGO_URI not set, using built-in question bank")
		questions = catalog.MustValidDefault(archetypes)
	}

	// Redis caches website analyses; optional
	var websiteCache cache.WebsiteCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("Warning: failed to ping Redis, website cache disabled: %v", err)
			websiteCache = cache.NewNoopWebsiteCache()
		} else {
			log.Println("Connected to Redis")
			websiteCache = cache.NewWebsiteCache(rdb, cfg.Redis.TTL)
		}
	} else {
		log.Println("Warning: REDIS_URI not set, website cache disabled")
		websiteCache = cache.NewNoopWebsiteCache()
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	scraper := service.NewScraperService(cfg.Scraper.Timeout)
	evaluator := service.NewEvaluatorService(cfg.AI, archetypes)
	crm := service.NewCRMClient(cfg.CRM, cfg.Email)
	submissionSvc := service.NewSubmissionService(archetypes, questions, scraper, evaluator, crm, websiteCache)
	statusSvc := service.NewStatusService()

	// Inject broadcaster (wsHub implements service.Broadcaster)
	submissionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		Catalog:           archetypes,
		SubmissionService: submissionSvc,
		StatusService:     statusSvc,
		WSHub:             wsHub,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (%s)", cfg.Server.Port, cfg.Server.Environment)
		log.Println("Endpoints:")
		log.Println("  POST /v1/quiz/submit")
		log.Println("  POST /v1/quiz/analyze")
		log.Println("  GET  /v1/quiz/status/{reportId}")
		log.Println("  GET  /v1/quiz/questions")
		log.Println("  GET  /v1/archetypes")
		log.Println("  WS   /v1/ws/submissions/{submissionId}")
		log.Println("  POST /submit-quiz")
		log.Println("  GET  /check-status?reportId=")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	wsHub.Close()

	log.Println("Server exited")
}

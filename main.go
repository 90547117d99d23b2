// File: flightbot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightbot/config"
	"flightbot/cron"
	"flightbot/handlers"
	"flightbot/metrics"
	"flightbot/middleware"
	"flightbot/routes"
	"flightbot/services/conversation"
	"flightbot/services/fulfillment"
	"flightbot/services/intelligence"
	"flightbot/services/tasks"
	"flightbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// newRouter builds the Gin engine. utils.ErrorHandler is the only panic
// recovery in the chain.
func newRouter(cfg config.Config, logger *zap.Logger, hb *handlers.HandlerBundle) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Proxies()); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())

	routes.RegisterRoutes(router, hb, cfg)
	return router, nil
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fulfillmentSvc := &fulfillment.DefaultFulfillmentService{
		Lifespan: cfg.ContextLife,
		Turns:    metrics.TurnsProcessed,
		Logger:   logger,
	}

	// Conversation context store.
	var store conversation.ContextStore
	if cfg.RedisAddr != "" {
		redisClient := utils.GetContextCacheClient()
		defer redisClient.Close()
		store = conversation.NewRedisContextStore(redisClient, cfg.ContextTTL)
		utils.StartHealthMonitor(ctx, redisClient, 60*time.Second)

		// Confirmed bookings go through the async queue into the ledger.
		if cfg.BookingQueueEnabled {
			queueOpts := asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisQueueDB,
			}
			queueClient := asynq.NewClient(queueOpts)
			defer queueClient.Close()
			fulfillmentSvc.Bookings = tasks.NewBookingPublisher(queueClient)

			worker := cron.NewBookingWorker(queueOpts, tasks.NewBookingLedger(redisClient, cfg.BookingLedgerSize), logger)
			if err := worker.Start(); err != nil {
				logger.Sugar().Fatalf("main: %v", err)
			}
			defer worker.Shutdown()
		}
	} else {
		logger.Warn("main: REDIS_ADDR is empty, keeping session contexts in memory")
		store = conversation.NewMemoryContextStore()
	}
	fulfillmentSvc.Store = store

	// NLU provider behind the chat transports.
	var responder intelligence.Responder
	switch cfg.NLUProvider {
	case "gemini":
		gemini, err := intelligence.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini: %v", err)
		}
		defer gemini.Close()
		classifier := intelligence.NewLLMClassifier(gemini, metrics.NLURequests)
		responder = intelligence.NewLocalResponder(classifier, fulfillmentSvc, store, logger)
	case "dialogflow":
		projectID, err := cfg.DialogflowProjectID()
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		df, err := intelligence.NewDialogflowResponder(ctx, projectID, cfg.JSONFilePath, cfg.LanguageCode, metrics.NLURequests)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize dialogflow: %v", err)
		}
		defer df.Close()
		responder = df
	default:
		logger.Sugar().Fatalf("main: unknown NLU_PROVIDER %q", cfg.NLUProvider)
	}

	webhookHandler := handlers.NewWebhookHandler(fulfillmentSvc, cfg.ContextLife)
	chatHandler := handlers.NewChatHandler(responder, cfg.Origins(), metrics.WSConnections)
	sessionHandler := handlers.NewSessionHandler(store)

	handlerBundle := &handlers.HandlerBundle{
		WebhookHandler:    webhookHandler.HandleWebhook,
		ChatWSHandler:     chatHandler.ServeWS,
		GetSessionHandler: sessionHandler.GetSessionHandler,
		HealthHandler:     handlers.HealthHandler,
		MetricsHandler:    gin.WrapH(promhttp.Handler()),
	}

	transcriber, err := intelligence.NewSpeechTranscriber(ctx, cfg.JSONFilePath)
	if err != nil {
		logger.Warn("main: voice chat disabled", zap.Error(err))
	} else {
		defer transcriber.Close()
		voiceHandler := handlers.NewVoiceHandler(transcriber, responder, cfg.LanguageCode)
		handlerBundle.VoiceChatHandler = voiceHandler.VoiceChatHandler
	}

	router, err := newRouter(cfg, logger, handlerBundle)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Server running on %s (nlu=%s)", srv.Addr, cfg.NLUProvider)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown after timeout: %v", err)
		return
	}

	logger.Sugar().Info("main: HTTP server closed")
}

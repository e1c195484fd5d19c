package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"faq-agent/agent"
	"faq-agent/config"
	"faq-agent/corpus"
	"faq-agent/database"
	"faq-agent/llmclient"
	"faq-agent/matcher"
	"faq-agent/rag"
	"faq-agent/session"
	"faq-agent/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	// The event sink and vector persistence are optional: with no database
	// the service still answers, it only re-embeds on boot and logs events
	// locally.
	var store *database.PostgresStore
	if cfg.DatabaseURL != "" {
		store, err = database.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Could not connect to database, continuing without event sink", zap.Error(err))
			store = nil
		} else if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to ensure database schema", zap.Error(err))
		}
	}

	searchCorpus, err := corpus.Load(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	matrix, err := matcher.LoadMatrix(cfg.DataDir + "/product_film_color_matrix.json")
	if err != nil {
		logger.Fatal("Failed to load compatibility matrix", zap.Error(err))
	}

	llm := llmclient.New(cfg, logger)

	retriever, err := rag.New(cfg, searchCorpus, store, llm, logger)
	if err != nil {
		logger.Fatal("Failed to initialize retrieval", zap.Error(err))
	}
	if err := retriever.BuildIndex(ctx); err != nil {
		logger.Fatal("Failed to build corpus index", zap.Error(err))
	}

	sessions := session.NewStore(cfg.SessionTTL, cfg.SessionHistoryMax, nil)
	pfMatcher := matcher.NewMatcher(matrix, cfg.ColorLookupOrder)

	var events agent.EventRecorder
	if store != nil {
		events = store
	}
	answerAgent := agent.NewAgent(cfg, llm, retriever, pfMatcher, sessions, events, logger)

	webServer := web.NewServer(answerAgent, store, logger, cfg)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting FAQ chatbot web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}

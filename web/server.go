package web

import (
	"context"
	"net/http"
	"time"

	"faq-agent/agent"
	"faq-agent/config"
	"faq-agent/database"
	"faq-agent/web/handlers"
	"faq-agent/web/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	agent   *agent.Agent
	store   *database.PostgresStore // may be nil
	logger  *zap.Logger
	config  *config.Config
	limiter *middleware.SessionRateLimiter
}

func NewServer(agent *agent.Agent, store *database.PostgresStore, logger *zap.Logger, config *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	limiter := middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
		MessagesPerMinute: config.RateLimitMessagesPerMin,
		BurstSize:         config.RateLimitBurstSize,
		CleanupInterval:   time.Hour,
	}, logger)

	server := &Server{
		router:  router,
		agent:   agent,
		store:   store,
		logger:  logger,
		config:  config,
		limiter: limiter,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	chatHandler := handlers.NewChatHandler(s.agent, s.logger)

	s.router.GET("/", chatHandler.Home)
	s.router.POST("/chat", middleware.RateLimitMiddleware(s.limiter), chatHandler.Chat)
	s.router.POST("/feedback", chatHandler.Feedback)

	// FAQ-curation endpoints need the suggestion store
	if s.store != nil {
		suggestions := handlers.NewSuggestionsHandler(s.store, s.logger)
		admin := s.router.Group("/admin")
		admin.GET("/suggestions", suggestions.List)
		admin.POST("/suggestions/status", suggestions.UpdateStatus)
	}
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.limiter.Stop()
	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}

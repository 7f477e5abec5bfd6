package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codearena-2025.net/internal/config"
	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/services/challenge"
	"gitlab.com/codearena-2025.net/internal/core/services/relay"
	"gitlab.com/codearena-2025.net/internal/handlers"
	"gitlab.com/codearena-2025.net/internal/handlers/callback"
	"gitlab.com/codearena-2025.net/internal/handlers/challenges"
)

type ServiceProvider struct {
	challengeService challenge.IChallengeService
	relayService     *relay.Relay
	registry         *relay.Registry
}

func NewServiceProvider(
	challengeService challenge.IChallengeService,
	relayService *relay.Relay,
	registry *relay.Registry,
) *ServiceProvider {
	return &ServiceProvider{
		challengeService: challengeService,
		relayService:     relayService,
		registry:         registry,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	cfg             *config.AppConfig
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, cfg *config.AppConfig, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		cfg:             cfg,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.New(s.cfg.JwtConfig.Secret)
	challenges.
		NewChallengeHandler(s.ServiceProvider.challengeService, s.ServiceProvider.registry, s.cfg.StreamConfig, s.logger).
		RegisterRoutes(r, mw)
	callback.
		NewCallbackHandler(s.ServiceProvider.relayService, s.cfg.JudgeConfig.APIKey, s.logger).
		RegisterRoutes(r)
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// WriteTimeout stays 0: subscriptions outlive any sane write timeout,
	// the stream TTL bounds them instead.
	s.srv = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}

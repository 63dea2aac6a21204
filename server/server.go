package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/webhook"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/checkout"
	"github.com/clubsphere/clubsphere/server/database"
)

func New(cfg Config) (*Server, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	var webhookClient webhook.Client
	if cfg.Notifications.Enabled {
		webhookClient, err = webhook.NewWithURL(cfg.Notifications.WebhookURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook client: %w", err)
		}
	}

	return &Server{
		Cfg:           cfg,
		DB:            db,
		Auth:          auth.New(cfg.Auth, httpClient),
		Checkout:      checkout.New(cfg.Checkout, httpClient),
		HTTPClient:    httpClient,
		webhookClient: webhookClient,
	}, nil
}

type Server struct {
	Cfg        Config
	DB         Store
	Auth       *auth.Verifier
	Checkout   *checkout.Client
	HTTPClient *http.Client

	server        *http.Server
	webhookClient webhook.Client
}

func (s *Server) Start(handler http.Handler) {
	s.server = &http.Server{
		Addr:    s.Cfg.Server.Addr,
		Handler: handler,
	}

	go s.expireMemberships()

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", slog.Any("err", err))
	}

	if db, ok := s.DB.(*database.Database); ok {
		_ = db.Close()
	}
}

// Package server wires the application together and configures the HTTP
// server.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"tmt/internal/auth"
	"tmt/internal/database"
	"tmt/internal/email"
	"tmt/internal/session"
	"tmt/internal/tabs"
	"tmt/internal/tags"
	"tmt/internal/token"
	"tmt/internal/users"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	db       database.Service
	codec    *token.Codec
	sessions session.Manager
	logger   *slog.Logger

	authHandler  *auth.Handler
	usersHandler *users.Handler
	tabsHandler  *tabs.Handler
	tagsHandler  *tags.Handler
}

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	return &Config{
		Port:         port,
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// New builds all services and handlers around the given database and returns
// a configured HTTP server. The signing key comes from JWT_SECRET and is
// required.
func New(db database.Service, logger *slog.Logger) (*http.Server, error) {
	cfg := LoadConfigFromEnv()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	codec := token.NewCodec([]byte(secret))

	mailer := email.NewSender(email.NewConfig())
	sessions := session.NewManager(db)
	userService := users.NewService(db, mailer, logger)
	tabService := tabs.NewService(tabs.NewRepository(db))
	tagService := tags.NewService(tags.NewRepository(db))

	appServer := &Server{
		db:       db,
		codec:    codec,
		sessions: sessions,
		logger:   logger,

		authHandler:  auth.NewHandler(userService, sessions, codec, logger),
		usersHandler: users.NewHandler(userService, logger),
		tabsHandler:  tabs.NewHandler(tabService, logger),
		tagsHandler:  tags.NewHandler(tagService, logger),
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           appServer.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Info("http server configured", "port", cfg.Port)
	return server, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"tmt/internal/database"
	"tmt/internal/logger"
	"tmt/internal/server"
)

func main() {
	lgr := logger.New()
	slog.SetDefault(lgr)

	db := database.New()
	lgr.Info("connected to database")

	srv, err := server.New(db, lgr)
	if err != nil {
		lgr.Error("failed to configure server", "error", err)
		os.Exit(1)
	}

	go func() {
		lgr.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lgr.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lgr.Error("forced shutdown", "error", err)
	}

	if err := db.Close(); err != nil {
		lgr.Error("failed to close database", "error", err)
	}

	lgr.Info("stopped")
}

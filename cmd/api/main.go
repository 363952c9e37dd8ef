package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nathyb/qa-forum/backend/internal/config"
	"github.com/nathyb/qa-forum/backend/internal/database"
	"github.com/nathyb/qa-forum/backend/internal/server"
)

func main() {
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	// Schema bootstrap over a raw connection, then the GORM service.
	bootstrap, err := database.NewDatabase(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := bootstrap.Initialize(); err != nil {
		log.WithError(err).Fatal("failed to initialize schema")
	}
	if err := bootstrap.Close(); err != nil {
		log.WithError(err).Warn("failed to close bootstrap connection")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open database service")
	}
	defer db.Close()

	srv := server.NewServer(cfg, db)

	go func() {
		log.Infof("server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("received signal %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}

	log.Info("server stopped")
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
}

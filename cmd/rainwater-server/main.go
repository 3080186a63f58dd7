// Package main runs the rainwater HTTP service.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/R3E-Network/rainwater/internal/config"
	"github.com/R3E-Network/rainwater/internal/logging"
	"github.com/R3E-Network/rainwater/internal/metrics"
	rainwatersvc "github.com/R3E-Network/rainwater/services/rainwater"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML configuration file")
	envFile := flag.String("env", ".env", "Optional .env file loaded before the environment is read")
	flag.Parse()

	boot := logging.NewDefault(rainwatersvc.ServiceID)

	if err := config.LoadDotEnv(*envFile); err != nil {
		boot.WithError(err).Fatal("Failed to load env file")
	}
	cfg, err := config.LoadFromPath(*configPath)
	if err != nil {
		boot.WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.New(rainwatersvc.ServiceID, cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := rainwatersvc.New(rainwatersvc.Config{
		Settings: cfg,
		Logger:   log,
		Metrics:  metrics.New(true),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create service")
	}
	if err := svc.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start service")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      svc.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Rainwater service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.WithField("signal", sig.String()).Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
	if err := svc.Stop(); err != nil {
		log.WithError(err).Error("Service stop error")
	}

	log.Info("Service stopped")
}

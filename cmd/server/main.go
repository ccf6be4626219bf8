package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitrade/tradesync/internal/server"
	"github.com/pitrade/tradesync/pkg/config"
	"github.com/pitrade/tradesync/pkg/logger"
)

var (
	configPath = flag.String("config", "", "path to config file (YAML)")
	listen     = flag.String("listen", "", "listen address, overrides config")
	logLevel   = flag.String("log-level", "", "log level, overrides config")
)

func main() {
	flag.Parse()

	// A missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	srv := server.New(cfg.Server)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Router(),
	}

	go func() {
		logger.Infof("tradesync server listening on %s", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server: %v", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Infof("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := srv.Close(); err != nil {
		logger.Warnf("server close: %v", err)
	}
	logger.Infof("bye")
}

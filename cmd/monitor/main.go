package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitrade/tradesync/pkg/config"
	"github.com/pitrade/tradesync/pkg/logger"
	"github.com/pitrade/tradesync/pkg/sdk/push"
	"github.com/pitrade/tradesync/pkg/sdk/rest"
	"github.com/pitrade/tradesync/pkg/sdk/rest/tokenstore"
	syncstore "github.com/pitrade/tradesync/pkg/sdk/sync"
)

var (
	configPath = flag.String("config", "", "path to config file (YAML)")
	userID     = flag.String("user", "1", "user identity to follow")
	period     = flag.String("period", "7d", "stats period")
	token      = flag.String("token", "", "bearer token; persisted for later runs")
	interval   = flag.Duration("interval", 5*time.Second, "snapshot print interval")
	verbose    = flag.Bool("verbose", false, "debug logging")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Log.OutputFile = ""
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ts, err := tokenstore.Open(tokenstore.Options{Path: cfg.Client.TokenStorePath})
	if err != nil {
		log.Fatalf("open token store: %v", err)
	}
	defer ts.Close()

	session := rest.NewSession(ts)
	if *token != "" {
		if err := session.SetToken(*token); err != nil {
			logger.Warnf("persist token: %v", err)
		}
	}
	if session.Token() == "" {
		log.Fatalf("no bearer token: pass -token once, it is stored in %s", cfg.Client.TokenStorePath)
	}

	api := rest.NewClient(cfg.Client.APIBaseURL, session)
	pushClient := push.NewClient(cfg.Client.PushBaseURL, push.DefaultConfig())

	store := syncstore.New(api, pushClient, *userID, *period)
	defer store.Close()

	fmt.Printf("watching user %s (period %s) against %s\n", *userID, *period, cfg.Client.APIBaseURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			fmt.Println("\nbye")
			return
		case <-ticker.C:
			printSnapshot(store.Snapshot())
		}
	}
}

func printSnapshot(st syncstore.State) {
	if st.Loading {
		fmt.Println("loading...")
		return
	}
	if st.Err != "" {
		fmt.Printf("error: %s\n", st.Err)
		return
	}
	fmt.Printf("---- %s ----\n", time.Now().Format("15:04:05"))
	if st.Stats != nil {
		fmt.Printf("portfolio %.2f %s | today %+.2f | trades %d | win %.1f%%\n",
			st.Stats.PortfolioValue, st.Stats.Currency, st.Stats.TodaysPnL,
			st.Stats.TotalTrades, st.Stats.WinRate)
	}
	for i, tr := range st.Trades {
		if i >= 3 {
			fmt.Printf("  ... %d more trades\n", len(st.Trades)-i)
			break
		}
		fmt.Printf("  %s %s %s %s %+.2f (%s)\n", tr.ID, tr.Type, tr.Pair, tr.Size, tr.Profit, tr.Status)
	}
	for i, n := range st.News {
		if i >= 2 {
			break
		}
		fmt.Printf("  news: [%s] %s\n", n.Impact, n.Title)
	}
	if len(st.Notifications) > 0 {
		fmt.Printf("  %d notification(s), latest: %s\n", len(st.Notifications), st.Notifications[0].Title)
	}
}

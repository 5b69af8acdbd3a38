package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/jmtrs/BM-telegram-price-tracker/config"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/bot"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/checker"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/database"
	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error initialising database: %v", err)
	}
	defer db.Close()

	api, err := bot.Init(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Error initialising Telegram bot: %v", err)
	}

	transport := scraper.NewTransport(&http.Client{}, cfg.ScraperAPIKey, cfg.ScraperMaxCost)
	fetcher := scraper.NewFetcher(transport, cfg.MaxRetries, cfg.RetryDelay, cfg.FetchTimeout)
	sc := scraper.New(db, fetcher, cfg.ScrapeTTL)

	chk := checker.New(db, sc, bot.NewTelegramNotifier(api), checker.Config{
		Interval:            cfg.CheckInterval,
		Cooldown:            cfg.NotifyCooldown,
		AlertDelay:          cfg.AlertDelay,
		CacheRetention:      cfg.CacheRetention,
		ClearPriceOnFailure: cfg.ClearPriceOnFailure,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chk.Run(ctx)
		return nil
	})
	g.Go(func() error {
		bot.RunCommands(ctx, api, db, sc)
		return nil
	})

	log.Println("🤖 Bot started")
	if err := g.Wait(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("🤖 Bot stopped")
}

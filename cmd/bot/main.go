package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"lease-recert-bot/internal"
	"lease-recert-bot/internal/bot"
	"lease-recert-bot/internal/config"
	"lease-recert-bot/internal/dialogue"
	"lease-recert-bot/internal/notify"
	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/store/db"
	"lease-recert-bot/internal/sweeper"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDriver(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	st := store.New(driver)
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	telegram := notify.NewTelegram(cfg.BotToken)
	sessions := dialogue.NewMemorySessionStore(cfg.SessionTTL)
	engine := dialogue.New(st, sessions)
	router := bot.New(telegram, engine, st)

	metrics := internal.NewMetrics()
	sweep := sweeper.New(st, telegram, cfg.TeamChatID, cfg.ReminderHour, cfg.ReminderMinute,
		sweeper.NewMetrics(metrics.Registry()))

	srv := internal.NewServer(st, sweep, metrics, cfg)
	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Router}

	go sweep.Run(ctx)
	go router.Run(ctx)
	go func() {
		log.Printf("Admin API listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Admin API failed: %v", err)
		}
	}()

	log.Println("Bot is running...")
	<-ctx.Done()

	log.Println("Shutting down...")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		log.Printf("Admin API shutdown: %v", err)
	}
}

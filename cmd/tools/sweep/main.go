// sweep runs a single reminder sweep and exits. Meant for cron setups that
// prefer an external scheduler over the bot's built-in daily timer.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"lease-recert-bot/internal/config"
	"lease-recert-bot/internal/dates"
	"lease-recert-bot/internal/notify"
	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/store/db"
	"lease-recert-bot/internal/sweeper"

	"github.com/joho/godotenv"
)

func main() {
	date := flag.String("date", "", "Sweep as-of this date (MM/DD/YYYY, default: today)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	driver, err := db.NewDriver(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	st := store.New(driver)
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	sweep := sweeper.New(st, notify.NewTelegram(cfg.BotToken), cfg.TeamChatID,
		cfg.ReminderHour, cfg.ReminderMinute, nil)

	if *date != "" {
		asOf, err := time.Parse(dates.Layout, *date)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
		sweep.SetNow(func() time.Time { return asOf })
	}

	if err := sweep.RunOnce(ctx); err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
}

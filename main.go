package main

import (
	"context"
	"fmt"
	"os"

	"shop-telegram/bot"
	"shop-telegram/config"
	"shop-telegram/db"
	"shop-telegram/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if autoMigrateEnabled() {
		if _, err := applyMigrations(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	b, err := bot.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	// Web app API (cart sync, order placement); ADDR="" disables it.
	if cfg.Server.Addr != "" {
		srv := web.New(cfg, b)
		go func() {
			if err := srv.Run(); err != nil {
				fmt.Fprintln(os.Stderr, "web:", err)
				os.Exit(1)
			}
		}()
		fmt.Println("Web server started on", cfg.Server.Addr)
	}

	fmt.Println("Bot started.")
	b.Start()
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	n, err := applyMigrations(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Println("Applied", n, "migration(s).")
}

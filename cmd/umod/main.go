package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phunanon/uMod-sub000/internal/config"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/features"
	"github.com/phunanon/uMod-sub000/internal/storage"
	v "github.com/phunanon/uMod-sub000/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %s %s...", v.AppName, v.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	registry, err := features.NewRegistry()
	if err != nil {
		log.Fatal(err)
	}

	bot := discord.NewBot(cfg, store, registry)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Printf("[INFO] %s exited cleanly", v.AppName)
}

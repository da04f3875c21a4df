package main

import (
	"clapshot/internal/config"
	"clapshot/internal/terminal"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	manifest, err := cfg.Assets()
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to a file.
	logPath := filepath.Join(os.TempDir(), "clapshot-term.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	tty, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := tty.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}

	cab, err := terminal.NewCabinet(tty, terminal.Options{
		Game:   cfg.Game(),
		Seed:   cfg.Seed,
		Assets: manifest,
		MicWAV: cfg.MicWAV,
	})
	if err != nil {
		tty.Fini()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cab.Run(ctx, cfg.Frame())
	tty.Fini()

	snap := cab.Game.Snapshot()
	tally := cab.Tally.Tally()
	fmt.Printf("score %d, hits %d, friendly hits %d, accuracy %.0f%% (seed %d)\n",
		snap.Score, tally.HostileHits, tally.FriendlyHits, tally.Accuracy, cab.Seed)
	return nil
}

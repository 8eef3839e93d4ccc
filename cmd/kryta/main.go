package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/kryta/internal/api"
	"github.com/aristath/kryta/internal/config"
	"github.com/aristath/kryta/internal/events"
	"github.com/aristath/kryta/internal/store"
	"github.com/aristath/kryta/internal/tui"
	"github.com/aristath/kryta/internal/verify"
)

func main() {
	// Create signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	globalPath, err := config.GlobalPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
		os.Exit(1)
	}
	projectPath := config.ProjectPath()

	// Open the local cache. The backend stays authoritative; the cache only
	// keeps the views alive while offline, so failing to open it is not
	// fatal.
	var cache store.Store
	dbPath, err := config.DefaultDBPath(cfg)
	if err == nil {
		if s, dbErr := store.NewSQLiteStore(ctx, dbPath); dbErr != nil {
			log.Printf("Local cache unavailable: %v", dbErr)
		} else {
			cache = s
			defer s.Close()
		}
	}

	// Create event bus
	bus := events.NewBus()
	defer bus.Close()

	// Backend client and the verification gate in front of it
	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
	gate := verify.NewGate(client, cache, bus)

	// Create TUI model
	model := tui.New(client, gate, cache, bus, cfg, globalPath, projectPath)

	// Start Bubble Tea program in a goroutine so main can handle shutdown
	p := tea.NewProgram(model, tea.WithAltScreen())

	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	// Handle shutdown
	select {
	case err := <-errChan:
		// Normal TUI exit (user pressed 'q' or TUI finished)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		// Signal received (Ctrl+C or SIGTERM)
		// Call stop() to restore default signal handling (double Ctrl+C = force exit)
		stop()

		log.Println("Shutdown signal received, cleaning up...")
		p.Quit()

		// Wait for TUI to exit with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		select {
		case err := <-errChan:
			if err != nil {
				log.Printf("TUI exit error: %v", err)
			}
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded, forcing exit")
		}
	}
}

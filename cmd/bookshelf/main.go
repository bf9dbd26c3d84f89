package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/bookshelfdev/bookshelf/internal/catalog"
	"github.com/bookshelfdev/bookshelf/internal/config"
	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/library"
	"github.com/bookshelfdev/bookshelf/internal/log"
	"github.com/bookshelfdev/bookshelf/internal/store"
	"github.com/bookshelfdev/bookshelf/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("bookshelf %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting bookshelf", "version", Version)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("bookshelf must be run in a terminal")
	}

	st, err := store.Open(cfg.Storage.Dir, cfg.History.FoldCase, logger)
	if err != nil {
		return fmt.Errorf("failed to open library store: %w", err)
	}
	defer st.Close()

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, logger)
	svc := library.NewService(client, st, logger)

	if !svc.HasSession() {
		if err := runSetupFlow(svc); err != nil {
			return err
		}
		// Write the config file on first run so there is something to
		// edit, as the setup flow leaves it at defaults.
		if err := config.SaveConfig(cfg); err != nil {
			logger.Warn("failed to write config file", "error", err)
		}
	}

	model := tui.NewModel(svc)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow creates the local profile on first run.
func runSetupFlow(svc *library.Service) error {
	fmt.Println()
	fmt.Println("Welcome to Bookshelf!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var name string
	for {
		fmt.Print("What should we call you? ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		name = strings.TrimSpace(input)
		if name != "" {
			break
		}
		fmt.Println("Name cannot be empty. Please try again.")
	}

	fmt.Print("Email (optional): ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := svc.SaveProfile(domain.Profile{
		Name:  name,
		Email: strings.TrimSpace(email),
	}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Welcome aboard, %s!\n", name)
	fmt.Println()
	return nil
}

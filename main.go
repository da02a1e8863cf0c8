package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liftlio/advocate/internal/app"
	"github.com/liftlio/advocate/internal/assist"
	"github.com/liftlio/advocate/internal/backend"
	"github.com/liftlio/advocate/internal/credential"
	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/project"
	"github.com/liftlio/advocate/internal/store"
)

func main() {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	backendURL := os.Getenv("ADVOCATE_BACKEND_URL")
	if backendURL == "" {
		backendURL = cfg.Backend.URL
	}
	if backendURL == "" {
		fmt.Fprintln(os.Stderr, "error: no backend URL configured (set backend.url in config or ADVOCATE_BACKEND_URL)")
		os.Exit(1)
	}

	apiKey, err := loadAPIKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	userEmail := os.Getenv("ADVOCATE_USER_EMAIL")
	if userEmail == "" {
		fmt.Fprintln(os.Stderr, "error: ADVOCATE_USER_EMAIL is not set")
		os.Exit(1)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	client := backend.NewClient(backendURL, apiKey)

	root := app.New(app.Deps{
		Config:   cfg,
		Backend:  client,
		Store:    s,
		Projects: project.NewService(client, s, userEmail),
		Assist:   assist.New(client),
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadAPIKey reads the backend API key from the credential vault, with
// an environment override for CI and first-run setups. A key provided
// via the environment is stored for next time.
func loadAPIKey() (string, error) {
	vault, vaultErr := credential.Open()

	if key := os.Getenv("ADVOCATE_API_KEY"); key != "" {
		if vaultErr == nil {
			// Best effort; the env var still works if the vault does not.
			_ = vault.SetBackendAPIKey(key)
		}
		return key, nil
	}

	if vaultErr != nil {
		return "", fmt.Errorf("no API key: keyring unavailable, set ADVOCATE_API_KEY (%v)", vaultErr)
	}
	key, err := vault.BackendAPIKey()
	if errors.Is(err, credential.ErrNotFound) {
		return "", fmt.Errorf("no API key stored: set ADVOCATE_API_KEY once to store it")
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// clinic runs the terminal intake client: a guided Q&A session that
// collects a medical history and hands a confirmed summary to the
// report view.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Hcrab/clinicAI/internal/app"
	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/config"
	"github.com/Hcrab/clinicAI/internal/store"
)

func main() {
	// .env is optional for the client; flags override the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	backendURL := flag.String("backend", cfg.BackendURL, "intake backend base URL")
	storePath := flag.String("store", cfg.StorePath, "session store path")
	flag.Parse()

	path := *storePath
	if path == "" {
		path = store.DefaultPath()
	}

	model := app.New(backend.NewClient(*backendURL), path)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/sahaza2shakya/PDFchat-app/internal/client"
	"github.com/sahaza2shakya/PDFchat-app/internal/config"
	"github.com/sahaza2shakya/PDFchat-app/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	api := client.NewAPI(
		cfg.Client.BaseURL,
		time.Duration(cfg.Client.RequestTimeoutSeconds)*time.Second,
		time.Duration(cfg.Client.UploadTimeoutSeconds)*time.Second,
	)
	ctrl := client.NewController(api)

	program := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat ui failed: %v\n", err)
		os.Exit(1)
	}
}

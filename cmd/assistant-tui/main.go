package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"legal-assistant/internal/tui"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8000", "Base URL of the Legal Assistant API")
	flag.Parse()

	client := tui.NewClient(*apiURL)
	m := tui.New(client)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

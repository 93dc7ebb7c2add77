package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"CasaLinkAPI/internal/apiclient"
	"CasaLinkAPI/internal/inbox"
)

func main() {
	apiURL := flag.String("api", "http://localhost:3000", "inbox API base URL")
	token := flag.String("token", os.Getenv("CASALINK_TOKEN"), "bearer token for the inbox API")
	link := flag.String("link", "", "deep link query, e.g. \"tab=property&thread=abc\"")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "missing token: pass -token or set CASALINK_TOKEN")
		os.Exit(1)
	}

	values, err := url.ParseQuery(*link)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -link value: %v\n", err)
		os.Exit(1)
	}

	client := apiclient.New(*apiURL, *token, 10*time.Second)
	model := NewModel(client, inbox.NewURLNavigator(values))

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "inboxtui: %v\n", err)
		os.Exit(1)
	}
}

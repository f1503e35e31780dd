package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/config"
	"moltbook/internal/cli/logging"
	"moltbook/internal/cli/mcptools"
	"moltbook/internal/cli/moltbook"
)

func main() {
	fs := pflag.NewFlagSet("moltbook-mcp", pflag.ContinueOnError)
	debug := fs.Bool("debug", false, "log HTTP traffic to stderr")
	apiURL := fs.String("api-url", "", "API base URL (default $MOLTBOOK_API_URL or the public API)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	config.LoadDotenv()
	log := logging.New(os.Stderr, *debug)
	creds, err := config.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	baseURL := config.BaseURL()
	if *apiURL != "" {
		baseURL = *apiURL
	}

	api := moltbook.New(client.New(baseURL, creds.APIKey, client.WithLogger(log)))
	server := mcptools.NewServer(api, client.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info("serving on stdio", "agent", creds.AgentName, "base_url", baseURL)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("mcp server stopped", "err", err)
		stop()
		os.Exit(1)
	}
}

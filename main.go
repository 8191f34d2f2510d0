package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/no-memory/hsbc-homework/internal/app"
)

type Globals struct {
	Config string `help:"Path to the YAML config file." env:"TXLEDGER_CONFIG" type:"path"`
}

// configPath falls back to the container path, or the repo copy when LOCAL=true.
func (g Globals) configPath() string {
	if g.Config != "" {
		return g.Config
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

type serveCmd struct {
	ShutdownTimeout time.Duration `help:"Time allowed for graceful shutdown." default:"10s"`
}

func (c *serveCmd) Run(g *Globals) error {
	application := app.New(g.configPath()) // Initialize the application
	wait := application.Start()            // Start the application and wait for the termination signal
	<-wait                                 // Wait for the application to receive a termination signal

	// The shutdown budget starts once the signal arrives.
	ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully

	return nil
}

var cli struct {
	Globals `embed:""`

	Serve serveCmd `cmd:"" default:"1" help:"Run the HTTP server."`
	Bench benchCmd `cmd:"" help:"Hammer an in-process ledger with concurrent writers and readers."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("txledger"),
		kong.Description("In-memory transaction ledger."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"shipment-emissions-service/internal/app"
	"shipment-emissions-service/internal/config"
)

// main is the HTTP composition root. Configuration comes from the file named
// by EMISSIONS_CONFIG (optional) plus EMISSIONS_* overrides.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.Get("EMISSIONS_CONFIG", ""))
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("shutdown")
		}
	}()

	return a.Serve(ctx)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"hookchat/internal/chat"
	"hookchat/internal/config"
	"hookchat/internal/telemetry"
)

func main() {
	cfg := config.Default()

	flag.StringVar(&cfg.WebhookURL, "webhook-url", cfg.WebhookURL, "Chat submission endpoint")
	flag.StringVar(&cfg.StatusURL, "status-url", cfg.StatusURL, "Job status endpoint")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Delay between status checks for a deferred reply")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	logger, err := telemetry.InitLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting hookchat",
		"webhook_url", cfg.WebhookURL,
		"status_url", cfg.StatusURL,
	)

	bot := chat.New(cfg, logger, tracer, meter)
	err = bot.Run(ctx)

	stop()
	cleanup()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

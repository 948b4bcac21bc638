// persona runs AI personalities stored as markdown notes against other notes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	// API keys may come from a .env file next to the vault
	_ "github.com/joho/godotenv/autoload"

	"github.com/alecthomas/kong"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func setupLogging(level slog.Level) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("persona"),
		kong.Description("Run AI personalities against markdown notes"),
		kong.UsageOnError(),
		kong.Vars(Vars()),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	setupLogging(cli.LogLevel.Level())

	err := kctx.Run(&cli)
	if flushErr := cli.Close(); flushErr != nil {
		log.Error().Err(flushErr).Msg("failed to write metrics")
	}
	kctx.FatalIfErrorf(err)
}

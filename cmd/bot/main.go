package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netpong/internal/client"
	"netpong/internal/config"
	"netpong/internal/names"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to a JSON or YAML configuration file")
	url := flag.String("url", "", "game server WebSocket URL, overrides bot.url")
	name := flag.String("name", "", "player name, a random one is picked when empty")
	rematch := flag.Bool("rematch", false, "ask for a restart after each game")
	flag.Parse()

	config.LoadConfig(*configPath)
	cfg := config.Config
	logger := cfg.Logger()
	slog.SetDefault(logger)

	if *url != "" {
		cfg.Bot.URL = *url
	}

	var seats []int
	if cfg.Players.Player1IsAI {
		seats = append(seats, 1)
	}
	if cfg.Players.Player2IsAI {
		seats = append(seats, 2)
	}

	playerName := *name
	if playerName == "" {
		playerName = botName(cfg, seats)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, codec, err := client.Dial(ctx, cfg.Bot.URL, cfg.Bot.Codec)
	if err != nil {
		logger.Error("could not connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	logger.Info("connected",
		slog.String("url", cfg.Bot.URL),
		slog.String("codec", codec.Subprotocol()),
		slog.String("name", playerName))

	bot := client.NewBot(client.Options{
		Name:           playerName,
		AISeats:        seats,
		UpdateInterval: time.Duration(cfg.Bot.AIUpdateInterval) * time.Millisecond,
		Tolerance:      cfg.Bot.Tolerance,
		Rematch:        *rematch,
		Logger:         logger,
	})
	if err := bot.Run(ctx, conn, codec); err != nil {
		logger.Error("bot stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// botName picks the configured name of the single AI seat, or a generated
// one.
func botName(cfg config.Configuration, seats []int) string {
	if len(seats) == 1 {
		n := cfg.Players.Player1
		if seats[0] == 2 {
			n = cfg.Players.Player2
		}
		if n != "" {
			return n
		}
	}
	return names.Default(0).Name()
}

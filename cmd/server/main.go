package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netpong/internal/clock"
	"netpong/internal/config"
	"netpong/internal/lobby"
	"netpong/internal/names"
	"netpong/internal/netwrk"
	"netpong/internal/room"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to a JSON or YAML config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	flag.Parse()

	config.LoadConfig(*configPath)
	cfg := config.Config
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	registry := lobby.NewRegistry(room.Options{
		Scheduler: clock.Ticker{},
		TickRate:  cfg.Server.TickRate,
	}, logger)
	l := lobby.New(registry, names.Default(uint64(time.Now().UnixNano())), logger)
	ws := netwrk.NewServer(l, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/", ws.ServeWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			lobby.Stats
			Connections int `json:"connections"`
		}{registry.Stats(), ws.Count()})
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go logStats(ctx, registry, logger)

	go func() {
		logger.Info("starting pong server", slog.String("addr", cfg.Server.Addr), slog.Int("tick_rate", cfg.Server.TickRate))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
	ws.Close()
	registry.Close()
	logger.Info("server stopped")
}

func logStats(ctx context.Context, registry *lobby.Registry, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := registry.Stats()
			logger.Debug("lobby stats",
				slog.Int("rooms", s.Rooms),
				slog.Int("participants", s.Participants),
				slog.Any("by_status", s.ByStatus))
		}
	}
}

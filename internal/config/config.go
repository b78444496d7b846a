package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.json"

var Config Configuration

type Configuration struct {
	LogLevel  string        `json:"logLevel" yaml:"logLevel"`
	LogFormat string        `json:"logFormat" yaml:"logFormat"`
	Server    ServerConfig  `json:"server" yaml:"server"`
	Players   PlayersConfig `json:"players" yaml:"players"`
	Bot       BotConfig     `json:"bot" yaml:"bot"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// TickRate is the simulation frequency in Hz.
	TickRate int `json:"tickRate" yaml:"tickRate"`
}

// PlayersConfig names the players and says which seats a synthetic
// opponent may take.
type PlayersConfig struct {
	Player1     string `json:"player1" yaml:"player1"`
	Player2     string `json:"player2" yaml:"player2"`
	Player1IsAI bool   `json:"player1IsAI" yaml:"player1IsAI"`
	Player2IsAI bool   `json:"player2IsAI" yaml:"player2IsAI"`
}

type BotConfig struct {
	URL   string `json:"url" yaml:"url"`
	Codec string `json:"codec" yaml:"codec"`
	// AIUpdateInterval is how often, in milliseconds, the bot re-predicts
	// the ball.
	AIUpdateInterval int     `json:"aiUpdateInterval" yaml:"aiUpdateInterval"`
	Tolerance        float64 `json:"tolerance" yaml:"tolerance"`
}

func Default() Configuration {
	return Configuration{
		LogLevel:  "info",
		LogFormat: "text",
		Server: ServerConfig{
			Addr:     ":8080",
			TickRate: 60,
		},
		Bot: BotConfig{
			URL:              "ws://localhost:8080/ws",
			Codec:            "pong.json",
			AIUpdateInterval: 1000,
		},
	}
}

// Load reads the configuration at path on top of the defaults. Files ending
// in .yaml or .yml are parsed as YAML, anything else as JSON. On error the
// defaults are returned along with it.
func Load(path string) (Configuration, error) {
	c := Default()
	if path == "" {
		path = DefaultPath
	}

	cf, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("open config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(cf, &c)
	default:
		err = json.Unmarshal(cf, &c)
	}
	if err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// LoadConfig loads path into Config, falling back to the defaults when the
// file is missing or unreadable.
func LoadConfig(path string) {
	c, err := Load(path)
	if err != nil {
		slog.Info("failed to read configuration, using default config instead", slog.Any("error", err))
	}
	Config = c
}

func (c Configuration) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger builds a logger from the level and format settings.
func (c Configuration) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var h slog.Handler
	if strings.EqualFold(c.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

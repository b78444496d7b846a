// Package lobby is the entry point for participant messages: it matches
// participants to rooms and forwards gameplay messages to the right room.
package lobby

import (
	"errors"
	"log/slog"
	"strings"

	"netpong/internal/names"
	"netpong/internal/netwrk"
)

// Lobby implements netwrk.Handler.
type Lobby struct {
	registry *Registry
	names    *names.Generator
	logger   *slog.Logger
}

var _ netwrk.Handler = (*Lobby)(nil)

func New(registry *Registry, gen *names.Generator, logger *slog.Logger) *Lobby {
	return &Lobby{
		registry: registry,
		names:    gen,
		logger:   logger,
	}
}

// HandleMessage dispatches one decoded message. Gameplay messages from a
// participant that is not seated anywhere are dropped.
func (l *Lobby) HandleMessage(p netwrk.Participant, m netwrk.Message) {
	switch m.Type {
	case netwrk.TypeJoin:
		j, _ := m.Data.(netwrk.Join)
		l.join(p, j.PlayerName)

	case netwrk.TypePaddleMove:
		r, seat, ok := l.registry.Route(p)
		if !ok {
			return
		}
		mv, _ := m.Data.(netwrk.PaddleMove)
		if err := r.SetIntent(seat, bool(mv.GoUp), bool(mv.GoDown)); err != nil {
			l.logger.Debug("paddle move dropped", slog.String("participant", p.ID()), slog.Any("error", err))
		}

	case netwrk.TypeReady:
		r, seat, ok := l.registry.Route(p)
		if !ok {
			return
		}
		r.Ready(seat)

	case netwrk.TypeRestart:
		r, _, ok := l.registry.Route(p)
		if !ok {
			return
		}
		r.Restart()
		l.logger.Info("game restarted", slog.String("room_id", r.ID))
	}
}

// Disconnect runs the leave path for a participant whose transport closed.
func (l *Lobby) Disconnect(p netwrk.Participant) {
	l.registry.Leave(p)
}

func (l *Lobby) join(p netwrk.Participant, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = l.names.Name()
	}

	roomID, seat, err := l.registry.Join(p, name)
	if errors.Is(err, ErrFull) {
		p.Send(netwrk.NewGameFull())
		return
	}
	if err != nil {
		l.logger.Error("join failed", slog.String("participant", p.ID()), slog.Any("error", err))
		return
	}
	l.logger.Info("player joined",
		slog.String("participant", p.ID()),
		slog.String("name", name),
		slog.String("room_id", roomID),
		slog.Int("seat", seat))
}

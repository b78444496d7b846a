// Package client is a headless synthetic opponent. It joins a game over a
// WebSocket and steers its paddle with the trajectory predictor.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"netpong/internal/netwrk"
	"netpong/internal/pong"
)

var (
	ErrGameFull       = errors.New("game room is full")
	ErrSeatNotAllowed = errors.New("assigned seat is not AI controlled")
)

type Options struct {
	Name string
	// AISeats lists the seat numbers the bot may play. Empty means any.
	AISeats        []int
	UpdateInterval time.Duration
	Tolerance      float64
	// Rematch sends a restart after every finished game.
	Rematch bool
	Now     func() time.Time
	Logger  *slog.Logger
}

type Bot struct {
	opts   Options
	logger *slog.Logger

	seat     pong.Seat
	seated   bool
	opponent *pong.Opponent
	goUp     bool
	goDown   bool
}

func NewBot(opts Options) *Bot {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = pong.DefaultTolerance
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = time.Second
	}
	return &Bot{opts: opts, logger: opts.Logger}
}

// Seat reports the seat the bot was given, if any.
func (b *Bot) Seat() (pong.Seat, bool) {
	return b.seat, b.seated
}

// Handle reacts to one server message and returns the messages to send back.
func (b *Bot) Handle(m netwrk.Message) ([]netwrk.Message, error) {
	switch m.Type {
	case netwrk.TypePlayerAssigned:
		pa, _ := m.Data.(netwrk.PlayerAssigned)
		seat, ok := pong.SeatFromNumber(pa.PlayerID)
		if !ok {
			return nil, fmt.Errorf("unexpected seat %d", pa.PlayerID)
		}
		if !b.allowed(pa.PlayerID) {
			return nil, fmt.Errorf("seat %d: %w", pa.PlayerID, ErrSeatNotAllowed)
		}
		b.seat, b.seated = seat, true
		b.opponent = pong.NewOpponent(seat, b.opts.UpdateInterval, b.opts.Tolerance)
		b.logger.Info("assigned", slog.Int("seat", pa.PlayerID), slog.String("room_id", pa.RoomID))
		return []netwrk.Message{ReadyMessage()}, nil

	case netwrk.TypeGameState:
		if !b.seated {
			return nil, nil
		}
		snap, _ := m.Data.(pong.Snapshot)
		up, down := false, false
		if snap.GameStatus == "playing" {
			up, down = b.opponent.Update(b.opts.Now(), snap.Ball.ToBall(), snap.Player(b.seat).Y)
		}
		if up == b.goUp && down == b.goDown {
			return nil, nil
		}
		b.goUp, b.goDown = up, down
		return []netwrk.Message{PaddleMoveMessage(up, down)}, nil

	case netwrk.TypeCountdown:
		cd, _ := m.Data.(netwrk.Countdown)
		b.logger.Debug("countdown", slog.Int("value", cd.Value))

	case netwrk.TypeGameEnd:
		ge, _ := m.Data.(netwrk.GameEnd)
		b.logger.Info("game over", slog.String("winner", ge.Winner))
		if b.opts.Rematch {
			return []netwrk.Message{RestartMessage()}, nil
		}

	case netwrk.TypeGameFull:
		return nil, ErrGameFull
	}
	return nil, nil
}

func (b *Bot) allowed(seat int) bool {
	if len(b.opts.AISeats) == 0 {
		return true
	}
	for _, s := range b.opts.AISeats {
		if s == seat {
			return true
		}
	}
	return false
}

// Dial connects to a game server, asking for the given codec subprotocol.
func Dial(ctx context.Context, url, subprotocol string) (*websocket.Conn, netwrk.Codec, error) {
	d := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{subprotocol},
	}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, netwrk.CodecFor(conn.Subprotocol()), nil
}

// Run joins a game on conn and plays until ctx is cancelled, the connection
// drops or Handle returns an error.
func (b *Bot) Run(ctx context.Context, conn *websocket.Conn, codec netwrk.Codec) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	send := func(m netwrk.Message) error {
		bs, err := codec.Encode(m)
		if err != nil {
			return err
		}
		return conn.WriteMessage(codec.FrameType(), bs)
	}

	if err := send(JoinMessage(b.opts.Name)); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	for {
		_, bs, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		msg, err := codec.Decode(bs)
		if err != nil {
			b.logger.Debug("ignoring server message", slog.Any("error", err))
			continue
		}

		replies, err := b.Handle(msg)
		if err != nil {
			return err
		}
		for _, r := range replies {
			if err := send(r); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("send %s: %w", r.Type, err)
			}
		}
	}
}

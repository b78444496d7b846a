package netwrk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"netpong/internal/pong"
)

// Message types, client to server.
const (
	TypeJoin       = "join"
	TypePaddleMove = "paddle_move"
	TypeReady      = "ready"
	TypeRestart    = "restart"
)

// Message types, server to client.
const (
	TypePlayerAssigned = "player_assigned"
	TypeGameState      = "game_state"
	TypeGameFull       = "game_full"
	TypeCountdown      = "countdown"
	TypeGameEnd        = "game_end"
)

var ErrUnknownType = errors.New("unknown message type")

// Message is the envelope for everything sent over the wire. Data holds one
// of the payload structs below, or a pong.Snapshot for game_state.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type Join struct {
	PlayerName string `json:"playerName"`
}

type PaddleMove struct {
	GoUp   Bool `json:"goUp"`
	GoDown Bool `json:"goDown"`
}

type Ready struct{}

type Restart struct{}

type PlayerAssigned struct {
	PlayerID int    `json:"playerId"`
	RoomID   string `json:"roomId"`
}

type GameFull struct {
	Message string `json:"message"`
}

type Countdown struct {
	Value int `json:"value"`
}

type GameEnd struct {
	Winner string `json:"winner"`
}

func NewPlayerAssigned(seat int, roomID string) Message {
	return Message{Type: TypePlayerAssigned, Data: PlayerAssigned{PlayerID: seat, RoomID: roomID}}
}

func NewGameState(s pong.Snapshot) Message {
	return Message{Type: TypeGameState, Data: s}
}

func NewGameFull() Message {
	return Message{Type: TypeGameFull, Data: GameFull{Message: "Game room is full"}}
}

func NewCountdown(v int) Message {
	return Message{Type: TypeCountdown, Data: Countdown{Value: v}}
}

func NewGameEnd(winner string) Message {
	return Message{Type: TypeGameEnd, Data: GameEnd{Winner: winner}}
}

// Bool decodes loosely by truthiness: zero, the empty string, null and a
// missing field are false; any other number, string, object or array is
// true.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = false
	case bool:
		*b = Bool(t)
	case float64:
		*b = t != 0
	case string:
		*b = t != ""
	default:
		*b = true
	}
	return nil
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Unmarshal decodes an envelope and puts the matching payload struct into
// Data. Types are matched exactly; unknown types return ErrUnknownType with
// Type still set.
func Unmarshal(b []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}
	m := Message{Type: env.Type}

	var payload any
	switch env.Type {
	case TypeJoin:
		payload = &Join{}
	case TypePaddleMove:
		payload = &PaddleMove{}
	case TypeReady:
		payload = &Ready{}
	case TypeRestart:
		payload = &Restart{}
	case TypePlayerAssigned:
		payload = &PlayerAssigned{}
	case TypeGameState:
		payload = &pong.Snapshot{}
	case TypeGameFull:
		payload = &GameFull{}
	case TypeCountdown:
		payload = &Countdown{}
	case TypeGameEnd:
		payload = &GameEnd{}
	default:
		return m, ErrUnknownType
	}
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return m, fmt.Errorf("decode %s payload: %w", m.Type, err)
		}
	}
	m.Data = deref(payload)
	return m, nil
}

func deref(p any) any {
	switch v := p.(type) {
	case *Join:
		return *v
	case *PaddleMove:
		return *v
	case *Ready:
		return *v
	case *Restart:
		return *v
	case *PlayerAssigned:
		return *v
	case *pong.Snapshot:
		return *v
	case *GameFull:
		return *v
	case *Countdown:
		return *v
	case *GameEnd:
		return *v
	}
	return p
}

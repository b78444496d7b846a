package lobby

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"netpong/internal/netwrk"
	"netpong/internal/room"
)

// ErrFull is returned when the room chosen for a participant refuses it.
var ErrFull = room.ErrFull

// Registry matches participants to rooms. Scanning for a free seat and
// taking it happen under one lock, so two joins can never race for the same
// seat.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*room.Room
	order  []string // room ids by creation
	roomOf map[string]string
	seatOf map[string]int

	opts   room.Options
	now    func() time.Time
	logger *slog.Logger
}

// NewRegistry creates an empty registry. Every room it creates gets a copy
// of opts with its own random source.
func NewRegistry(opts room.Options, logger *slog.Logger) *Registry {
	opts.Logger = logger
	return &Registry{
		rooms:  make(map[string]*room.Room),
		roomOf: make(map[string]string),
		seatOf: make(map[string]int),
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// Join seats p in the first room, by creation order, that has a free seat,
// creating a room when none has. A participant that is already seated gets
// its current seat back.
func (reg *Registry) Join(p netwrk.Participant, name string) (string, int, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if id, ok := reg.roomOf[p.ID()]; ok {
		return id, reg.seatOf[p.ID()], nil
	}

	var r *room.Room
	for _, id := range reg.order {
		if candidate := reg.rooms[id]; !candidate.Full() {
			r = candidate
			break
		}
	}
	if r == nil {
		r = reg.createLocked()
	}

	seat, err := r.Seat(p, name)
	if err != nil {
		if r.Seated() == 0 {
			reg.deleteLocked(r.ID)
		}
		return "", 0, fmt.Errorf("join room %s: %w", r.ID, err)
	}

	reg.roomOf[p.ID()] = r.ID
	reg.seatOf[p.ID()] = seat
	return r.ID, seat, nil
}

// Leave unseats p. A room left with nobody in it is closed and forgotten;
// a room with one participant left pauses itself.
func (reg *Registry) Leave(p netwrk.Participant) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id, ok := reg.roomOf[p.ID()]
	if !ok {
		return
	}
	delete(reg.roomOf, p.ID())
	delete(reg.seatOf, p.ID())

	r, ok := reg.rooms[id]
	if !ok {
		return
	}
	remaining, err := r.Unseat(p)
	if err != nil {
		reg.logger.Warn("leave", slog.String("room_id", id), slog.String("participant", p.ID()), slog.Any("error", err))
	}
	if remaining == 0 {
		reg.deleteLocked(id)
		reg.logger.Info("room deleted (empty)", slog.String("room_id", id))
	}
}

// Route finds the room and seat of p for gameplay messages.
func (reg *Registry) Route(p netwrk.Participant) (*room.Room, int, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id, ok := reg.roomOf[p.ID()]
	if !ok {
		return nil, 0, false
	}
	r, ok := reg.rooms[id]
	if !ok {
		return nil, 0, false
	}
	return r, reg.seatOf[p.ID()], true
}

// Room looks a room up by id.
func (reg *Registry) Room(id string) (*room.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[id]
	return r, ok
}

type Stats struct {
	Rooms        int                 `json:"rooms"`
	Participants int                 `json:"participants"`
	ByStatus     map[room.Status]int `json:"byStatus"`
}

func (reg *Registry) Stats() Stats {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s := Stats{
		Rooms:        len(reg.rooms),
		Participants: len(reg.roomOf),
		ByStatus:     make(map[room.Status]int),
	}
	for _, r := range reg.rooms {
		s.ByStatus[r.Status()]++
	}
	return s
}

// Close stops every room's timers.
func (reg *Registry) Close() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range reg.rooms {
		r.Close()
	}
}

func (reg *Registry) createLocked() *room.Room {
	// Ids are not checked for collisions: millisecond timestamp plus a
	// random suffix.
	id := fmt.Sprintf("room_%d_%s", reg.now().UnixMilli(), uuid.NewString()[:8])

	opts := reg.opts
	opts.Rand = nil
	r := room.New(id, opts)
	reg.rooms[id] = r
	reg.order = append(reg.order, id)
	reg.logger.Info("created new room", slog.String("room_id", id))
	return r
}

func (reg *Registry) deleteLocked(id string) {
	if r, ok := reg.rooms[id]; ok {
		r.Close()
	}
	delete(reg.rooms, id)
	reg.order = slices.DeleteFunc(reg.order, func(other string) bool { return other == id })
}

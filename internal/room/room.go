// Package room runs a single two-player match.
//
// A Room owns its field, status and timers. Every mutation (timer ticks,
// seating, paddle intent, restart) happens with the room's mutex held, so a
// room always has exactly one writer. Paddle intent only sets flags; the
// paddles move on the next simulation tick.
package room

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"netpong/internal/clock"
	"netpong/internal/netwrk"
	"netpong/internal/pong"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCountdown Status = "countdown"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
	StatusEnded     Status = "ended"
)

const (
	CountdownStart  = 3
	DefaultTickRate = 60
)

var (
	ErrFull      = errors.New("room is full")
	ErrNotSeated = errors.New("participant is not seated")
)

type Options struct {
	Scheduler clock.Scheduler
	// TickRate is the simulation frequency in Hz.
	TickRate int
	Rand     *rand.Rand
	Logger   *slog.Logger
}

type Room struct {
	ID string

	mu         sync.Mutex
	logger     *slog.Logger
	sched      clock.Scheduler
	tickPeriod time.Duration

	field     *pong.Field
	status    Status
	countdown int
	seats     [2]netwrk.Participant
	names     [2]string

	stopTimer clock.Cancel
	// epoch changes whenever the active timer is cancelled, so a tick that
	// was already in flight can tell it is stale.
	epoch uint64
}

func New(id string, opts Options) *Room {
	if opts.Scheduler == nil {
		opts.Scheduler = clock.Ticker{}
	}
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.Rand == nil {
		opts.Rand = pong.NewRand(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Room{
		ID:         id,
		logger:     opts.Logger.With(slog.String("room_id", id)),
		sched:      opts.Scheduler,
		tickPeriod: time.Second / time.Duration(opts.TickRate),
		field:      pong.NewField(opts.Rand),
		status:     StatusWaiting,
		countdown:  CountdownStart,
	}
}

// Seat places p in the lowest free seat and returns its seat number (1 or
// 2). The participant is sent player_assigned before any other room
// traffic. Seating the second participant of a waiting room starts the
// countdown; a paused room stays paused until restarted.
func (r *Room) Seat(p netwrk.Participant, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.seats {
		if s != nil && s.ID() == p.ID() {
			return i + 1, nil
		}
	}

	i := -1
	for j, s := range r.seats {
		if s == nil {
			i = j
			break
		}
	}
	if i < 0 {
		return 0, ErrFull
	}

	r.seats[i] = p
	r.names[i] = name
	seat := i + 1
	r.logger.Info("participant seated", slog.String("participant", p.ID()), slog.Int("seat", seat), slog.String("name", name))

	p.Send(netwrk.NewPlayerAssigned(seat, r.ID))
	if r.seatedLocked() == 2 && r.status == StatusWaiting {
		r.startCountdownLocked()
		return seat, nil
	}
	p.Send(netwrk.NewGameState(r.snapshotLocked()))
	return seat, nil
}

// Unseat removes p and returns how many participants remain. Dropping
// below two participants pauses the room from any state.
func (r *Room) Unseat(p netwrk.Participant) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i, s := range r.seats {
		if s != nil && s.ID() == p.ID() {
			r.seats[i] = nil
			r.names[i] = ""
			found = true
		}
	}
	if !found {
		return r.seatedLocked(), ErrNotSeated
	}

	remaining := r.seatedLocked()
	if remaining < 2 {
		r.pauseLocked()
	}
	r.logger.Info("participant left", slog.String("participant", p.ID()), slog.Int("remaining", remaining))
	return remaining, nil
}

// SetIntent records the paddle direction requested by the participant in
// seat. It takes effect on the next simulation tick.
func (r *Room) SetIntent(seat int, goUp, goDown bool) error {
	s, ok := pong.SeatFromNumber(seat)
	if !ok {
		return ErrNotSeated
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seats[s] == nil {
		return ErrNotSeated
	}
	p := r.field.Paddle(s)
	p.GoUp, p.GoDown = goUp, goDown
	return nil
}

// Ready is accepted from seated participants but has no effect yet.
func (r *Room) Ready(seat int) {
	r.logger.Debug("participant ready", slog.Int("seat", seat))
}

// Restart rebuilds paddles and ball, zeroes the scores and starts a new
// countdown when both seats are filled. It is the only way out of Paused.
func (r *Room) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelTimerLocked()
	r.field.Reset()
	if r.seatedLocked() == 2 {
		r.startCountdownLocked()
	} else {
		r.status = StatusWaiting
		r.countdown = CountdownStart
		r.broadcastLocked(netwrk.NewGameState(r.snapshotLocked()))
	}
	r.logger.Info("room restarted", slog.String("status", string(r.status)))
}

// Close stops any running timer. The room is not used afterwards.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
}

func (r *Room) Snapshot() pong.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) Countdown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countdown
}

// Seated is the number of seated participants.
func (r *Room) Seated() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatedLocked()
}

func (r *Room) Full() bool {
	return r.Seated() >= 2
}

func (r *Room) seatedLocked() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

func (r *Room) snapshotLocked() pong.Snapshot {
	s := r.field.Snapshot(r.names[0], r.names[1], string(r.status))
	if r.status == StatusCountdown {
		v := r.countdown
		s.CountdownValue = &v
	}
	return s
}

func (r *Room) broadcastLocked(m netwrk.Message) {
	for _, s := range r.seats {
		if s != nil {
			s.Send(m)
		}
	}
}

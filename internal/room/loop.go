package room

import (
	"log/slog"
	"time"

	"netpong/internal/netwrk"
	"netpong/internal/pong"
)

// scheduleLocked replaces the active timer. Callbacks run with the room locked and
// are dropped once the timer has been superseded.
func (r *Room) scheduleLocked(period time.Duration, fn func()) {
	r.cancelTimerLocked()
	epoch := r.epoch
	r.stopTimer = r.sched.Every(period, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.epoch != epoch {
			return
		}
		fn()
	})
}

func (r *Room) cancelTimerLocked() {
	if r.stopTimer != nil {
		r.stopTimer()
		r.stopTimer = nil
	}
	r.epoch++
}

func (r *Room) startCountdownLocked() {
	r.status = StatusCountdown
	r.countdown = CountdownStart
	r.scheduleLocked(time.Second, r.countdownTickLocked)
	r.broadcastLocked(netwrk.NewGameState(r.snapshotLocked()))
}

func (r *Room) countdownTickLocked() {
	r.countdown--
	r.broadcastLocked(netwrk.NewCountdown(r.countdown))
	if r.countdown <= 0 {
		r.startPlayLocked()
	}
}

func (r *Room) startPlayLocked() {
	r.status = StatusPlaying
	r.field.Serve(pong.Left)
	r.scheduleLocked(r.tickPeriod, r.simulateLocked)
	r.logger.Info("match started")
	r.broadcastLocked(netwrk.NewGameState(r.snapshotLocked()))
}

// simulateLocked is one tick of a running match.
func (r *Room) simulateLocked() {
	res := r.field.Step()
	if res.Scored {
		r.logger.Debug("point scored",
			slog.String("scorer", res.Scorer.String()),
			slog.Int("player1", r.field.Left.Score),
			slog.Int("player2", r.field.Right.Score))
	}

	winner, done := r.field.Winner()
	if done {
		r.cancelTimerLocked()
		r.status = StatusEnded
	}

	r.broadcastLocked(netwrk.NewGameState(r.snapshotLocked()))

	if done {
		name := r.names[winner]
		r.logger.Info("match ended", slog.String("winner", name))
		r.broadcastLocked(netwrk.NewGameEnd(name))
	}
}

func (r *Room) pauseLocked() {
	r.cancelTimerLocked()
	r.status = StatusPaused
}

package pong

import (
	"golang.org/x/exp/rand"
)

// Hit records what the ball collided with during a step.
type Hit int

const (
	HitNone Hit = iota
	HitWall
	HitPaddle
)

// Field is the simulated playing field of one match: two paddles and a ball.
type Field struct {
	Left  Paddle
	Right Paddle
	Ball  Ball

	rng *rand.Rand
}

// StepResult describes what happened during one simulation step.
type StepResult struct {
	Hit    Hit
	Scored bool
	Scorer Seat
}

func NewField(rng *rand.Rand) *Field {
	f := &Field{rng: rng}
	f.Reset()
	return f
}

// NewRand returns a random source for a Field. A zero seed picks one from
// the current process-wide source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewSource(seed))
}

// Reset reconstructs paddles and ball. Scores go back to zero and the ball
// is left at rest in the centre until the next serve.
func (f *Field) Reset() {
	f.Left = NewPaddle(Left)
	f.Right = NewPaddle(Right)
	f.Ball = Ball{
		X: Width/2 - BallRadius,
		Y: Height/2 - BallRadius,
	}
}

func (f *Field) Serve(side Seat) {
	f.Ball.Serve(side, f.rng)
}

func (f *Field) Paddle(s Seat) *Paddle {
	if s == Left {
		return &f.Left
	}
	return &f.Right
}

// Step runs one simulation tick: paddle motion, wall collision, paddle
// collision, ball motion and scoring, in that order. At most one collision
// is resolved per tick.
func (f *Field) Step() StepResult {
	f.Left.Move()
	f.Right.Move()

	var res StepResult
	switch {
	case f.Ball.collideWalls():
		res.Hit = HitWall
	case f.Ball.collidePaddle(&f.Left), f.Ball.collidePaddle(&f.Right):
		res.Hit = HitPaddle
	default:
		f.Ball.X += f.Ball.XSpeed
		f.Ball.Y += f.Ball.YSpeed
	}

	// The serve goes towards the side that just conceded.
	if f.Ball.X <= 0 {
		f.Right.ScoreUp()
		f.Serve(Left)
		res.Scored, res.Scorer = true, Right
	} else if f.Ball.X+f.Ball.Size() >= Width {
		f.Left.ScoreUp()
		f.Serve(Right)
		res.Scored, res.Scorer = true, Left
	}
	return res
}

// Winner reports the winning seat once a player has at least 3 points and
// leads by at least 2.
func (f *Field) Winner() (Seat, bool) {
	l, r := f.Left.Score, f.Right.Score
	if max(l, r) < 3 {
		return Left, false
	}
	switch {
	case l-r >= 2:
		return Left, true
	case r-l >= 2:
		return Right, true
	}
	return Left, false
}

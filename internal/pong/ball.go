package pong

import (
	"math"

	"golang.org/x/exp/rand"
)

// Ball position is the top-left corner of its bounding box, which is
// 2*BallRadius wide and high.
type Ball struct {
	X       float64
	Y       float64
	XSpeed  float64
	YSpeed  float64
	Bounces int
}

func (b Ball) Size() float64 {
	return 2 * BallRadius
}

func (b Ball) CenterY() float64 {
	return b.Y + BallRadius
}

func (b Ball) Speed() float64 {
	return math.Hypot(b.XSpeed, b.YSpeed)
}

// Serve re-centres the ball and gives it a fresh velocity of magnitude
// StartSpeed heading towards side.
func (b *Ball) Serve(side Seat, rng *rand.Rand) {
	b.X = Width/2 - BallRadius
	b.Y = Height/2 - BallRadius
	b.XSpeed = randomBetween(rng, 0.4*StartSpeed, 0.8*StartSpeed)
	b.YSpeed = math.Sqrt(StartSpeed*StartSpeed - b.XSpeed*b.XSpeed)
	if side == Left {
		b.XSpeed = -b.XSpeed
	}
	if rng.Intn(2) == 0 {
		b.YSpeed = -b.YSpeed
	}
	b.Bounces = 0
}

func randomBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// AccelFactor is the velocity multiplier applied on the n-th paddle hit
// since the last serve.
func AccelFactor(n int) float64 {
	if n < 1 {
		n = 1
	}
	return 1 + AccelGain/math.Sqrt(AccelAmortization*float64(n))
}

func (b *Ball) accelerate() {
	b.Bounces++
	f := AccelFactor(b.Bounces)
	b.XSpeed *= f
	b.YSpeed *= f
}

// drag transfers part of the paddle's motion into the ball and keeps the
// bounce angle within 45 degrees of the horizontal.
func (b *Ball) drag(paddleSpeed float64) {
	b.YSpeed += paddleSpeed * PaddleDrag
	limit := math.Abs(b.XSpeed)
	b.YSpeed = max(-limit, min(limit, b.YSpeed))
}

// collideWalls reflects the ball off the top or bottom wall when its leading
// edge reaches the wall during this tick.
func (b *Ball) collideWalls() bool {
	if b.YSpeed < 0 && b.Y+b.YSpeed <= 0 {
		b.Y = 0
		b.YSpeed = -b.YSpeed
		return true
	}
	if b.YSpeed > 0 && b.Y+b.Size()+b.YSpeed >= Height {
		b.Y = Height - b.Size()
		b.YSpeed = -b.YSpeed
		return true
	}
	return false
}

// collidePaddle checks whether the ball's leading edge reaches the paddle's
// face during this tick while the ball's vertical extent overlaps the
// paddle. The sweep is done over the whole tick so fast balls can't tunnel.
func (b *Ball) collidePaddle(p *Paddle) bool {
	face := FaceX(p.Seat)
	var lead float64
	switch p.Seat {
	case Left:
		if b.XSpeed >= 0 {
			return false
		}
		lead = b.X
		if lead < face || lead+b.XSpeed > face {
			return false
		}
	case Right:
		if b.XSpeed <= 0 {
			return false
		}
		lead = b.X + b.Size()
		if lead > face || lead+b.XSpeed < face {
			return false
		}
	}

	t := (face - lead) / b.XSpeed
	y := b.Y + b.YSpeed*t
	if y+b.Size() < p.Y || y > p.Y+PaddleHeight {
		return false
	}

	if p.Seat == Left {
		b.X = face
	} else {
		b.X = face - b.Size()
	}
	b.Y = max(0, min(Height-b.Size(), y))
	b.XSpeed = -b.XSpeed
	b.accelerate()
	b.drag(p.Speed)
	return true
}

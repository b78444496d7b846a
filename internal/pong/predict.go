package pong

import "math"

// DefaultMaxBounces bounds the wall-reflection folding in AimY.
const DefaultMaxBounces = 10

// Predictor forecasts where the ball centre will cross a paddle's plane.
type Predictor struct {
	MaxBounces int
}

func NewPredictor() *Predictor {
	return &Predictor{MaxBounces: DefaultMaxBounces}
}

// AimY returns the vertical position, in [BallRadius, Height-BallRadius], at
// which the ball centre is expected to reach target's paddle face. A ball
// moving away from target is first bounced once off the opposing paddle
// plane, using the same acceleration as a real paddle hit.
func (p *Predictor) AimY(b Ball, target Seat) float64 {
	if b.XSpeed == 0 && b.YSpeed == 0 {
		return Height / 2
	}
	// A purely vertical ball never reaches either plane.
	if b.XSpeed == 0 {
		return p.fold(b.CenterY())
	}

	y := b.CenterY()
	ys := b.YSpeed
	if movingAway(b, target) {
		opp := target.Opponent()
		t := max(0, timeToReach(b, opp))
		y += ys * t

		f := AccelFactor(b.Bounces + 1)
		bounced := Ball{
			XSpeed:  -b.XSpeed * f,
			YSpeed:  ys * f,
			Bounces: b.Bounces + 1,
		}
		if opp == Left {
			bounced.X = FaceX(Left)
		} else {
			bounced.X = FaceX(Right) - bounced.Size()
		}
		b = bounced
		ys = bounced.YSpeed
	}

	// Folding works on the unrolled path, so the walls can be ignored until
	// the end.
	t := max(0, timeToReach(b, target))
	return p.fold(y + ys*t)
}

func movingAway(b Ball, target Seat) bool {
	if target == Left {
		return b.XSpeed > 0
	}
	return b.XSpeed < 0
}

// timeToReach is the signed number of ticks until the ball's leading edge
// reaches seat's paddle face. b.XSpeed must be non-zero.
func timeToReach(b Ball, s Seat) float64 {
	lead := b.X
	if b.XSpeed > 0 {
		lead = b.X + b.Size()
	}
	return (FaceX(s) - lead) / b.XSpeed
}

// fold mirrors v back into the playable range for the ball centre.
func (p *Predictor) fold(v float64) float64 {
	lo, hi := BallRadius, Height-BallRadius
	if math.IsNaN(v) {
		return Height / 2
	}
	for i := 0; i < p.MaxBounces; i++ {
		switch {
		case v < lo:
			v = 2*lo - v
		case v > hi:
			v = 2*hi - v
		default:
			return v
		}
	}
	return max(lo, min(hi, v))
}

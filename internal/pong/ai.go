package pong

import "time"

// DefaultTolerance is the dead zone around the aim point.
var DefaultTolerance = PaddleHeight / 8

// Controller steers a paddle towards a target height, holding still while
// the paddle centre is within Tolerance of it.
type Controller struct {
	Tolerance float64
}

func (c Controller) Intent(paddleY, target float64) (goUp, goDown bool) {
	center := paddleY + PaddleHeight/2
	switch {
	case center < target-c.Tolerance:
		return false, true
	case center > target+c.Tolerance:
		return true, false
	}
	return false, false
}

// Opponent is a synthetic player. It refreshes its aim point at most once
// per Interval and steers towards it on every update.
type Opponent struct {
	Seat     Seat
	Interval time.Duration

	predictor  *Predictor
	controller Controller
	target     float64
	last       time.Time
	primed     bool
}

func NewOpponent(seat Seat, interval time.Duration, tolerance float64) *Opponent {
	return &Opponent{
		Seat:       seat,
		Interval:   interval,
		predictor:  NewPredictor(),
		controller: Controller{Tolerance: tolerance},
		target:     Height / 2,
	}
}

func (o *Opponent) Update(now time.Time, ball Ball, paddleY float64) (goUp, goDown bool) {
	if !o.primed || now.Sub(o.last) >= o.Interval {
		o.target = o.predictor.AimY(ball, o.Seat)
		o.last = now
		o.primed = true
	}
	return o.controller.Intent(paddleY, o.target)
}

func (o *Opponent) Target() float64 {
	return o.target
}

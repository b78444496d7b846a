package pong

import "math"

// Board dimensions. Everything else in the simulation is derived from these.
const (
	Width  = 624.0
	Height = 351.0
)

var (
	Diag       = math.Sqrt(Width*Width + Height*Height)
	BackBorder = Width / 50

	BallRadius = math.Min(Width, Height) / 50
	StartSpeed = Diag / 200

	PaddleHeight = Height / 4
	PaddleWidth  = Width / 50
	PaddleSpeed  = Height / 100
)

// Acceleration and drag applied on paddle hits.
const (
	AccelGain         = 0.04
	AccelAmortization = 2.0
	PaddleDrag        = 0.2
)

// Seat is one of the two fixed paddle slots.
type Seat int

const (
	Left Seat = iota
	Right
)

// Number is the 1-based seat number used on the wire.
func (s Seat) Number() int {
	return int(s) + 1
}

func (s Seat) Opponent() Seat {
	if s == Left {
		return Right
	}
	return Left
}

func (s Seat) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// SeatFromNumber maps a wire seat number back to a Seat.
func SeatFromNumber(n int) (Seat, bool) {
	switch n {
	case 1:
		return Left, true
	case 2:
		return Right, true
	}
	return Left, false
}

// FaceX is the x coordinate of the paddle face that the ball hits for the seat.
func FaceX(s Seat) float64 {
	if s == Left {
		return BackBorder + PaddleWidth
	}
	return Width - BackBorder - PaddleWidth
}

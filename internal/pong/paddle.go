package pong

type Paddle struct {
	Seat   Seat
	X      float64
	Y      float64
	GoUp   bool
	GoDown bool
	// Speed is the signed displacement of the last motion step.
	Speed float64
	Score int
}

// NewPaddle places a paddle for the seat, vertically centred.
func NewPaddle(seat Seat) Paddle {
	x := BackBorder
	if seat == Right {
		x = Width - BackBorder - PaddleWidth
	}
	return Paddle{
		Seat: seat,
		X:    x,
		Y:    Height/2 - PaddleHeight/2,
	}
}

// Move advances the paddle by one motion step according to its intent flags.
// Up wins when both flags are set. The step is clamped to the board so Y
// stays in [0, Height-PaddleHeight].
func (p *Paddle) Move() {
	prev := p.Y
	switch {
	case p.GoUp:
		p.Y = max(0, p.Y-PaddleSpeed)
	case p.GoDown:
		p.Y = min(Height-PaddleHeight, p.Y+PaddleSpeed)
	}
	p.Speed = p.Y - prev
}

func (p *Paddle) ScoreUp() {
	p.Score++
}

// Center is the vertical centre of the paddle.
func (p Paddle) Center() float64 {
	return p.Y + PaddleHeight/2
}

package pong

// Snapshot is the full state of one room as broadcast to its participants.
type Snapshot struct {
	Player1        PlayerState `json:"player1"`
	Player2        PlayerState `json:"player2"`
	Ball           BallState   `json:"ball"`
	GameStatus     string      `json:"gameStatus"`
	CountdownValue *int        `json:"countdownValue,omitempty"`
}

type PlayerState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
	Name  string  `json:"name"`
}

type BallState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	XSpeed float64 `json:"xSpeed"`
	YSpeed float64 `json:"ySpeed"`
}

// Snapshot captures the field with the given player names and room status.
func (f *Field) Snapshot(name1, name2, status string) Snapshot {
	return Snapshot{
		Player1: PlayerState{X: f.Left.X, Y: f.Left.Y, Score: f.Left.Score, Name: name1},
		Player2: PlayerState{X: f.Right.X, Y: f.Right.Y, Score: f.Right.Score, Name: name2},
		Ball: BallState{
			X:      f.Ball.X,
			Y:      f.Ball.Y,
			XSpeed: f.Ball.XSpeed,
			YSpeed: f.Ball.YSpeed,
		},
		GameStatus: status,
	}
}

// Player returns the state of the paddle in seat s.
func (s Snapshot) Player(seat Seat) PlayerState {
	if seat == Left {
		return s.Player1
	}
	return s.Player2
}

// ToBall rebuilds a Ball from its wire state. The bounce count is not
// broadcast and is left at zero.
func (b BallState) ToBall() Ball {
	return Ball{X: b.X, Y: b.Y, XSpeed: b.XSpeed, YSpeed: b.YSpeed}
}

package pong

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBall_Serve(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		for _, side := range []Seat{Left, Right} {
			var b Ball
			b.Bounces = 4
			b.Serve(side, NewRand(seed))

			assert.InDelta(t, StartSpeed, b.Speed(), 1e-9)
			assert.InDelta(t, Width/2, b.X+BallRadius, 1e-9)
			assert.InDelta(t, Height/2, b.CenterY(), 1e-9)
			assert.Zero(t, b.Bounces)

			x := math.Abs(b.XSpeed)
			assert.GreaterOrEqual(t, x, 0.4*StartSpeed)
			assert.LessOrEqual(t, x, 0.8*StartSpeed)
			if side == Left {
				assert.Negative(t, b.XSpeed)
			} else {
				assert.Positive(t, b.XSpeed)
			}
		}
	}
}

func TestPaddle_Move(t *testing.T) {
	mid := Height/2 - PaddleHeight/2
	bottom := Height - PaddleHeight

	tests := []struct {
		name      string
		y         float64
		up, down  bool
		wantY     float64
		wantSpeed float64
	}{
		{name: "idle", y: mid, wantY: mid},
		{name: "up", y: mid, up: true, wantY: mid - PaddleSpeed, wantSpeed: -PaddleSpeed},
		{name: "down", y: mid, down: true, wantY: mid + PaddleSpeed, wantSpeed: PaddleSpeed},
		{name: "up wins over down", y: mid, up: true, down: true, wantY: mid - PaddleSpeed, wantSpeed: -PaddleSpeed},
		{name: "clamped at top", y: 1, up: true, wantY: 0, wantSpeed: -1},
		{name: "already at top", y: 0, up: true, wantY: 0},
		{name: "clamped at bottom", y: bottom - 1, down: true, wantY: bottom, wantSpeed: 1},
		{name: "already at bottom", y: bottom, down: true, wantY: bottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaddle(Left)
			p.Y, p.GoUp, p.GoDown = tt.y, tt.up, tt.down
			p.Move()
			assert.InDelta(t, tt.wantY, p.Y, 1e-9)
			assert.InDelta(t, tt.wantSpeed, p.Speed, 1e-9)
		})
	}
}

func TestField_WallCollision(t *testing.T) {
	tests := []struct {
		name       string
		y, ySpeed  float64
		wantY      float64
		wantYSpeed float64
	}{
		{name: "top", y: 1, ySpeed: -3, wantY: 0, wantYSpeed: 3},
		{name: "bottom", y: Height - 2*BallRadius - 1, ySpeed: 3, wantY: Height - 2*BallRadius, wantYSpeed: -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(NewRand(1))
			f.Ball = Ball{X: Width / 2, Y: tt.y, XSpeed: 2, YSpeed: tt.ySpeed}

			res := f.Step()
			assert.Equal(t, HitWall, res.Hit)
			assert.False(t, res.Scored)
			assert.InDelta(t, tt.wantY, f.Ball.Y, 1e-9)
			assert.InDelta(t, tt.wantYSpeed, f.Ball.YSpeed, 1e-9)
			// no acceleration off walls, and the ball holds its x for the tick
			assert.Equal(t, 2.0, f.Ball.XSpeed)
			assert.Equal(t, Width/2, f.Ball.X)
		})
	}
}

func TestField_PaddleCollision(t *testing.T) {
	t.Run("left paddle", func(t *testing.T) {
		f := NewField(NewRand(1))
		face := FaceX(Left)
		f.Ball = Ball{X: face + 1, Y: f.Left.Center() - BallRadius, XSpeed: -3}

		res := f.Step()
		require.Equal(t, HitPaddle, res.Hit)
		assert.Equal(t, face, f.Ball.X)
		assert.InDelta(t, 3*AccelFactor(1), f.Ball.XSpeed, 1e-9)
		assert.Equal(t, 1, f.Ball.Bounces)
		assert.GreaterOrEqual(t, f.Ball.X, face)
	})

	t.Run("right paddle", func(t *testing.T) {
		f := NewField(NewRand(1))
		face := FaceX(Right)
		f.Ball = Ball{X: face - 2*BallRadius - 1, Y: f.Right.Center() - BallRadius, XSpeed: 3}

		res := f.Step()
		require.Equal(t, HitPaddle, res.Hit)
		assert.InDelta(t, face, f.Ball.X+f.Ball.Size(), 1e-9)
		assert.InDelta(t, -3*AccelFactor(1), f.Ball.XSpeed, 1e-9)
		assert.LessOrEqual(t, f.Ball.X+f.Ball.Size(), face+1e-9)
	})

	t.Run("fast ball does not tunnel", func(t *testing.T) {
		f := NewField(NewRand(1))
		face := FaceX(Left)
		f.Ball = Ball{X: face + 5, Y: f.Left.Center() - BallRadius, XSpeed: -40}

		res := f.Step()
		assert.Equal(t, HitPaddle, res.Hit)
		assert.Equal(t, face, f.Ball.X)
	})

	t.Run("ball passes above paddle", func(t *testing.T) {
		f := NewField(NewRand(1))
		face := FaceX(Left)
		f.Ball = Ball{X: face + 1, Y: 10, XSpeed: -3}

		res := f.Step()
		assert.Equal(t, HitNone, res.Hit)
		assert.InDelta(t, face-2, f.Ball.X, 1e-9)
	})

	t.Run("moving paddle drags the ball", func(t *testing.T) {
		f := NewField(NewRand(1))
		face := FaceX(Left)
		f.Left.GoDown = true
		f.Ball = Ball{X: face + 1, Y: f.Left.Center() - BallRadius, XSpeed: -3}

		res := f.Step()
		require.Equal(t, HitPaddle, res.Hit)
		assert.InDelta(t, PaddleSpeed*PaddleDrag, f.Ball.YSpeed, 1e-9)
	})
}

func TestField_Scoring(t *testing.T) {
	tests := []struct {
		name       string
		ball       Ball
		wantScorer Seat
		wantLeft   int
		wantRight  int
	}{
		{
			name:       "ball leaves on the left",
			ball:       Ball{X: 1, Y: 10, XSpeed: -3},
			wantScorer: Right,
			wantRight:  1,
		},
		{
			name:       "ball leaves on the right",
			ball:       Ball{X: Width - 2*BallRadius - 1, Y: 10, XSpeed: 3},
			wantScorer: Left,
			wantLeft:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(NewRand(7))
			f.Ball = tt.ball

			res := f.Step()
			require.True(t, res.Scored)
			assert.Equal(t, tt.wantScorer, res.Scorer)
			assert.Equal(t, tt.wantLeft, f.Left.Score)
			assert.Equal(t, tt.wantRight, f.Right.Score)

			// re-served from the centre towards the side that conceded
			assert.InDelta(t, Height/2, f.Ball.CenterY(), 1e-9)
			assert.InDelta(t, StartSpeed, f.Ball.Speed(), 1e-9)
			if tt.wantScorer == Right {
				assert.Negative(t, f.Ball.XSpeed)
			} else {
				assert.Positive(t, f.Ball.XSpeed)
			}
		})
	}
}

func TestField_Winner(t *testing.T) {
	tests := []struct {
		left, right int
		want        Seat
		wantDone    bool
	}{
		{0, 0, Left, false},
		{2, 0, Left, false},
		{3, 1, Left, true},
		{3, 2, Left, false},
		{4, 2, Left, true},
		{1, 3, Right, true},
		{5, 5, Left, false},
		{5, 7, Right, true},
	}
	for _, tt := range tests {
		f := NewField(NewRand(1))
		f.Left.Score, f.Right.Score = tt.left, tt.right
		got, done := f.Winner()
		assert.Equal(t, tt.wantDone, done, "%d-%d", tt.left, tt.right)
		if tt.wantDone {
			assert.Equal(t, tt.want, got, "%d-%d", tt.left, tt.right)
		}
	}
}

func TestField_Reset(t *testing.T) {
	f := NewField(NewRand(1))
	f.Serve(Right)
	f.Left.Score, f.Right.Score = 2, 1
	f.Left.Y = 0

	f.Reset()
	assert.Zero(t, f.Left.Score)
	assert.Zero(t, f.Right.Score)
	assert.Equal(t, Height/2-PaddleHeight/2, f.Left.Y)
	assert.Zero(t, f.Ball.Speed())
	assert.InDelta(t, Height/2, f.Ball.CenterY(), 1e-9)
}

func TestAccelFactor(t *testing.T) {
	assert.InDelta(t, 1+AccelGain/math.Sqrt(2), AccelFactor(1), 1e-12)
	assert.Equal(t, AccelFactor(1), AccelFactor(0))
	for n := 1; n < 50; n++ {
		assert.Greater(t, AccelFactor(n), AccelFactor(n+1))
		assert.Greater(t, AccelFactor(n), 1.0)
	}
}

func TestBall_DragClamp(t *testing.T) {
	tests := []struct {
		name        string
		xSpeed      float64
		ySpeed      float64
		paddleSpeed float64
		want        float64
	}{
		{name: "small nudge", xSpeed: 4, ySpeed: 1, paddleSpeed: 5, want: 2},
		{name: "clamped high", xSpeed: 2, ySpeed: 1.9, paddleSpeed: 10, want: 2},
		{name: "clamped low", xSpeed: -2, ySpeed: -1.9, paddleSpeed: -10, want: -2},
		{name: "still paddle", xSpeed: 3, ySpeed: 1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{XSpeed: tt.xSpeed, YSpeed: tt.ySpeed}
			b.drag(tt.paddleSpeed)
			assert.InDelta(t, tt.want, b.YSpeed, 1e-9)
		})
	}
}

package lobby

import (
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netpong/internal/clock"
	"netpong/internal/netwrk"
	"netpong/internal/room"
)

type fakeParticipant struct {
	id string

	mu   sync.Mutex
	msgs []netwrk.Message
}

func (p *fakeParticipant) ID() string { return p.id }

func (p *fakeParticipant) Send(m netwrk.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, m)
}

func (p *fakeParticipant) messages() []netwrk.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]netwrk.Message(nil), p.msgs...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) (*Registry, *clock.Manual) {
	t.Helper()
	m := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	reg := NewRegistry(room.Options{Scheduler: m, TickRate: 60}, discardLogger())
	t.Cleanup(reg.Close)
	return reg, m
}

var roomIDPattern = regexp.MustCompile(`^room_\d+_[0-9a-f]{8}$`)

func TestRegistry_Join(t *testing.T) {
	reg, _ := newTestRegistry(t)
	p1, p2, p3 := &fakeParticipant{id: "p1"}, &fakeParticipant{id: "p2"}, &fakeParticipant{id: "p3"}

	id1, seat, err := reg.Join(p1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, seat)
	assert.Regexp(t, roomIDPattern, id1)

	id2, seat, err := reg.Join(p2, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, seat)
	assert.Equal(t, id1, id2)

	id3, seat, err := reg.Join(p3, "carol")
	require.NoError(t, err)
	assert.Equal(t, 1, seat, "a full room is skipped")
	assert.NotEqual(t, id1, id3)

	stats := reg.Stats()
	assert.Equal(t, 2, stats.Rooms)
	assert.Equal(t, 3, stats.Participants)
	assert.Equal(t, 1, stats.ByStatus[room.StatusCountdown])
	assert.Equal(t, 1, stats.ByStatus[room.StatusWaiting])
}

func TestRegistry_JoinTwiceKeepsSeat(t *testing.T) {
	reg, _ := newTestRegistry(t)
	p1 := &fakeParticipant{id: "p1"}

	id1, seat1, err := reg.Join(p1, "alice")
	require.NoError(t, err)
	id2, seat2, err := reg.Join(p1, "alice")
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, seat1, seat2)
	assert.Equal(t, 1, reg.Stats().Participants)

	r, ok := reg.Room(id1)
	require.True(t, ok)
	assert.Equal(t, 1, r.Seated())
}

func TestRegistry_LeaveDeletesEmptyRoom(t *testing.T) {
	reg, m := newTestRegistry(t)
	p1, p2 := &fakeParticipant{id: "p1"}, &fakeParticipant{id: "p2"}

	id, _, err := reg.Join(p1, "alice")
	require.NoError(t, err)
	_, _, err = reg.Join(p2, "bob")
	require.NoError(t, err)
	m.Advance(3 * time.Second)

	r, ok := reg.Room(id)
	require.True(t, ok)
	require.Equal(t, room.StatusPlaying, r.Status())

	reg.Leave(p2)
	assert.Equal(t, room.StatusPaused, r.Status())
	_, ok = reg.Room(id)
	assert.True(t, ok)

	reg.Leave(p1)
	_, ok = reg.Room(id)
	assert.False(t, ok)
	assert.Zero(t, m.Pending())
	assert.Equal(t, Stats{ByStatus: map[room.Status]int{}}, reg.Stats())

	// leaving again is a no-op
	reg.Leave(p1)
}

func TestRegistry_FirstFitReusesFreedSeat(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ps := []*fakeParticipant{{id: "p1"}, {id: "p2"}, {id: "p3"}, {id: "p4"}}

	ids := make([]string, len(ps))
	for i, p := range ps {
		id, _, err := reg.Join(p, p.id)
		require.NoError(t, err)
		ids[i] = id
	}
	require.NotEqual(t, ids[0], ids[2])

	// p1 leaves the oldest room; the next participant lands there
	reg.Leave(ps[0])
	p5 := &fakeParticipant{id: "p5"}
	id, seat, err := reg.Join(p5, "eve")
	require.NoError(t, err)
	assert.Equal(t, ids[0], id)
	assert.Equal(t, 1, seat)
	assert.Equal(t, 2, reg.Stats().Rooms)
}

func TestRegistry_Route(t *testing.T) {
	reg, _ := newTestRegistry(t)
	p1, p2 := &fakeParticipant{id: "p1"}, &fakeParticipant{id: "p2"}

	_, _, ok := reg.Route(p1)
	assert.False(t, ok)

	id, _, err := reg.Join(p1, "alice")
	require.NoError(t, err)
	_, _, err = reg.Join(p2, "bob")
	require.NoError(t, err)

	r, seat, ok := reg.Route(p2)
	require.True(t, ok)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, 2, seat)

	reg.Leave(p2)
	_, _, ok = reg.Route(p2)
	assert.False(t, ok)
}

func TestRegistry_ConcurrentJoins(t *testing.T) {
	reg, _ := newTestRegistry(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := reg.Join(&fakeParticipant{id: string(rune('A' + i))}, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats := reg.Stats()
	assert.Equal(t, n, stats.Participants)
	assert.Equal(t, n/2, stats.Rooms, "every room is filled before a new one is made")
}

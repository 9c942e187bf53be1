package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/fighter/fightertest"
	"github.com/SKANL/test-game-2d-sub000/src/match"
)

type always fighter.Intent

func (a always) ProduceIntent(_, _ *fighter.Fighter, _ float64) (fighter.Intent, bool) {
	return fighter.Intent(a), true
}

func newMatch(t *testing.T, p1 match.IntentSource) *match.Match {
	t.Helper()
	s := match.DefaultSettings
	s.PreRoundDelay = 0
	m := match.New(s, nil)
	require.NoError(t, m.Register(fightertest.New(0), p1))
	require.NoError(t, m.Register(fightertest.New(1), nil))
	require.NoError(t, m.Start())
	m.Tick(fightertest.Tick)
	require.Equal(t, match.StatusPlaying, m.Status)
	return m
}

func TestBufferKeepsMostRecentFrames(t *testing.T) {
	m := newMatch(t, nil)
	b := NewBuffer(Options{MaxFrames: 10, Cadence: 1})

	for i := 0; i < 15; i++ {
		m.Tick(fightertest.Tick)
		require.NoError(t, b.Record(m))
	}
	assert.Equal(t, 10, b.Len())
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, b.Keys())
	_, ok := b.Snapshot(5)
	assert.False(t, ok)
	_, ok = b.Snapshot(15)
	assert.True(t, ok)
}

func TestBufferCadence(t *testing.T) {
	m := newMatch(t, nil)
	b := NewBuffer(Options{})

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Record(m))
	}
	assert.Equal(t, 10, b.Frame())
	assert.Equal(t, []int{2, 4, 6, 8, 10}, b.Keys())
}

func TestSerializeRoundTrip(t *testing.T) {
	m := newMatch(t, always(fighter.IntentForward))
	m.Fighter(1).Enqueue("fireball")
	for i := 0; i < 10; i++ {
		m.Tick(fightertest.Tick)
	}
	m.Fighter(0).TakeHit(12, 0.4, 50, -1)
	m.Scores = match.Scores{P1: 1, P2: 0}
	m.Round = 2
	require.NotEmpty(t, m.Fighter(1).Projectiles)

	data, err := Serialize(m)
	require.NoError(t, err)

	other := newMatch(t, nil)
	require.NoError(t, Deserialize(data, other))

	assert.Equal(t, m.Timer, other.Timer)
	assert.Equal(t, m.Status, other.Status)
	assert.Equal(t, m.Round, other.Round)
	assert.Equal(t, m.Scores, other.Scores)
	assert.Equal(t, m.Winner, other.Winner)
	assert.Equal(t, m.Frame, other.Frame)
	for side := 0; side < 2; side++ {
		want, got := m.Fighter(side), other.Fighter(side)
		assert.Equal(t, want.Position, got.Position)
		assert.Equal(t, want.Velocity, got.Velocity)
		assert.Equal(t, want.Health, got.Health)
		assert.Equal(t, want.MaxHealth, got.MaxHealth)
		assert.Equal(t, want.SuperMeter, got.SuperMeter)
		assert.Equal(t, want.State, got.State)
		assert.Equal(t, want.CurrentFrameIndex, got.CurrentFrameIndex)
		assert.Equal(t, want.FrameTimer, got.FrameTimer)
		assert.Equal(t, want.FacingRight, got.FacingRight)
		assert.Equal(t, want.IsGrounded, got.IsGrounded)
		assert.Equal(t, want.AttackHasHit, got.AttackHasHit)
		assert.Equal(t, want.StunTimer, got.StunTimer)
		assert.Equal(t, len(want.Projectiles), len(got.Projectiles))
		for i := range want.Projectiles {
			assert.Equal(t, want.Projectiles[i], got.Projectiles[i])
		}
	}

	again, err := Serialize(other)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDeserializeFailureKeepsState(t *testing.T) {
	m := newMatch(t, nil)
	good, err := Serialize(m)
	require.NoError(t, err)

	badStatus, _ := sjson.SetBytes(good, "status", "sleeping")
	badHealth, _ := sjson.SetBytes(good, "fighters.1.health", 500)
	missing, _ := sjson.DeleteBytes(good, "fighters.0.position")
	oneFighter, _ := sjson.DeleteBytes(good, "fighters.1")
	badProjectile, _ := sjson.SetRawBytes(good, "fighters.0.projectiles", []byte(`[{"position":[1,2],"speed":3}]`))
	badStats, _ := sjson.SetBytes(good, "stats.rounds", -1)

	cases := map[string][]byte{
		"not json":       []byte(`{"timer":`),
		"bad status":     badStatus,
		"health > max":   badHealth,
		"missing field":  missing,
		"one fighter":    oneFighter,
		"bad projectile": badProjectile,
		"bad stats":      badStats,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			m.Timer = 42
			m.Fighter(1).Health = 77
			err := Deserialize(data, m)
			require.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.Equal(t, 42.0, m.Timer)
			assert.Equal(t, 77.0, m.Fighter(1).Health)
		})
	}
}

func TestRestoreRewinds(t *testing.T) {
	m := newMatch(t, always(fighter.IntentForward))
	b := NewBuffer(Options{MaxFrames: 50, Cadence: 1})
	var x10 float64
	for i := 1; i <= 20; i++ {
		m.Tick(fightertest.Tick)
		require.NoError(t, b.Record(m))
		if i == 10 {
			x10 = m.Fighter(0).Position.X()
		}
	}
	require.Greater(t, m.Fighter(0).Position.X(), x10)

	_, err := b.Restore(m, 10, false)
	require.NoError(t, err)
	assert.Equal(t, x10, m.Fighter(0).Position.X())
	assert.Equal(t, 10, b.Frame())
	assert.Equal(t, 10, b.Keys()[len(b.Keys())-1])

	_, err = b.Restore(m, 15, false)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRestoreResimulatesToSameState(t *testing.T) {
	m := newMatch(t, always(fighter.IntentForward))
	b := NewBuffer(Options{MaxFrames: 50, Cadence: 2})
	for i := 0; i < 30; i++ {
		m.Tick(1 / m.Settings.TickRate)
		require.NoError(t, b.Record(m))
	}
	want, err := Serialize(m)
	require.NoError(t, err)

	_, err = b.Restore(m, 12, true)
	require.NoError(t, err)
	assert.Equal(t, 30, b.Frame())

	got, err := Serialize(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Equal(t, []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30}, b.Keys())
}

// shortRound returns a playing match whose first round times out after
// half a second with p1 ahead on health.
func shortRound(t *testing.T, maxRounds int) *match.Match {
	t.Helper()
	s := match.DefaultSettings
	s.PreRoundDelay = 0
	s.RoundTime = 0.5
	s.MaxRounds = maxRounds
	m := match.New(s, nil)
	require.NoError(t, m.Register(fightertest.New(0), nil))
	require.NoError(t, m.Register(fightertest.New(1), nil))
	require.NoError(t, m.Start())
	m.Tick(fightertest.Tick)
	require.Equal(t, match.StatusPlaying, m.Status)
	m.Fighter(1).Health = 50
	return m
}

func assertStatsFollowScores(t *testing.T, m *match.Match, rounds int) {
	t.Helper()
	require.Len(t, m.Stats.Matches, 1)
	cur := m.Stats.Current()
	assert.Len(t, cur.Rounds, rounds)
	assert.Equal(t, [2]int{m.Scores.P1, m.Scores.P2}, cur.Wins)
	assert.Equal(t, rounds, cur.LastRound)
	assert.Zero(t, cur.Draws)
}

func TestRestoreRewindsStatsAcrossRoundEnd(t *testing.T) {
	m := shortRound(t, 3)
	b := NewBuffer(Options{MaxFrames: 100, Cadence: 1})
	for i := 0; i < 60; i++ {
		m.Tick(fightertest.Tick)
		require.NoError(t, b.Record(m))
	}
	require.Equal(t, match.StatusRoundOver, m.Status)
	assertStatsFollowScores(t, m, 1)

	_, err := b.Restore(m, 10, true)
	require.NoError(t, err)
	assert.Equal(t, match.Scores{P1: 1}, m.Scores)
	assertStatsFollowScores(t, m, 1)

	_, err = b.Restore(m, 10, false)
	require.NoError(t, err)
	assert.Equal(t, match.StatusPlaying, m.Status)
	assert.Equal(t, match.Scores{}, m.Scores)
	assertStatsFollowScores(t, m, 0)
	assert.Zero(t, m.Stats.Current().MatchTime)
}

func TestRestoreReopensFinishedMatchStats(t *testing.T) {
	m := shortRound(t, 1)
	b := NewBuffer(Options{MaxFrames: 100, Cadence: 1})
	for i := 0; i < 40; i++ {
		m.Tick(fightertest.Tick)
		require.NoError(t, b.Record(m))
	}
	require.Equal(t, match.StatusGameOver, m.Status)
	assert.Equal(t, 0, m.Stats.Current().WinSide)

	_, err := b.Restore(m, 10, false)
	require.NoError(t, err)
	assert.Equal(t, match.NoWinner, m.Stats.Current().WinSide)
	assertStatsFollowScores(t, m, 0)

	_, err = b.Restore(m, 5, false)
	require.NoError(t, err)
	for b.Frame() < 40 {
		m.Tick(fightertest.Tick)
		require.NoError(t, b.Record(m))
	}
	assert.Equal(t, match.StatusGameOver, m.Status)
	assert.Equal(t, 0, m.Stats.Current().WinSide)
	assertStatsFollowScores(t, m, 1)
}

func TestClear(t *testing.T) {
	m := newMatch(t, nil)
	b := NewBuffer(Options{Cadence: 1})
	require.NoError(t, b.Record(m))
	b.Clear()
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Frame())
}

package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/fighter/fightertest"
)

// closePair puts the fighters within jab range of each other.
func closePair() (*fighter.Fighter, *fighter.Fighter) {
	p1, p2 := fightertest.New(0), fightertest.New(1)
	p2.Position[0] = p1.Position.X() + 80
	return p1, p2
}

func tick(frame int, p1, p2 *fighter.Fighter) event.List {
	var evs event.List
	evs = append(evs, p1.Update(fightertest.Tick, p2)...)
	evs = append(evs, p2.Update(fightertest.Tick, p1)...)
	return append(evs, Resolve(frame, p1, p2)...)
}

func countHits(evs event.List) int {
	n := 0
	for _, e := range evs {
		if e.Kind == event.HitLanded {
			n++
		}
	}
	return n
}

func TestActivationHitsOnce(t *testing.T) {
	p1, p2 := closePair()
	p1.Enqueue(fighter.IntentAttack1)

	hits := 0
	for i := 0; i < 30; i++ {
		hits += countHits(tick(i, p1, p2))
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 92.0, p2.Health)
}

func TestMultiFrameActiveWindowStillHitsOnce(t *testing.T) {
	p1, p2 := closePair()
	p2.Position[0] = p1.Position.X() + 90
	p1.Enqueue(fighter.IntentAttack2)

	hits := 0
	for i := 0; i < 40; i++ {
		hits += countHits(tick(i, p1, p2))
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 85.0, p2.Health)
}

func TestOutOfRangeMisses(t *testing.T) {
	p1, p2 := fightertest.New(0), fightertest.New(1)
	p1.Enqueue(fighter.IntentAttack1)
	for i := 0; i < 30; i++ {
		assert.Zero(t, countHits(tick(i, p1, p2)))
	}
	assert.Equal(t, p2.MaxHealth, p2.Health)
}

func TestHitboxMirrorsWhenFacingLeft(t *testing.T) {
	p1, p2 := closePair()
	p2.Enqueue(fighter.IntentAttack1)

	hits := 0
	for i := 0; i < 30; i++ {
		for _, e := range tick(i, p1, p2) {
			if e.Kind == event.HitLanded {
				hits++
				assert.Equal(t, 1, e.Attacker)
				assert.Equal(t, 0, e.Defender)
			}
		}
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 92.0, p1.Health)
}

func TestMeterGainOnHit(t *testing.T) {
	p1, p2 := closePair()
	p1.Enqueue(fighter.IntentAttack1)
	for i := 0; i < 30; i++ {
		tick(i, p1, p2)
	}
	assert.Equal(t, 10.0, p1.SuperMeter)
	assert.Equal(t, 5.0, p2.SuperMeter)
}

func TestMeterIsClamped(t *testing.T) {
	p1, p2 := closePair()
	p1.SuperMeter = p1.MaxSuperMeter - 1
	p1.Enqueue(fighter.IntentAttack1)
	for i := 0; i < 30; i++ {
		tick(i, p1, p2)
	}
	assert.Equal(t, p1.MaxSuperMeter, p1.SuperMeter)
}

func TestDamageFloorsAtZeroAndKnocksOut(t *testing.T) {
	p1, p2 := closePair()
	p2.Health = 3
	p1.Enqueue(fighter.IntentAttack1)

	var evs event.List
	for i := 0; i < 30; i++ {
		evs = append(evs, tick(i, p1, p2)...)
	}
	assert.Zero(t, p2.Health)
	assert.True(t, p2.IsKnockedOut())
	assert.True(t, evs.Has(event.KnockedOut))
}

func TestKnockedOutDefenderIsNotHit(t *testing.T) {
	p1, p2 := closePair()
	p2.TakeHit(1000, 0, 0, 1)
	p1.Enqueue(fighter.IntentAttack1)
	for i := 0; i < 30; i++ {
		assert.Zero(t, countHits(tick(i, p1, p2)))
	}
}

func TestTradeHitsBoth(t *testing.T) {
	p1, p2 := closePair()
	p1.Enqueue(fighter.IntentAttack1)
	p2.Enqueue(fighter.IntentAttack1)

	hits := 0
	for i := 0; i < 30; i++ {
		hits += countHits(tick(i, p1, p2))
	}
	assert.Equal(t, 2, hits)
	assert.Equal(t, 92.0, p1.Health)
	assert.Equal(t, 92.0, p2.Health)
	assert.False(t, p1.AttackHasHit)
	assert.False(t, p2.AttackHasHit)
}

func TestProjectileHitsOnceAndDisappears(t *testing.T) {
	p1, p2 := fightertest.New(0), fightertest.New(1)
	p1.Enqueue("fireball")

	var evs event.List
	for i := 0; i < 120; i++ {
		evs = append(evs, tick(i, p1, p2)...)
	}
	require.Equal(t, 1, countHits(evs))
	assert.Equal(t, 90.0, p2.Health)
	assert.Empty(t, p1.Projectiles)
	assert.Equal(t, 10.0, p1.SuperMeter)
}

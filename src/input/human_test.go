package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/fighter/fightertest"
)

// tap holds a for one tick and releases it, returning what the source made of it.
func tap(r *Recognizer, h *HumanSource, self, opp *fighter.Fighter, a Action) (fighter.Intent, bool) {
	r.SetHeld(h.Player, a, true)
	in, ok := h.ProduceIntent(self, opp, fightertest.Tick)
	r.SetHeld(h.Player, a, false)
	return in, ok
}

func TestHumanButtonsMapToAttacks(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 0, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)

	in, ok := tap(r, h, p1, p2, ActionPunch)
	require.True(t, ok)
	assert.Equal(t, fighter.IntentAttack1, in)

	// Still held on the next tick does not repeat the attack
	r.SetHeld(0, ActionKick, true)
	in, ok = h.ProduceIntent(p1, p2, fightertest.Tick)
	require.True(t, ok)
	assert.Equal(t, fighter.IntentAttack2, in)
	_, ok = h.ProduceIntent(p1, p2, fightertest.Tick)
	assert.False(t, ok)
}

func TestHumanMotionBecomesSpecial(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 0, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)

	in, _ := tap(r, h, p1, p2, ActionDown)
	assert.Equal(t, fighter.IntentDown, in)
	in, _ = tap(r, h, p1, p2, ActionRight)
	assert.Equal(t, fighter.IntentForward, in)
	in, ok := tap(r, h, p1, p2, ActionPunch)
	require.True(t, ok)
	assert.Equal(t, fighter.Intent("fireball"), in)
	assert.Empty(t, r.Buffer(0), "a recognized motion is consumed")

	in, _ = tap(r, h, p1, p2, ActionPunch)
	assert.Equal(t, fighter.IntentAttack1, in)
}

func TestHumanSuperUsesFacing(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 1, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)
	require.False(t, p2.FacingRight)

	// Player two faces left, so back is right and forward is left
	for _, a := range []Action{ActionRight, ActionDown, ActionLeft} {
		tap(r, h, p2, p1, a)
	}
	in, ok := tap(r, h, p2, p1, ActionSuper)
	require.True(t, ok)
	assert.Equal(t, fighter.Intent("super"), in)
}

func TestHumanLoneSuperButtonDoesNothing(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 0, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)

	_, ok := tap(r, h, p1, p2, ActionSuper)
	assert.False(t, ok)
}

func TestHumanReleaseStopsWalking(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 0, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)

	in, _ := tap(r, h, p1, p2, ActionLeft)
	assert.Equal(t, fighter.IntentBack, in)
	p1.Enqueue(in)
	p1.Update(fightertest.Tick, p2)
	require.Equal(t, fighter.StateWalkBackward, p1.State)

	in, ok := h.ProduceIntent(p1, p2, fightertest.Tick)
	require.True(t, ok)
	assert.Equal(t, fighter.IntentStop, in)
}

func TestHumanJump(t *testing.T) {
	r := newRec()
	h := NewHumanSource(r, 0, nil)
	p1, p2 := fightertest.New(0), fightertest.New(1)

	r.KeyDown("KeyW")
	in, ok := h.ProduceIntent(p1, p2, fightertest.Tick)
	require.True(t, ok)
	assert.Equal(t, fighter.IntentJump, in)
}

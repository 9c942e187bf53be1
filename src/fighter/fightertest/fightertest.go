// Package fightertest provides a small, fully specified character for tests.
package fightertest

import (
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
)

// Tick is the fixed step used by tests.
const Tick = 1.0 / 60

// Config returns a fresh character with every built-in state, a projectile
// special and a super. Attacks run at 60 fps so one frame is one tick.
func Config() *fighter.Config {
	jab := &fighter.Hitbox{Box: [4]float64{10, -90, 70, -60}, Damage: 8, Hitstun: 0.2, Knockback: 60}
	heavy := &fighter.Hitbox{Box: [4]float64{10, -80, 90, -40}, Damage: 15, Hitstun: 0.35, Knockback: 120}
	super := &fighter.Hitbox{Box: [4]float64{0, -110, 120, 0}, Damage: 30, Hitstun: 0.5, Knockback: 200}

	loop := func(n int) *fighter.Animation {
		a := &fighter.Animation{FrameRate: 10, Loop: true}
		for i := 0; i < n; i++ {
			a.Frames = append(a.Frames, fighter.Frame{Sprite: [4]int{i * 64, 0, 64, 96}, Type: fighter.FrameRecovery, Duration: 1})
		}
		return a
	}
	return &fighter.Config{
		Name: "Tester",
		Stats: fighter.Stats{
			MaxHealth:                  100,
			MaxSuperMeter:              100,
			WalkSpeed:                  200,
			BackSpeed:                  150,
			JumpForce:                  700,
			SuperMeterGainOnHit:        10,
			SuperMeterGainOnTakeDamage: 5,
			DefaultHitstun:             0.3,
		},
		Animations: map[string]*fighter.Animation{
			fighter.StateIdle:         loop(4),
			fighter.StateWalkForward:  loop(4),
			fighter.StateWalkBackward: loop(4),
			fighter.StateCrouch:       loop(1),
			fighter.StateJump:         loop(2),
			fighter.StateHitstun:      loop(2),
			fighter.StateKnockedOut: {
				FrameRate: 10,
				OnEnd:     fighter.StateKnockedOut,
				Frames:    []fighter.Frame{{Type: fighter.FrameRecovery, Duration: 1}, {Type: fighter.FrameRecovery, Duration: 1}},
			},
			fighter.StateLightAttack: {
				FrameRate: 60,
				Frames: []fighter.Frame{
					{Type: fighter.FrameStartup, Duration: 2},
					{Type: fighter.FrameActive, Duration: 4, Hitbox: jab},
					{Type: fighter.FrameRecovery, Duration: 3},
				},
			},
			fighter.StateHeavyAttack: {
				FrameRate: 60,
				Frames: []fighter.Frame{
					{Type: fighter.FrameStartup, Duration: 5},
					{Type: fighter.FrameActive, Duration: 3, Hitbox: heavy},
					{Type: fighter.FrameActive, Duration: 3, Hitbox: heavy},
					{Type: fighter.FrameRecovery, Duration: 6},
				},
			},
			"fireball": {
				FrameRate: 60,
				Frames: []fighter.Frame{
					{Type: fighter.FrameStartup, Duration: 4},
					{Type: fighter.FrameActive, Duration: 2, Projectile: &fighter.ProjectileSpec{
						Box: [4]float64{-15, -80, 15, -50}, Damage: 10, Speed: 400, Hitstun: 0.4,
					}},
					{Type: fighter.FrameRecovery, Duration: 10},
				},
			},
			"superFlurry": {
				FrameRate: 60,
				Frames: []fighter.Frame{
					{Type: fighter.FrameStartup, Duration: 3},
					{Type: fighter.FrameActive, Duration: 6, Hitbox: super},
					{Type: fighter.FrameRecovery, Duration: 8},
				},
			},
		},
		Specials: []fighter.SpecialMove{
			{Name: "fireball", Sequence: []string{"down", "forward", "punch"}, State: "fireball"},
			{Name: "super", Sequence: []string{"back", "down", "forward", "super"}, State: "superFlurry", MeterCost: 50},
		},
	}
}

// New builds a fighter on the default stage or panics, for test setup.
func New(side int) *fighter.Fighter {
	f, err := fighter.New(side, Config(), fighter.DefaultStage, nil)
	if err != nil {
		panic(err)
	}
	return f
}

// Step runs n ticks of Update for f against opp.
func Step(f, opp *fighter.Fighter, n int) {
	for i := 0; i < n; i++ {
		f.Update(Tick, opp)
	}
}

package fighter

import (
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/geom"
)

// Fighter is one combatant: physics, animation state machine and vitals.
// A Fighter is owned by the match and only touched by the tick driver.
type Fighter struct {
	ID   string
	Side int
	Name string

	Position    mgl64.Vec2
	Velocity    mgl64.Vec2
	IsGrounded  bool
	FacingRight bool

	Health        float64
	MaxHealth     float64
	SuperMeter    float64
	MaxSuperMeter float64

	State             string
	CurrentFrameIndex int
	FrameTimer        float64
	AttackHasHit      bool
	ProjectileFired   bool
	StunTimer         float64

	Projectiles []Projectile

	queue   []Intent
	config  *Config
	stage   Stage
	spawnX  float64
	logger  *log.Logger
	missing map[string]bool
}

// New builds a fighter for side 0 (player one) or 1 (player two).
func New(side int, cfg *Config, stage Stage, logger *log.Logger) (*Fighter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	n := cfg.normalized()
	f := &Fighter{
		ID:            idForSide(side),
		Side:          side,
		Name:          n.Name,
		MaxHealth:     n.Stats.MaxHealth,
		MaxSuperMeter: n.Stats.MaxSuperMeter,
		config:        n,
		stage:         stage,
		logger:        logger,
		missing:       make(map[string]bool),
	}
	f.spawnX = stage.Left + (stage.Right-stage.Left)*0.25
	if side == 1 {
		f.spawnX = stage.Left + (stage.Right-stage.Left)*0.75
	}
	f.Reset()
	return f, nil
}

func idForSide(side int) string {
	if side == 1 {
		return "p2"
	}
	return "p1"
}

func (f *Fighter) Config() *Config { return f.config }
func (f *Fighter) Stage() Stage    { return f.stage }

// IsFlipped is true while the fighter faces left.
func (f *Fighter) IsFlipped() bool { return !f.FacingRight }

// Reset reinitializes the fighter for a new round.
func (f *Fighter) Reset() {
	f.Position = mgl64.Vec2{f.spawnX, f.stage.GroundY}
	f.Velocity = mgl64.Vec2{}
	f.IsGrounded = true
	f.FacingRight = f.Side == 0
	f.Health = f.MaxHealth
	f.SuperMeter = 0
	f.Projectiles = f.Projectiles[:0]
	f.queue = f.queue[:0]
	f.StunTimer = 0
	f.forceState(StateIdle)
}

// Enqueue adds an intent for the next tick. The oldest pending intent is
// dropped when the queue is full.
func (f *Fighter) Enqueue(in Intent) {
	if len(f.queue) >= maxQueuedIntents {
		f.queue = f.queue[1:]
	}
	f.queue = append(f.queue, in)
}

func (f *Fighter) Pending() int { return len(f.queue) }

// ClearIntents drops anything queued, used when restoring a snapshot.
func (f *Fighter) ClearIntents() { f.queue = f.queue[:0] }

// Direction is +1 facing right and -1 facing left.
func (f *Fighter) Direction() float64 {
	if f.FacingRight {
		return 1
	}
	return -1
}

// IsAttacking reports whether the current state belongs to the attack set.
func (f *Fighter) IsAttacking() bool {
	a, ok := f.config.Animations[f.State]
	return ok && a.IsAttack()
}

func (f *Fighter) IsKnockedOut() bool { return f.State == StateKnockedOut }

func (f *Fighter) uninterruptible() bool {
	switch f.State {
	case StateJump, StateKnockedOut, StateHitstun:
		return true
	}
	return f.IsAttacking()
}

func (f *Fighter) CanMove() bool   { return f.IsGrounded && !f.uninterruptible() }
func (f *Fighter) CanAttack() bool { return !f.uninterruptible() }
func (f *Fighter) CanJump() bool   { return f.IsGrounded && !f.uninterruptible() }

// setState switches animation state. Re-entering the current state is a no-op.
func (f *Fighter) setState(s string) {
	if s == f.State {
		return
	}
	f.forceState(s)
}

func (f *Fighter) forceState(s string) {
	f.State = s
	f.CurrentFrameIndex = 0
	f.FrameTimer = 0
	f.AttackHasHit = false
	f.ProjectileFired = false
	if _, ok := f.config.Animations[s]; !ok && !f.missing[s] {
		f.missing[s] = true
		f.logger.Printf("%s: no animation for state %q, using placeholder", f.Name, s)
	}
}

// Hurtbox is the absolute vulnerable region.
func (f *Fighter) Hurtbox() geom.Rect {
	w, h := f.stage.HurtboxWidth, f.stage.HurtboxHeight
	return geom.Rect{Left: -w / 2, Top: -h, Right: w / 2, Bottom: 0}.At(f.Position, true)
}

// ActiveHitbox returns the hitbox eligible for collision this tick, if any.
func (f *Fighter) ActiveHitbox() (*Hitbox, geom.Rect, bool) {
	if f.AttackHasHit || !f.IsAttacking() {
		return nil, geom.Rect{}, false
	}
	fr := f.CurrentFrame()
	if fr.Type != FrameActive || fr.Hitbox == nil {
		return nil, geom.Rect{}, false
	}
	return fr.Hitbox, fr.Hitbox.Rect().At(f.Position, f.FacingRight), true
}

// Update advances the fighter by dt seconds.
func (f *Fighter) Update(dt float64, opponent *Fighter) event.List {
	var evs event.List

	if len(f.queue) > 0 {
		in := f.queue[0]
		f.queue = f.queue[1:]
		if !f.dispatch(in) {
			evs.Add(event.Event{Kind: event.IntentIgnored, Attacker: f.Side, Detail: string(in)})
		}
	}

	f.integrate(dt)
	f.animate(dt)

	if fr := f.CurrentFrame(); fr.Type == FrameActive && fr.Projectile != nil && !f.ProjectileFired {
		f.ProjectileFired = true
		p := f.spawnProjectile(*fr.Projectile)
		evs.Add(event.Event{Kind: event.ProjectileSpawned, Attacker: f.Side, Position: p.Position})
	}
	f.moveProjectiles(dt)

	if opponent != nil {
		if opponent.Position.X() > f.Position.X() {
			f.FacingRight = true
		} else if opponent.Position.X() < f.Position.X() {
			f.FacingRight = false
		}
	}
	return evs
}

func (f *Fighter) integrate(dt float64) {
	if !f.IsGrounded {
		f.Velocity[1] += f.stage.Gravity * dt
	}
	f.Position = f.Position.Add(f.Velocity.Mul(dt))

	if f.Position.Y() >= f.stage.GroundY {
		f.Position[1] = f.stage.GroundY
		f.Velocity[1] = 0
		f.IsGrounded = true
		if f.State == StateJump {
			f.setState(StateIdle)
		}
	} else {
		f.IsGrounded = false
	}

	half := f.stage.HurtboxWidth / 2
	f.Position[0] = geom.Clamp(f.Position.X(), f.stage.Left+half, f.stage.Right-half)

	f.Velocity[0] *= horizontalDamping
	if geom.Abs(f.Velocity.X()) < velocityEpsilon {
		f.Velocity[0] = 0
	}

	if f.State == StateHitstun {
		f.StunTimer -= dt
		if f.StunTimer <= 0 {
			f.StunTimer = 0
			f.setState(StateIdle)
		}
	}
}

// TakeHit applies damage and meter to the defender and moves it into
// hitstun or knockout. dir is the attacker's facing direction.
func (f *Fighter) TakeHit(damage, hitstun, knockback, dir float64) {
	f.Health = geom.Clamp(f.Health-damage, 0, f.MaxHealth)
	f.GainMeter(f.config.Stats.SuperMeterGainOnTakeDamage)
	if f.Health <= 0 {
		f.setState(StateKnockedOut)
		f.Velocity[0] = 0
		return
	}
	if hitstun <= 0 {
		hitstun = f.config.Stats.DefaultHitstun
	}
	f.forceState(StateHitstun)
	f.StunTimer = hitstun
	f.Velocity[0] = knockback * dir
}

// GainMeter adds super meter, clamped to the maximum.
func (f *Fighter) GainMeter(v float64) {
	f.SuperMeter = geom.Clamp(f.SuperMeter+v, 0, f.MaxSuperMeter)
}

// MarkHit latches the current activation so it cannot connect again.
func (f *Fighter) MarkHit() {
	f.AttackHasHit = true
	f.GainMeter(f.config.Stats.SuperMeterGainOnHit)
}

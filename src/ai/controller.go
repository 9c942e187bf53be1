package ai

import (
	"io"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/geom"
)

const (
	// maxLookahead is how far ahead, in seconds, a perfect predictor looks.
	maxLookahead = 0.5
	// fallbackReach is used for characters without any melee hitbox.
	fallbackReach = 100.0
	// lowHealth is the health ratio under which a passive AI backs off.
	lowHealth = 0.3
)

// comboSequence is cycled while the opponent stays vulnerable.
var comboSequence = [...]fighter.Intent{fighter.IntentAttack1, fighter.IntentAttack1, fighter.IntentAttack2}

// Controller is the computer-controlled intent source.
type Controller struct {
	Profile Profile

	rng    *rand.Rand
	logger *log.Logger

	decisionTimer float64
	lastOppPos    mgl64.Vec2
	tracking      bool
	oppVelocity   mgl64.Vec2
	predicted     mgl64.Vec2

	inCombo   bool
	comboStep int
}

// New builds a controller. The seed makes its random draws reproducible.
func New(p Profile, seed int64, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		Profile: p,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
}

// OpponentVelocity is the current linear estimate.
func (c *Controller) OpponentVelocity() mgl64.Vec2 { return c.oppVelocity }

// Predicted is where the opponent is expected to be after the lookahead.
func (c *Controller) Predicted() mgl64.Vec2 { return c.predicted }

func (c *Controller) InCombo() bool { return c.inCombo }

// Reset forgets tracking and combo state, used between rounds.
func (c *Controller) Reset() {
	c.decisionTimer = 0
	c.tracking = false
	c.oppVelocity = mgl64.Vec2{}
	c.predicted = mgl64.Vec2{}
	c.inCombo, c.comboStep = false, 0
}

func (c *Controller) observe(opp *fighter.Fighter, dt float64) {
	pos := opp.Position
	if c.tracking && dt > 0 {
		c.oppVelocity = pos.Sub(c.lastOppPos).Mul(1 / dt)
	}
	c.lastOppPos, c.tracking = pos, true
	c.predicted = pos.Add(c.oppVelocity.Mul(maxLookahead * c.Profile.PredictionSkill))
}

// ProduceIntent runs at most one decision pass per reaction time.
func (c *Controller) ProduceIntent(self, opponent *fighter.Fighter, dt float64) (fighter.Intent, bool) {
	if opponent == nil {
		return "", false
	}
	c.observe(opponent, dt)
	if self.IsKnockedOut() {
		return "", false
	}
	c.decisionTimer += dt
	if c.decisionTimer < c.Profile.ReactionTime {
		return "", false
	}
	c.decisionTimer = 0
	in := c.decide(self, opponent)
	c.logger.Printf("ai %s: %s", self.ID, in)
	return in, true
}

func (c *Controller) roll(p float64) bool { return c.rng.Float64() < p }

func (c *Controller) decide(self, opp *fighter.Fighter) fighter.Intent {
	dist := geom.Abs(c.predicted.X() - self.Position.X())
	reach := meleeReach(self)
	vulnerable := isVulnerable(opp)

	if c.inCombo && vulnerable && dist <= reach {
		in := comboSequence[c.comboStep%len(comboSequence)]
		c.comboStep++
		return in
	}
	c.inCombo, c.comboStep = false, 0

	if dist <= reach {
		if isThreat(opp, dist) && !c.roll(c.Profile.Aggressiveness) {
			return fighter.IntentBack
		}
		if !c.roll(c.Profile.Accuracy) {
			// Misread the situation
			return [...]fighter.Intent{fighter.IntentStop, fighter.IntentJump, fighter.IntentBack}[c.rng.Intn(3)]
		}
		if sm, ok := affordableSuper(self); ok && c.roll(c.Profile.Aggressiveness) {
			return fighter.Intent(sm.Name)
		}
		if vulnerable {
			c.inCombo, c.comboStep = true, 1
			return comboSequence[0]
		}
		if c.roll(0.5) {
			return fighter.IntentAttack2
		}
		return fighter.IntentAttack1
	}

	if c.roll(c.Profile.Aggressiveness) {
		return fighter.IntentForward
	}
	if sm, ok := projectileSpecial(self); ok {
		return fighter.Intent(sm.Name)
	}
	if self.Health < self.MaxHealth*lowHealth {
		return fighter.IntentBack
	}
	return fighter.IntentStop
}

// isVulnerable is true while opp cannot act: in hitstun or recovering from
// a committed attack.
func isVulnerable(opp *fighter.Fighter) bool {
	if opp.State == fighter.StateHitstun {
		return true
	}
	return opp.IsAttacking() && opp.CurrentFrame().Type == fighter.FrameRecovery
}

// isThreat is true when opp is about to hit from where it stands.
func isThreat(opp *fighter.Fighter, dist float64) bool {
	if !opp.IsAttacking() {
		return false
	}
	t := opp.CurrentFrame().Type
	return (t == fighter.FrameStartup || t == fighter.FrameActive) && dist <= meleeReach(opp)
}

// meleeReach is the largest horizontal distance between anchors at which one
// of f's hitboxes still touches a hurtbox.
func meleeReach(f *fighter.Fighter) float64 {
	reach := 0.0
	for _, a := range f.Config().Animations {
		for _, fr := range a.Frames {
			if fr.Hitbox != nil {
				reach = geom.Max(reach, fr.Hitbox.Box[2])
			}
		}
	}
	if reach <= 0 {
		return fallbackReach
	}
	return reach + f.Stage().HurtboxWidth/2
}

func affordableSuper(f *fighter.Fighter) (fighter.SpecialMove, bool) {
	for _, sm := range f.Config().Specials {
		if sm.MeterCost > 0 && f.SuperMeter >= sm.MeterCost {
			return sm, true
		}
	}
	return fighter.SpecialMove{}, false
}

func projectileSpecial(f *fighter.Fighter) (fighter.SpecialMove, bool) {
	for _, sm := range f.Config().Specials {
		if a, ok := f.Config().Animations[sm.State]; ok && sm.MeterCost <= f.SuperMeter && a.FiresProjectile() {
			return sm, true
		}
	}
	return fighter.SpecialMove{}, false
}

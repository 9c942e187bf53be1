// Package combat resolves attacks between the two fighters of a bout.
package combat

import (
	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
)

// Resolve tests both ordered pairs and applies every hit that connects this
// tick. Attacker order does not matter: both sides are checked against the
// state they had when resolution started, so a trade hits both fighters.
func Resolve(frame int, p1, p2 *fighter.Fighter) event.List {
	var evs event.List
	hits := append(collect(p1, p2), collect(p2, p1)...)
	// Latch every attacker before damage goes out. On a trade the hitstun
	// state change then clears the latch like any other state change.
	for i := range hits {
		hits[i].latch()
	}
	for _, h := range hits {
		wasKO := h.defender.IsKnockedOut()
		h.defender.TakeHit(h.damage, h.hitstun, h.knockback, h.dir)
		evs.Add(event.Event{
			Kind:     event.HitLanded,
			Frame:    frame,
			Attacker: h.attacker.Side,
			Defender: h.defender.Side,
			Damage:   h.damage,
			Position: h.defender.Position,
			Detail:   h.source,
		})
		if !wasKO && h.defender.IsKnockedOut() {
			evs.Add(event.Event{Kind: event.KnockedOut, Frame: frame, Defender: h.defender.Side, Attacker: h.attacker.Side})
		}
	}
	return evs
}

type hit struct {
	attacker, defender *fighter.Fighter
	damage             float64
	hitstun            float64
	knockback          float64
	dir                float64
	projectile         int // index into attacker projectiles, -1 for a melee hitbox
	source             string
}

func (h *hit) latch() {
	if h.projectile >= 0 {
		h.attacker.GainMeter(h.attacker.Config().Stats.SuperMeterGainOnHit)
		h.attacker.RemoveProjectile(h.projectile)
		return
	}
	h.attacker.MarkHit()
}

// collect finds what attacker lands on defender without mutating either.
func collect(attacker, defender *fighter.Fighter) []hit {
	if defender.IsKnockedOut() {
		return nil
	}
	var hits []hit
	hurt := defender.Hurtbox()

	if hb, box, ok := attacker.ActiveHitbox(); ok && box.Overlaps(hurt) {
		hits = append(hits, hit{
			attacker:   attacker,
			defender:   defender,
			damage:     hb.Damage,
			hitstun:    hb.Hitstun,
			knockback:  hb.Knockback,
			dir:        attacker.Direction(),
			projectile: -1,
			source:     attacker.State,
		})
	}

	// Walk backwards so removing a projectile keeps earlier indices valid
	for i := len(attacker.Projectiles) - 1; i >= 0; i-- {
		p := attacker.Projectiles[i]
		if !p.Rect().Overlaps(hurt) {
			continue
		}
		dir := 1.0
		if p.Speed < 0 {
			dir = -1
		}
		hits = append(hits, hit{
			attacker:   attacker,
			defender:   defender,
			damage:     p.Damage,
			hitstun:    p.Hitstun,
			dir:        dir,
			projectile: i,
			source:     "projectile",
		})
		// One projectile connects per tick, the next one can hit on a later tick
		break
	}
	return hits
}

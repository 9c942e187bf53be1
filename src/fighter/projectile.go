package fighter

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/SKANL/test-game-2d-sub000/src/geom"
)

// Projectile is a launched hitbox that travels on its own.
type Projectile struct {
	Position mgl64.Vec2
	Speed    float64 // signed, positive moves right
	Damage   float64
	Hitstun  float64
	Box      [4]float64
}

// Rect returns the absolute box. Box is stored facing right and mirrored
// for projectiles travelling left.
func (p Projectile) Rect() geom.Rect {
	r := geom.Rect{Left: p.Box[0], Top: p.Box[1], Right: p.Box[2], Bottom: p.Box[3]}
	return r.At(p.Position, p.Speed >= 0)
}

func (f *Fighter) spawnProjectile(spec ProjectileSpec) Projectile {
	p := Projectile{
		Position: f.Position,
		Speed:    spec.Speed * f.Direction(),
		Damage:   spec.Damage,
		Hitstun:  spec.Hitstun,
		Box:      spec.Box,
	}
	f.Projectiles = append(f.Projectiles, p)
	return p
}

// moveProjectiles advances projectiles and drops the ones past the stage.
func (f *Fighter) moveProjectiles(dt float64) {
	live := f.Projectiles[:0]
	for _, p := range f.Projectiles {
		p.Position[0] += p.Speed * dt
		r := p.Rect()
		if r.Right < f.stage.Left || r.Left > f.stage.Right {
			continue
		}
		live = append(live, p)
	}
	f.Projectiles = live
}

// RemoveProjectile drops projectile i after it connected.
func (f *Fighter) RemoveProjectile(i int) {
	if i < 0 || i >= len(f.Projectiles) {
		return
	}
	f.Projectiles = append(f.Projectiles[:i], f.Projectiles[i+1:]...)
}

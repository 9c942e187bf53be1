package fighter

import (
	"errors"
	"fmt"

	"github.com/SKANL/test-game-2d-sub000/src/geom"
)

// ErrInvalidConfig is returned when a character config cannot start a bout.
var ErrInvalidConfig = errors.New("invalid character config")

type FrameType string

const (
	FrameStartup  FrameType = "startup"
	FrameActive   FrameType = "active"
	FrameRecovery FrameType = "recovery"
)

// Hitbox is the damaging box of an active frame.
// Box is left, top, right, bottom relative to the fighter anchor, facing right.
type Hitbox struct {
	Box       [4]float64 `yaml:"box"`
	Damage    float64    `yaml:"damage"`
	Hitstun   float64    `yaml:"hitstun"`
	Knockback float64    `yaml:"knockback"`
}

func (h Hitbox) Rect() geom.Rect {
	return geom.Rect{Left: h.Box[0], Top: h.Box[1], Right: h.Box[2], Bottom: h.Box[3]}
}

// ProjectileSpec describes what an active frame launches.
type ProjectileSpec struct {
	Box     [4]float64 `yaml:"box"`
	Damage  float64    `yaml:"damage"`
	Speed   float64    `yaml:"speed"`
	Hitstun float64    `yaml:"hitstun"`
}

func (p ProjectileSpec) Rect() geom.Rect {
	return geom.Rect{Left: p.Box[0], Top: p.Box[1], Right: p.Box[2], Bottom: p.Box[3]}
}

// Frame holds frame data, used in animation tables.
type Frame struct {
	Sprite     [4]int          `yaml:"sprite"` // x, y, w, h on the sheet
	Type       FrameType       `yaml:"type"`
	Duration   int             `yaml:"duration"` // in animation ticks
	Hitbox     *Hitbox         `yaml:"hitbox,omitempty"`
	Projectile *ProjectileSpec `yaml:"projectile,omitempty"`
}

type Animation struct {
	FrameRate float64 `yaml:"frameRate"`
	Loop      bool    `yaml:"loop"`
	OnEnd     string  `yaml:"onEnd"`
	Frames    []Frame `yaml:"frames"`
}

// Hold is how long frame i stays on screen, in seconds.
func (a *Animation) Hold(i int) float64 {
	d := 1
	if i >= 0 && i < len(a.Frames) && a.Frames[i].Duration > 0 {
		d = a.Frames[i].Duration
	}
	return float64(d) / a.FrameRate
}

// IsAttack is true when any frame can hurt the opponent.
func (a *Animation) IsAttack() bool {
	for _, fr := range a.Frames {
		if fr.Type == FrameActive && (fr.Hitbox != nil || fr.Projectile != nil) {
			return true
		}
	}
	return false
}

func (a *Animation) FiresProjectile() bool {
	for _, fr := range a.Frames {
		if fr.Projectile != nil {
			return true
		}
	}
	return false
}

type Stats struct {
	MaxHealth                  float64 `yaml:"maxHealth"`
	MaxSuperMeter              float64 `yaml:"maxSuperMeter"`
	WalkSpeed                  float64 `yaml:"walkSpeed"`
	BackSpeed                  float64 `yaml:"backSpeed"`
	JumpForce                  float64 `yaml:"jumpForce"`
	SuperMeterGainOnHit        float64 `yaml:"superMeterGainOnHit"`
	SuperMeterGainOnTakeDamage float64 `yaml:"superMeterGainOnTakeDamage"`
	DefaultHitstun             float64 `yaml:"defaultHitstun"`
}

// DefaultStats fill in anything a character file leaves out.
var DefaultStats = Stats{
	MaxHealth:                  100,
	MaxSuperMeter:              100,
	WalkSpeed:                  220,
	BackSpeed:                  160,
	JumpForce:                  720,
	SuperMeterGainOnHit:        10,
	SuperMeterGainOnTakeDamage: 5,
	DefaultHitstun:             0.3,
}

// SpecialMove binds a motion sequence to an animation state.
// Sequence holds input action names, e.g. down, forward, punch.
type SpecialMove struct {
	Name      string   `yaml:"name"`
	Sequence  []string `yaml:"sequence"`
	Window    float64  `yaml:"window"` // seconds, 0 means recognizer default
	State     string   `yaml:"state"`
	MeterCost float64  `yaml:"meterCost"`
}

// Config is the immutable character definition a Fighter is built from.
type Config struct {
	Name       string                `yaml:"name"`
	Stats      Stats                 `yaml:"stats"`
	Animations map[string]*Animation `yaml:"animations"`
	Specials   []SpecialMove         `yaml:"specials"`
}

const defaultFrameRate = 12

// Validate rejects configs no bout can be built from. Everything else is
// repaired by normalized.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if len(c.Animations) == 0 {
		return fmt.Errorf("%w: %s has no animations", ErrInvalidConfig, c.Name)
	}
	for _, sm := range c.Specials {
		if sm.Name == "" || sm.State == "" {
			return fmt.Errorf("%w: %s has a special move without name or state", ErrInvalidConfig, c.Name)
		}
	}
	return nil
}

// normalized returns a copy with default stats and sane animation data.
func (c *Config) normalized() *Config {
	n := &Config{
		Name:       c.Name,
		Stats:      c.Stats,
		Animations: make(map[string]*Animation, len(c.Animations)),
		Specials:   append([]SpecialMove(nil), c.Specials...),
	}
	for i := range n.Specials {
		n.Specials[i].Sequence = append([]string(nil), n.Specials[i].Sequence...)
	}
	def := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&n.Stats.MaxHealth, DefaultStats.MaxHealth)
	def(&n.Stats.MaxSuperMeter, DefaultStats.MaxSuperMeter)
	def(&n.Stats.WalkSpeed, DefaultStats.WalkSpeed)
	def(&n.Stats.BackSpeed, DefaultStats.BackSpeed)
	def(&n.Stats.JumpForce, DefaultStats.JumpForce)
	def(&n.Stats.DefaultHitstun, DefaultStats.DefaultHitstun)
	// Zero meter gain is a legitimate choice, only negatives are repaired
	if n.Stats.SuperMeterGainOnHit < 0 {
		n.Stats.SuperMeterGainOnHit = 0
	}
	if n.Stats.SuperMeterGainOnTakeDamage < 0 {
		n.Stats.SuperMeterGainOnTakeDamage = 0
	}

	for name, a := range c.Animations {
		if a == nil || len(a.Frames) == 0 {
			// Left out so the lookup falls back to the placeholder
			continue
		}
		cp := *a
		cp.Frames = append([]Frame(nil), a.Frames...)
		if cp.FrameRate <= 0 {
			cp.FrameRate = defaultFrameRate
		}
		for i := range cp.Frames {
			if hb := cp.Frames[i].Hitbox; hb != nil {
				h := *hb
				cp.Frames[i].Hitbox = &h
			}
			if ps := cp.Frames[i].Projectile; ps != nil {
				pr := *ps
				cp.Frames[i].Projectile = &pr
			}
			if cp.Frames[i].Duration <= 0 {
				cp.Frames[i].Duration = 1
			}
			switch cp.Frames[i].Type {
			case FrameStartup, FrameActive, FrameRecovery:
			default:
				cp.Frames[i].Type = FrameRecovery
			}
		}
		n.Animations[name] = &cp
	}
	return n
}

// Special returns the special move with the given name.
func (c *Config) Special(name string) (SpecialMove, bool) {
	for _, sm := range c.Specials {
		if sm.Name == name {
			return sm, true
		}
	}
	return SpecialMove{}, false
}

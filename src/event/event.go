// Package event defines the discrete simulation events handed to the
// presentation layer after each tick.
package event

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Kind int

const (
	HitLanded Kind = iota
	ProjectileSpawned
	KnockedOut
	RoundStarted
	RoundEnded
	MatchEnded
	Paused
	Resumed
	IntentIgnored
)

var kindNames = [...]string{
	HitLanded:         "hitLanded",
	ProjectileSpawned: "projectileSpawned",
	KnockedOut:        "knockedOut",
	RoundStarted:      "roundStarted",
	RoundEnded:        "roundEnded",
	MatchEnded:        "matchEnded",
	Paused:            "paused",
	Resumed:           "resumed",
	IntentIgnored:     "intentIgnored",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is a flat record; only the fields relevant to Kind are set.
// Side values are 0 for player one and 1 for player two, -1 for none.
type Event struct {
	Kind     Kind
	Frame    int
	Attacker int
	Defender int
	Damage   float64
	Position mgl64.Vec2
	Round    int
	Winner   int
	Reason   string
	Detail   string
}

func (e Event) String() string {
	switch e.Kind {
	case HitLanded:
		return fmt.Sprintf("%v p%d->p%d dmg=%g", e.Kind, e.Attacker+1, e.Defender+1, e.Damage)
	case RoundEnded, MatchEnded:
		return fmt.Sprintf("%v round=%d winner=%d reason=%s", e.Kind, e.Round, e.Winner, e.Reason)
	}
	return e.Kind.String()
}

// List collects events during a tick.
type List []Event

func (l *List) Add(e Event) {
	*l = append(*l, e)
}

// Has reports whether any event of kind k was collected.
func (l List) Has(k Kind) bool {
	for _, e := range l {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Package ai drives a fighter with the same intents a human player produces.
package ai

import "strings"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Profile holds the four dials a difficulty tier resolves to. Reaction time
// is in seconds, the rest are 0..1.
type Profile struct {
	ReactionTime    float64 `ini:"ReactionTime"`
	Accuracy        float64 `ini:"Accuracy"`
	Aggressiveness  float64 `ini:"Aggressiveness"`
	PredictionSkill float64 `ini:"PredictionSkill"`
}

var Profiles = map[Difficulty]Profile{
	Easy:   {ReactionTime: 0.5, Accuracy: 0.5, Aggressiveness: 0.3, PredictionSkill: 0.2},
	Normal: {ReactionTime: 0.3, Accuracy: 0.7, Aggressiveness: 0.5, PredictionSkill: 0.5},
	Hard:   {ReactionTime: 0.15, Accuracy: 0.9, Aggressiveness: 0.7, PredictionSkill: 0.8},
}

// ParseDifficulty accepts any casing. Unknown names map to Normal with ok false.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Profiles[d]; !ok {
		return Normal, false
	}
	return d, true
}

// ProfileFor returns the built-in profile for d, Normal for anything unknown.
func ProfileFor(d Difficulty) Profile {
	if p, ok := Profiles[d]; ok {
		return p
	}
	return Profiles[Normal]
}

package input

import (
	"io"
	"log"
	"sort"
	"time"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
)

type motion struct {
	name   string
	seq    []Action
	window time.Duration
}

// HumanSource turns one player's recognized input into fighter intents.
type HumanSource struct {
	Player int

	rec     *Recognizer
	logger  *log.Logger
	cfg     *fighter.Config
	motions []motion
}

func NewHumanSource(rec *Recognizer, player int, logger *log.Logger) *HumanSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &HumanSource{Player: player, rec: rec, logger: logger}
}

// motionsFor parses the specials of cfg once, longest sequence first so
// that a super wins over a special sharing its tail.
func (h *HumanSource) motionsFor(cfg *fighter.Config) []motion {
	if cfg == h.cfg {
		return h.motions
	}
	h.cfg, h.motions = cfg, nil
	for _, sm := range cfg.Specials {
		seq, ok := ParseSequence(sm.Sequence)
		if !ok || len(seq) == 0 {
			h.logger.Printf("%s: special %q has an unreadable sequence %v", cfg.Name, sm.Name, sm.Sequence)
			continue
		}
		h.motions = append(h.motions, motion{
			name:   sm.Name,
			seq:    seq,
			window: time.Duration(sm.Window * float64(time.Second)),
		})
	}
	sort.SliceStable(h.motions, func(i, j int) bool {
		return len(h.motions[i].seq) > len(h.motions[j].seq)
	})
	return h.motions
}

var buttons = [...]Action{ActionSuper, ActionSpecial, ActionPunch, ActionKick}

// ProduceIntent advances this player's input clock by dt and returns at
// most one intent. Button presses take priority over movement.
func (h *HumanSource) ProduceIntent(self, opponent *fighter.Fighter, dt float64) (fighter.Intent, bool) {
	p := h.Player
	h.rec.SetFacing(p, self.FacingRight)
	h.rec.UpdatePlayer(p, dt)

	for _, b := range buttons {
		if !h.rec.Pressed(p, b) {
			continue
		}
		for _, m := range h.motionsFor(self.Config()) {
			if m.seq[len(m.seq)-1] != b {
				continue
			}
			if h.rec.CheckSequence(m.seq, p, m.window) {
				h.rec.ClearBuffer(p)
				return fighter.Intent(m.name), true
			}
		}
		switch b {
		case ActionPunch:
			return fighter.IntentAttack1, true
		case ActionKick:
			return fighter.IntentAttack2, true
		}
	}

	fwd, back := ActionRight, ActionLeft
	if !self.FacingRight {
		fwd, back = back, fwd
	}
	switch {
	case h.rec.Held(p, ActionUp):
		return fighter.IntentJump, true
	case h.rec.Held(p, ActionDown):
		return fighter.IntentDown, true
	case h.rec.Held(p, fwd):
		return fighter.IntentForward, true
	case h.rec.Held(p, back):
		return fighter.IntentBack, true
	}
	switch self.State {
	case fighter.StateWalkForward, fighter.StateWalkBackward, fighter.StateCrouch:
		return fighter.IntentStop, true
	}
	return "", false
}

package history

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/match"
)

var ErrCorruptSnapshot = errors.New("history: corrupt snapshot")

// writer chains sjson edits and keeps the first error.
type writer struct {
	data []byte
	err  error
}

func (w *writer) set(path string, v interface{}) {
	if w.err != nil {
		return
	}
	w.data, w.err = sjson.SetBytes(w.data, path, v)
}

func (w *writer) setRaw(path string, raw []byte) {
	if w.err != nil {
		return
	}
	w.data, w.err = sjson.SetRawBytes(w.data, path, raw)
}

func vec(v mgl64.Vec2) []float64 { return []float64{v.X(), v.Y()} }

// Serialize writes the match and both fighters as one JSON object.
func Serialize(m *match.Match) ([]byte, error) {
	w := &writer{data: []byte(`{}`)}
	w.set("frame", m.Frame)
	w.set("status", string(m.Status))
	w.set("timer", m.Timer)
	w.set("round", m.Round)
	w.set("maxRounds", m.MaxRounds)
	w.set("scores.p1", m.Scores.P1)
	w.set("scores.p2", m.Scores.P2)
	w.set("winner", m.Winner)
	w.set("winnerName", m.WinnerName)
	w.set("winReason", string(m.WinReason))
	w.set("countdown", m.Countdown)
	matches, rounds := m.Stats.Counts()
	w.set("stats.matches", matches)
	w.set("stats.rounds", rounds)
	w.set("fighters", []interface{}{})

	for side := 0; side < 2; side++ {
		f := m.Fighter(side)
		if f == nil {
			return nil, fmt.Errorf("history: serialize: %w", match.ErrNotEnoughFighters)
		}
		w.setRaw("fighters.-1", fighterJSON(f, w))
	}
	if w.err != nil {
		return nil, fmt.Errorf("history: serialize: %w", w.err)
	}
	return w.data, nil
}

// fighterJSON builds one fighter object, reporting errors through parent.
func fighterJSON(f *fighter.Fighter, parent *writer) []byte {
	w := &writer{data: []byte(`{}`)}
	w.set("id", f.ID)
	w.set("name", f.Name)
	w.set("position", vec(f.Position))
	w.set("velocity", vec(f.Velocity))
	w.set("isGrounded", f.IsGrounded)
	w.set("facingRight", f.FacingRight)
	w.set("health", f.Health)
	w.set("maxHealth", f.MaxHealth)
	w.set("superMeter", f.SuperMeter)
	w.set("maxSuperMeter", f.MaxSuperMeter)
	w.set("state", f.State)
	w.set("currentFrameIndex", f.CurrentFrameIndex)
	w.set("frameTimer", f.FrameTimer)
	w.set("attackHasHit", f.AttackHasHit)
	w.set("projectileFired", f.ProjectileFired)
	w.set("stunTimer", f.StunTimer)
	w.set("projectiles", []interface{}{})
	for _, pr := range f.Projectiles {
		pw := &writer{data: []byte(`{}`)}
		pw.set("position", vec(pr.Position))
		pw.set("speed", pr.Speed)
		pw.set("damage", pr.Damage)
		pw.set("hitstun", pr.Hitstun)
		pw.set("box", pr.Box[:])
		if pw.err != nil {
			w.err = pw.err
			break
		}
		w.setRaw("projectiles.-1", pw.data)
	}
	if w.err != nil && parent.err == nil {
		parent.err = w.err
	}
	return w.data
}

// reader pulls typed values out of a snapshot and remembers the first
// missing or mistyped field.
type reader struct {
	root gjson.Result
	err  error
}

func (r *reader) get(path string, t gjson.Type) gjson.Result {
	res := r.root.Get(path)
	if r.err == nil && (!res.Exists() || (t != gjson.Null && res.Type != t && !(t == gjson.True && res.Type == gjson.False))) {
		r.err = fmt.Errorf("%w: field %q", ErrCorruptSnapshot, path)
	}
	return res
}

func (r *reader) num(path string) float64 { return r.get(path, gjson.Number).Float() }
func (r *reader) integer(path string) int { return int(r.get(path, gjson.Number).Int()) }
func (r *reader) text(path string) string { return r.get(path, gjson.String).String() }
func (r *reader) flag(path string) bool { return r.get(path, gjson.True).Bool() }

func (r *reader) vec(path string) mgl64.Vec2 {
	a := r.get(path, gjson.JSON).Array()
	if len(a) != 2 {
		if r.err == nil {
			r.err = fmt.Errorf("%w: field %q is not a 2D vector", ErrCorruptSnapshot, path)
		}
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{a[0].Float(), a[1].Float()}
}

type matchState struct {
	frame      int
	status     match.Status
	timer      float64
	round      int
	maxRounds  int
	scores     match.Scores
	winner     int
	winnerName string
	winReason  match.Reason
	countdown  float64

	// stats log length, matches started and rounds in the latest one
	statsMatches, statsRounds int
	fighters                  [2]fighterState
}

type fighterState struct {
	position, velocity      mgl64.Vec2
	isGrounded, facingRight bool
	health, maxHealth       float64
	superMeter, maxMeter    float64
	state                   string
	frameIndex              int
	frameTimer              float64
	attackHasHit, fired     bool
	stunTimer               float64
	projectiles             []fighter.Projectile
}

// Deserialize loads a snapshot into m. The snapshot is fully parsed and
// checked before anything is written, so on error m is left untouched.
func Deserialize(data []byte, m *match.Match) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid JSON", ErrCorruptSnapshot)
	}
	if m.Fighter(0) == nil || m.Fighter(1) == nil {
		return fmt.Errorf("history: deserialize: %w", match.ErrNotEnoughFighters)
	}
	s, err := parse(data)
	if err != nil {
		return err
	}

	m.Frame = s.frame
	m.Status = s.status
	m.Timer = s.timer
	m.Round = s.round
	m.MaxRounds = s.maxRounds
	m.Scores = s.scores
	m.Winner, m.WinnerName, m.WinReason = s.winner, s.winnerName, s.winReason
	m.Countdown = s.countdown
	m.RewindStats(s.statsMatches, s.statsRounds)
	for side, fs := range s.fighters {
		f := m.Fighter(side)
		f.Position, f.Velocity = fs.position, fs.velocity
		f.IsGrounded, f.FacingRight = fs.isGrounded, fs.facingRight
		f.Health, f.MaxHealth = fs.health, fs.maxHealth
		f.SuperMeter, f.MaxSuperMeter = fs.superMeter, fs.maxMeter
		f.State = fs.state
		f.CurrentFrameIndex = fs.frameIndex
		f.FrameTimer = fs.frameTimer
		f.AttackHasHit, f.ProjectileFired = fs.attackHasHit, fs.fired
		f.StunTimer = fs.stunTimer
		f.Projectiles = fs.projectiles
		f.ClearIntents()
	}
	return nil
}

func parse(data []byte) (*matchState, error) {
	r := &reader{root: gjson.ParseBytes(data)}
	s := &matchState{
		frame:      r.integer("frame"),
		timer:      r.num("timer"),
		round:      r.integer("round"),
		maxRounds:  r.integer("maxRounds"),
		scores:     match.Scores{P1: r.integer("scores.p1"), P2: r.integer("scores.p2")},
		winner:     r.integer("winner"),
		winnerName: r.text("winnerName"),
		winReason:  match.Reason(r.text("winReason")),
		countdown:  r.num("countdown"),

		statsMatches: r.integer("stats.matches"),
		statsRounds:  r.integer("stats.rounds"),
	}
	if (s.statsMatches < 0 || s.statsRounds < 0) && r.err == nil {
		r.err = fmt.Errorf("%w: negative stats counts", ErrCorruptSnapshot)
	}
	status, ok := match.ParseStatus(r.text("status"))
	if !ok && r.err == nil {
		r.err = fmt.Errorf("%w: unknown status %q", ErrCorruptSnapshot, r.root.Get("status").String())
	}
	s.status = status

	if n := len(r.get("fighters", gjson.JSON).Array()); n != 2 && r.err == nil {
		r.err = fmt.Errorf("%w: %d fighters", ErrCorruptSnapshot, n)
	}
	for side := range s.fighters {
		p := "fighters." + strconv.Itoa(side) + "."
		fs := fighterState{
			position:     r.vec(p + "position"),
			velocity:     r.vec(p + "velocity"),
			isGrounded:   r.flag(p + "isGrounded"),
			facingRight:  r.flag(p + "facingRight"),
			health:       r.num(p + "health"),
			maxHealth:    r.num(p + "maxHealth"),
			superMeter:   r.num(p + "superMeter"),
			maxMeter:     r.num(p + "maxSuperMeter"),
			state:        r.text(p + "state"),
			frameIndex:   r.integer(p + "currentFrameIndex"),
			frameTimer:   r.num(p + "frameTimer"),
			attackHasHit: r.flag(p + "attackHasHit"),
			fired:        r.flag(p + "projectileFired"),
			stunTimer:    r.num(p + "stunTimer"),
		}
		r.get(p+"projectiles", gjson.JSON).ForEach(func(_, v gjson.Result) bool {
			pr := &reader{root: v}
			proj := fighter.Projectile{
				Position: pr.vec("position"),
				Speed:    pr.num("speed"),
				Damage:   pr.num("damage"),
				Hitstun:  pr.num("hitstun"),
			}
			box := pr.get("box", gjson.JSON).Array()
			if len(box) != 4 && pr.err == nil {
				pr.err = fmt.Errorf("%w: projectile box", ErrCorruptSnapshot)
			}
			for i := 0; i < len(box) && i < 4; i++ {
				proj.Box[i] = box[i].Float()
			}
			if pr.err != nil {
				if r.err == nil {
					r.err = pr.err
				}
				return false
			}
			fs.projectiles = append(fs.projectiles, proj)
			return true
		})
		if r.err == nil && (fs.health < 0 || fs.health > fs.maxHealth || fs.superMeter < 0 || fs.superMeter > fs.maxMeter) {
			r.err = fmt.Errorf("%w: fighter %d vitals out of range", ErrCorruptSnapshot, side)
		}
		if r.err == nil && fs.frameIndex < 0 {
			r.err = fmt.Errorf("%w: fighter %d frame index", ErrCorruptSnapshot, side)
		}
		s.fighters[side] = fs
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

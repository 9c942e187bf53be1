package input

import (
	"time"
)

const MaxPlayers = 2

type Options struct {
	Cooldown       time.Duration // minimum time between two buffered entries of one action
	BufferSize     int
	SequenceGap    time.Duration // maximum gap between consecutive sequence entries
	SequenceWindow time.Duration // default total window for CheckSequence
}

var DefaultOptions = Options{
	Cooldown:       300 * time.Millisecond,
	BufferSize:     20,
	SequenceGap:    150 * time.Millisecond,
	SequenceWindow: 500 * time.Millisecond,
}

// BufferEntry records one action entering the buffer.
type BufferEntry struct {
	Action    Action
	Timestamp time.Duration
}

type playerInput struct {
	bindings      Bindings
	held          [NumActions]bool
	latched       [NumActions]bool
	cooldownUntil [NumActions]time.Duration
	buffer        []BufferEntry
	facingRight   bool
	now           time.Duration
}

// Recognizer turns raw key state into per-player action buffers and
// recognizes motion sequences in them. Each player runs on its own
// simulation clock, advanced by Update.
type Recognizer struct {
	opts    Options
	players [MaxPlayers]playerInput
}

func NewRecognizer(opts Options, bindings [MaxPlayers]Bindings) *Recognizer {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultOptions.BufferSize
	}
	if opts.SequenceWindow <= 0 {
		opts.SequenceWindow = DefaultOptions.SequenceWindow
	}
	if opts.SequenceGap <= 0 {
		opts.SequenceGap = DefaultOptions.SequenceGap
	}
	r := &Recognizer{opts: opts}
	for i := range r.players {
		r.players[i].bindings = bindings[i]
		r.players[i].facingRight = i == 0
		r.players[i].buffer = make([]BufferEntry, 0, opts.BufferSize)
	}
	return r
}

func (r *Recognizer) Options() Options { return r.opts }

func (r *Recognizer) player(p int) *playerInput {
	if p < 0 || p >= MaxPlayers {
		return nil
	}
	return &r.players[p]
}

// KeyDown marks every action bound to key as held.
func (r *Recognizer) KeyDown(key Key) {
	for i := range r.players {
		pl := &r.players[i]
		for a, k := range pl.bindings {
			if k == key && k != "" {
				pl.held[a] = true
			}
		}
	}
}

// KeyUp releases key and re-arms its single-press latch.
func (r *Recognizer) KeyUp(key Key) {
	for i := range r.players {
		pl := &r.players[i]
		for a, k := range pl.bindings {
			if k == key && k != "" {
				pl.held[a] = false
				pl.latched[a] = false
			}
		}
	}
}

// SetHeld drives an action directly, bypassing key bindings.
func (r *Recognizer) SetHeld(p int, a Action, held bool) {
	pl := r.player(p)
	if pl == nil || a < 0 || a >= NumActions {
		return
	}
	pl.held[a] = held
	if !held {
		pl.latched[a] = false
	}
}

// ReleaseAll clears key state for every player, e.g. between rounds.
func (r *Recognizer) ReleaseAll() {
	for i := range r.players {
		r.players[i].held = [NumActions]bool{}
		r.players[i].latched = [NumActions]bool{}
	}
}

// SetFacing tells the recognizer which way forward is for player p.
func (r *Recognizer) SetFacing(p int, facingRight bool) {
	if pl := r.player(p); pl != nil {
		pl.facingRight = facingRight
	}
}

// Update advances every player's clock by dt seconds and buffers held actions.
func (r *Recognizer) Update(dt float64) {
	for p := range r.players {
		r.UpdatePlayer(p, dt)
	}
}

// UpdatePlayer advances only player p.
func (r *Recognizer) UpdatePlayer(p int, dt float64) {
	pl := r.player(p)
	if pl == nil {
		return
	}
	pl.now += time.Duration(dt * float64(time.Second))
	for a := Action(0); a < NumActions; a++ {
		if !pl.held[a] || pl.now < pl.cooldownUntil[a] {
			continue
		}
		r.push(pl, a, pl.now)
		pl.cooldownUntil[a] = pl.now + r.opts.Cooldown
	}
}

// Now returns player p's clock.
func (r *Recognizer) Now(p int) time.Duration {
	if pl := r.player(p); pl != nil {
		return pl.now
	}
	return 0
}

// Push appends an entry directly, for scripted input and replays.
func (r *Recognizer) Push(p int, a Action, ts time.Duration) {
	if pl := r.player(p); pl != nil {
		r.push(pl, a, ts)
	}
}

func (r *Recognizer) push(pl *playerInput, a Action, ts time.Duration) {
	pl.buffer = append(pl.buffer, BufferEntry{Action: a, Timestamp: ts})
	if over := len(pl.buffer) - r.opts.BufferSize; over > 0 {
		pl.buffer = append(pl.buffer[:0], pl.buffer[over:]...)
	}
}

// Buffer returns a copy of player p's action buffer, oldest first.
func (r *Recognizer) Buffer(p int) []BufferEntry {
	pl := r.player(p)
	if pl == nil {
		return nil
	}
	return append([]BufferEntry(nil), pl.buffer...)
}

func (r *Recognizer) ClearBuffer(p int) {
	if pl := r.player(p); pl != nil {
		pl.buffer = pl.buffer[:0]
	}
}

// Held polls a continuous action.
func (r *Recognizer) Held(p int, a Action) bool {
	pl := r.player(p)
	return pl != nil && a >= 0 && a < NumActions && pl.held[a]
}

// Pressed is the single-press check: true once per physical press.
func (r *Recognizer) Pressed(p int, a Action) bool {
	pl := r.player(p)
	if pl == nil || a < 0 || a >= NumActions || !pl.held[a] || pl.latched[a] {
		return false
	}
	pl.latched[a] = true
	return true
}

// CheckSequence scans player p's buffer backwards for seq in order.
// Unrelated entries in between are skipped, but two consecutive matched
// entries may not be further apart than the sequence gap, and the whole
// match must fit in window. window <= 0 uses the default window.
func (r *Recognizer) CheckSequence(seq []Action, p int, window time.Duration) bool {
	pl := r.player(p)
	if pl == nil || len(seq) == 0 {
		return false
	}
	if window <= 0 {
		window = r.opts.SequenceWindow
	}

	want := len(seq) - 1
	var newest, last time.Duration
	matched := false
	for i := len(pl.buffer) - 1; i >= 0 && want >= 0; i-- {
		e := pl.buffer[i]
		if !pl.matches(e.Action, seq[want]) {
			continue
		}
		if !matched {
			newest = e.Timestamp
			matched = true
		} else if last-e.Timestamp > r.opts.SequenceGap {
			return false
		}
		last = e.Timestamp
		want--
	}
	return want < 0 && newest-last <= window
}

func (pl *playerInput) matches(got, want Action) bool {
	if got == want {
		return true
	}
	switch want {
	case ActionForward:
		return (pl.facingRight && got == ActionRight) || (!pl.facingRight && got == ActionLeft)
	case ActionBack:
		return (pl.facingRight && got == ActionLeft) || (!pl.facingRight && got == ActionRight)
	}
	return false
}

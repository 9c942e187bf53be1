// Package match owns the two fighters of a bout and runs the round and
// match protocol on top of them, one deterministic tick at a time.
package match

import (
	"errors"
	"io"
	"log"
	"math"

	"github.com/SKANL/test-game-2d-sub000/src/combat"
	"github.com/SKANL/test-game-2d-sub000/src/event"
	"github.com/SKANL/test-game-2d-sub000/src/fighter"
	"github.com/SKANL/test-game-2d-sub000/src/geom"
)

var (
	ErrTooManyFighters   = errors.New("match: at most two fighters can be registered")
	ErrNotEnoughFighters = errors.New("match: two fighters are required")
)

type Status string

const (
	StatusRoundStart Status = "roundStart"
	StatusPlaying    Status = "playing"
	StatusRoundOver  Status = "roundOver"
	StatusGameOver   Status = "gameOver"
	StatusPaused     Status = "paused"
)

// ParseStatus accepts exactly the names above.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusRoundStart, StatusPlaying, StatusRoundOver, StatusGameOver, StatusPaused:
		return st, true
	}
	return "", false
}

type Reason string

const (
	ReasonNone    Reason = ""
	ReasonKO      Reason = "ko"
	ReasonTimeout Reason = "timeout"
	ReasonMatch   Reason = "match"
)

// NoWinner marks a draw, or a round still being fought.
const NoWinner = -1

type Scores struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

func (s Scores) Of(side int) int {
	if side == 1 {
		return s.P2
	}
	return s.P1
}

func (s *Scores) inc(side int) {
	if side == 1 {
		s.P2++
	} else {
		s.P1++
	}
}

// Settings are the bout rules. Times are in seconds.
type Settings struct {
	RoundTime      float64
	MaxRounds      int
	PreRoundDelay  float64
	RoundOverDelay float64
	TickRate       float64
	MaxDelta       float64
}

var DefaultSettings = Settings{
	RoundTime:      99,
	MaxRounds:      3,
	PreRoundDelay:  1.5,
	RoundOverDelay: 2,
	TickRate:       60,
	MaxDelta:       1.0 / 60,
}

// IntentSource supplies intents for one fighter. Human and computer
// controllers both implement it, the match cannot tell them apart.
type IntentSource interface {
	ProduceIntent(self, opponent *fighter.Fighter, dt float64) (fighter.Intent, bool)
}

type resetter interface{ Reset() }

// Match is the authoritative bout state. It is driven by Tick from a single
// goroutine and holds no references outside of what was registered.
type Match struct {
	Settings Settings

	Status     Status
	Timer      float64
	Round      int
	MaxRounds  int
	Scores     Scores
	Winner     int
	WinnerName string
	WinReason  Reason
	// Countdown is the time left in the roundStart or roundOver sub-state.
	Countdown float64
	Frame     int

	Stats StatsLog

	fighters []*fighter.Fighter
	sources  [2]IntentSource
	pending  event.List
	logger   *log.Logger
}

func New(s Settings, logger *log.Logger) *Match {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if s.MaxRounds <= 0 {
		s.MaxRounds = DefaultSettings.MaxRounds
	}
	if s.MaxRounds%2 == 0 {
		s.MaxRounds++
	}
	if s.RoundTime <= 0 {
		s.RoundTime = DefaultSettings.RoundTime
	}
	if s.TickRate <= 0 {
		s.TickRate = DefaultSettings.TickRate
	}
	if s.MaxDelta <= 0 {
		s.MaxDelta = DefaultSettings.MaxDelta
	}
	return &Match{
		Settings:  s,
		Status:    StatusRoundStart,
		Timer:     s.RoundTime,
		MaxRounds: s.MaxRounds,
		Winner:    NoWinner,
		logger:    logger,
	}
}

// Register adds a fighter with its intent source. The first registered
// fighter is player one. src may be nil for a fighter driven by hand.
func (m *Match) Register(f *fighter.Fighter, src IntentSource) error {
	if len(m.fighters) >= 2 {
		return ErrTooManyFighters
	}
	m.sources[len(m.fighters)] = src
	m.fighters = append(m.fighters, f)
	return nil
}

// SetSource swaps the controller of a side, e.g. when a human takes over.
func (m *Match) SetSource(side int, src IntentSource) {
	if side == 0 || side == 1 {
		m.sources[side] = src
	}
}

// Fighter returns side 0 or 1, nil when not registered.
func (m *Match) Fighter(side int) *fighter.Fighter {
	if side < 0 || side >= len(m.fighters) {
		return nil
	}
	return m.fighters[side]
}

// WinsNeeded is the score that ends the match.
func (m *Match) WinsNeeded() int {
	return int(math.Ceil(float64(m.MaxRounds) / 2))
}

// Start begins round one. It fails unless both fighters are registered.
func (m *Match) Start() error {
	if len(m.fighters) < 2 {
		return ErrNotEnoughFighters
	}
	m.Scores = Scores{}
	m.Round = 1
	m.Frame = 0
	m.Stats.startMatch(m.Settings.RoundTime)
	m.beginRound()
	return nil
}

// ResetMatch discards the current bout and starts over from round one.
func (m *Match) ResetMatch() error {
	return m.Start()
}

// ResetRound replays the current round from its start, scores unchanged.
func (m *Match) ResetRound() {
	if m.Status == StatusGameOver || len(m.fighters) < 2 {
		return
	}
	m.beginRound()
}

func (m *Match) beginRound() {
	m.Timer = m.Settings.RoundTime
	m.Winner, m.WinnerName, m.WinReason = NoWinner, "", ReasonNone
	m.Status = StatusRoundStart
	m.Countdown = m.Settings.PreRoundDelay
	for i, f := range m.fighters {
		f.Reset()
		if r, ok := m.sources[i].(resetter); ok {
			r.Reset()
		}
	}
}

// Pause freezes a round in play. It reports whether anything changed.
func (m *Match) Pause() bool {
	if m.Status != StatusPlaying {
		return false
	}
	m.Status = StatusPaused
	m.pending.Add(event.Event{Kind: event.Paused, Frame: m.Frame, Round: m.Round})
	return true
}

func (m *Match) Resume() bool {
	if m.Status != StatusPaused {
		return false
	}
	m.Status = StatusPlaying
	m.pending.Add(event.Event{Kind: event.Resumed, Frame: m.Frame, Round: m.Round})
	return true
}

// Tick advances the bout by dt seconds, clamped to Settings.MaxDelta, and
// returns what happened for the presentation layer.
func (m *Match) Tick(dt float64) event.List {
	evs := m.pending
	m.pending = nil
	if len(m.fighters) < 2 {
		return evs
	}
	dt = geom.Clamp(dt, 0, m.Settings.MaxDelta)

	switch m.Status {
	case StatusPaused, StatusGameOver:
		return evs
	case StatusRoundStart:
		m.Frame++
		m.idle(dt)
		m.Countdown -= dt
		if m.Countdown <= 0 {
			m.Countdown = 0
			m.Status = StatusPlaying
			evs.Add(event.Event{Kind: event.RoundStarted, Frame: m.Frame, Round: m.Round})
		}
	case StatusPlaying:
		m.Frame++
		evs = append(evs, m.play(dt)...)
	case StatusRoundOver:
		m.Frame++
		m.idle(dt)
		m.Countdown -= dt
		if m.Countdown <= 0 {
			m.Round++
			m.beginRound()
		}
	}
	return evs
}

// idle keeps animations and physics running between rounds without
// accepting intents or resolving hits. Anything queued is dropped.
func (m *Match) idle(dt float64) {
	p1, p2 := m.fighters[0], m.fighters[1]
	p1.ClearIntents()
	p2.ClearIntents()
	p1.Update(dt, p2)
	p2.Update(dt, p1)
}

func (m *Match) play(dt float64) event.List {
	p1, p2 := m.fighters[0], m.fighters[1]

	for i, src := range m.sources {
		if src == nil {
			continue
		}
		self, opp := m.fighters[i], m.fighters[1-i]
		if in, ok := src.ProduceIntent(self, opp, dt); ok {
			self.Enqueue(in)
		}
	}

	m.Timer = geom.Max(m.Timer-dt, 0)

	var evs event.List
	evs = append(evs, p1.Update(dt, p2)...)
	evs = append(evs, p2.Update(dt, p1)...)
	for i := range evs {
		evs[i].Frame = m.Frame
	}
	evs = append(evs, combat.Resolve(m.Frame, p1, p2)...)

	winner, reason, over := m.roundResult()
	if over {
		evs = append(evs, m.award(winner, reason)...)
	}
	return evs
}

// roundResult decides whether the round ended this tick. A knockout takes
// precedence over the clock running out on the same tick, and two fighters
// knocked out together draw the round.
func (m *Match) roundResult() (winner int, reason Reason, over bool) {
	p1, p2 := m.fighters[0], m.fighters[1]
	ko1, ko2 := p1.Health <= 0, p2.Health <= 0
	switch {
	case ko1 && ko2:
		return NoWinner, ReasonKO, true
	case ko1:
		return 1, ReasonKO, true
	case ko2:
		return 0, ReasonKO, true
	}
	if m.Timer > 0 {
		return NoWinner, ReasonNone, false
	}
	switch {
	case p1.Health > p2.Health:
		return 0, ReasonTimeout, true
	case p2.Health > p1.Health:
		return 1, ReasonTimeout, true
	}
	return NoWinner, ReasonTimeout, true
}

// award closes the round. It only runs from StatusPlaying and always leaves
// it, so a round is never scored twice.
func (m *Match) award(winner int, reason Reason) event.List {
	var evs event.List
	if winner != NoWinner {
		m.Scores.inc(winner)
		m.Winner, m.WinnerName = winner, m.fighters[winner].Name
	} else {
		m.Winner, m.WinnerName = NoWinner, ""
	}
	m.WinReason = reason
	m.Stats.addRound(m.roundStats(winner, reason))
	m.logger.Printf("round %d over: winner %d (%s), score %d-%d", m.Round, winner, reason, m.Scores.P1, m.Scores.P2)
	evs.Add(event.Event{Kind: event.RoundEnded, Frame: m.Frame, Round: m.Round, Winner: winner, Reason: string(reason)})

	if side, ok := m.matchWinner(); ok {
		m.Status = StatusGameOver
		m.Winner, m.WinnerName, m.WinReason = side, m.fighters[side].Name, ReasonMatch
		m.Countdown = 0
		m.Stats.finalizeMatch(side)
		m.logger.Printf("match over: %s wins", m.WinnerName)
		evs.Add(event.Event{Kind: event.MatchEnded, Frame: m.Frame, Round: m.Round, Winner: side, Reason: string(ReasonMatch)})
		return evs
	}
	m.Status = StatusRoundOver
	m.Countdown = m.Settings.RoundOverDelay
	return evs
}

func (m *Match) matchWinner() (int, bool) {
	need := m.WinsNeeded()
	switch {
	case m.Scores.P1 >= need:
		return 0, true
	case m.Scores.P2 >= need:
		return 1, true
	}
	return NoWinner, false
}

func (m *Match) roundStats(winner int, reason Reason) StatsRound {
	r := StatsRound{
		Index:    m.Round,
		TimeLeft: m.Timer,
		Winner:   winner,
		Reason:   reason,
		Score:    m.Scores,
	}
	for i, f := range m.fighters {
		won := winner == i
		r.Fighters[i] = StatsFighterState{
			Name:       f.Name,
			Health:     f.Health,
			MaxHealth:  f.MaxHealth,
			SuperMeter: f.SuperMeter,
			Win:        won,
			WinKO:      won && reason == ReasonKO,
			WinTime:    won && reason == ReasonTimeout,
			WinPerfect: won && f.Health >= f.MaxHealth,
			DrawGame:   winner == NoWinner,
			KO:         f.Health <= 0,
		}
	}
	return r
}

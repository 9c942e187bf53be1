package match

// StatsFighterState is one side's end-of-round snapshot.
type StatsFighterState struct {
	Name       string  `json:"name"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"maxHealth"`
	SuperMeter float64 `json:"superMeter"`

	Win        bool `json:"win"`        // this side won the round
	WinKO      bool `json:"winKO"`      // won by KO
	WinTime    bool `json:"winTime"`    // won on time-out
	WinPerfect bool `json:"winPerfect"` // won without losing health
	DrawGame   bool `json:"drawGame"`   // round was declared a draw
	KO         bool `json:"ko"`         // this fighter was KO'd
}

// StatsRound stores one finished round. Index 0 of Fighters is P1.
type StatsRound struct {
	Index    int                  `json:"index"`    // 1-based round number
	TimeLeft float64              `json:"timeLeft"` // round timer when the round ended
	Winner   int                  `json:"winner"`   // side, or NoWinner on a draw
	Reason   Reason               `json:"reason"`
	Score    Scores               `json:"score"` // scores after this round
	Fighters [2]StatsFighterState `json:"fighters"`
}

// StatsMatch aggregates a whole bout.
type StatsMatch struct {
	RoundTime float64 `json:"roundTime"` // configured round length in seconds
	MatchTime float64 `json:"matchTime"` // seconds spent in play across rounds
	WinSide   int     `json:"winSide"`
	LastRound int     `json:"lastRound"`
	Draws     int     `json:"draws"`
	Wins      [2]int  `json:"wins"`

	Rounds []StatsRound `json:"rounds"`
}

// StatsLog is a container for many matches.
type StatsLog struct {
	Matches []StatsMatch `json:"matches"`
}

func (s *StatsLog) startMatch(roundTime float64) {
	s.Matches = append(s.Matches, StatsMatch{RoundTime: roundTime, WinSide: NoWinner})
}

// addRound appends a round to the most recent match, starting one if needed.
func (s *StatsLog) addRound(r StatsRound) {
	m := s.Current()
	if m == nil {
		s.startMatch(0)
		m = s.Current()
	}
	m.add(r)
}

func (m *StatsMatch) add(r StatsRound) {
	m.Rounds = append(m.Rounds, r)
	m.MatchTime += m.RoundTime - r.TimeLeft
	m.LastRound = r.Index
	if r.Winner == NoWinner {
		m.Draws++
	} else {
		m.Wins[r.Winner]++
	}
}

// Counts returns how many matches were started and how many rounds the
// latest one has logged.
func (s *StatsLog) Counts() (matches, rounds int) {
	if m := s.Current(); m != nil {
		rounds = len(m.Rounds)
	}
	return len(s.Matches), rounds
}

// truncate drops whatever was logged after Counts returned matches and
// rounds, then recomputes the tallies of the match it lands in.
func (s *StatsLog) truncate(matches, rounds int) {
	if matches < len(s.Matches) {
		s.Matches = s.Matches[:matches]
	}
	m := s.Current()
	if m == nil {
		return
	}
	kept := m.Rounds
	if rounds < len(kept) {
		kept = kept[:rounds]
	}
	*m = StatsMatch{RoundTime: m.RoundTime, WinSide: NoWinner}
	for _, r := range kept {
		m.add(r)
	}
}

func (s *StatsLog) finalizeMatch(winSide int) {
	if m := s.Current(); m != nil {
		m.WinSide = winSide
	}
}

// Current returns the most recently started match, or nil.
func (s *StatsLog) Current() *StatsMatch {
	if len(s.Matches) == 0 {
		return nil
	}
	return &s.Matches[len(s.Matches)-1]
}

// RewindStats trims the stats log back to counts taken with Counts, for a
// match restored to an earlier state.
func (m *Match) RewindStats(matches, rounds int) {
	m.Stats.truncate(matches, rounds)
	if m.Status == StatusGameOver && m.Winner != NoWinner {
		m.Stats.finalizeMatch(m.Winner)
	}
}

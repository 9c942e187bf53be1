package match

import "github.com/go-gl/mathgl/mgl64"

// FighterView is what a renderer needs from one fighter.
type FighterView struct {
	ID                string
	Name              string
	Position          mgl64.Vec2
	Velocity          mgl64.Vec2
	Health            float64
	MaxHealth         float64
	SuperMeter        float64
	MaxSuperMeter     float64
	State             string
	CurrentFrameIndex int
	IsFlipped         bool
}

// View is a read-only copy of the match, safe to hold across ticks.
type View struct {
	Timer      float64
	Status     Status
	Round      int
	Scores     Scores
	Winner     int
	WinnerName string
	WinReason  Reason
	Fighters   []FighterView
}

func (m *Match) View() View {
	v := View{
		Timer:      m.Timer,
		Status:     m.Status,
		Round:      m.Round,
		Scores:     m.Scores,
		Winner:     m.Winner,
		WinnerName: m.WinnerName,
		WinReason:  m.WinReason,
		Fighters:   make([]FighterView, 0, len(m.fighters)),
	}
	for _, f := range m.fighters {
		v.Fighters = append(v.Fighters, FighterView{
			ID:                f.ID,
			Name:              f.Name,
			Position:          f.Position,
			Velocity:          f.Velocity,
			Health:            f.Health,
			MaxHealth:         f.MaxHealth,
			SuperMeter:        f.SuperMeter,
			MaxSuperMeter:     f.MaxSuperMeter,
			State:             f.State,
			CurrentFrameIndex: f.CurrentFrameIndex,
			IsFlipped:         f.IsFlipped(),
		})
	}
	return v
}

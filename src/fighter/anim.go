package fighter

// placeholder stands in for any animation missing from the character table.
// The presentation layer draws something visible for its empty sprite rect.
var placeholder = &Animation{
	FrameRate: defaultFrameRate,
	Loop:      false,
	Frames:    []Frame{{Type: FrameRecovery, Duration: 1}},
}

// Animation returns the animation for the current state, or the placeholder.
func (f *Fighter) Animation() *Animation {
	if a, ok := f.config.Animations[f.State]; ok {
		return a
	}
	return placeholder
}

// CurrentFrame returns the frame being shown.
func (f *Fighter) CurrentFrame() Frame {
	a := f.Animation()
	if f.CurrentFrameIndex < 0 || f.CurrentFrameIndex >= len(a.Frames) {
		return placeholder.Frames[0]
	}
	return a.Frames[f.CurrentFrameIndex]
}

// animate advances the frame timer, at most one frame per tick.
func (f *Fighter) animate(dt float64) {
	a := f.Animation()
	if f.CurrentFrameIndex >= len(a.Frames) {
		f.CurrentFrameIndex = len(a.Frames) - 1
	}
	f.FrameTimer += dt
	hold := a.Hold(f.CurrentFrameIndex)
	if f.FrameTimer < hold {
		return
	}
	f.FrameTimer -= hold

	if f.CurrentFrameIndex+1 < len(a.Frames) {
		f.CurrentFrameIndex++
		return
	}
	if a.Loop {
		f.CurrentFrameIndex = 0
		return
	}

	next := a.OnEnd
	if next == "" {
		next = StateIdle
	}
	// Hitstun ends on its timer and knockout lasts until the round resets
	if next == f.State || f.State == StateHitstun || f.State == StateKnockedOut {
		f.FrameTimer = 0
		return
	}
	f.setState(next)
}

package fighter

// dispatch maps one intent to a state change. Intents refused by the state
// gates are normal and return true; only intents with no handler at all
// return false.
func (f *Fighter) dispatch(in Intent) bool {
	switch in {
	case IntentForward:
		if f.CanMove() {
			f.setState(StateWalkForward)
			f.Velocity[0] = f.config.Stats.WalkSpeed * f.Direction()
		}
	case IntentBack:
		if f.CanMove() {
			f.setState(StateWalkBackward)
			f.Velocity[0] = -f.config.Stats.BackSpeed * f.Direction()
		}
	case IntentStop:
		if f.CanMove() {
			f.setState(StateIdle)
			f.Velocity[0] = 0
		}
	case IntentDown:
		if f.CanMove() {
			f.setState(StateCrouch)
			f.Velocity[0] = 0
		}
	case IntentJump:
		if f.CanJump() {
			f.setState(StateJump)
			f.Velocity[1] = -f.config.Stats.JumpForce
			f.IsGrounded = false
		}
	case IntentAttack1:
		f.attack(StateLightAttack)
	case IntentAttack2:
		f.attack(StateHeavyAttack)
	default:
		sm, ok := f.config.Special(string(in))
		if !ok {
			f.logger.Printf("%s: ignoring unknown intent %q", f.Name, in)
			return false
		}
		if f.CanAttack() && f.SuperMeter >= sm.MeterCost {
			f.SuperMeter -= sm.MeterCost
			f.attack(sm.State)
		}
	}
	return true
}

func (f *Fighter) attack(state string) {
	if !f.CanAttack() {
		return
	}
	f.setState(state)
	if f.IsGrounded {
		f.Velocity[0] = 0
	}
}

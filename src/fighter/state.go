package fighter

// Built-in state names. Characters may add more through their animation
// table, special move states in particular.
const (
	StateIdle         = "idle"
	StateWalkForward  = "walkForward"
	StateWalkBackward = "walkBackward"
	StateJump         = "jump"
	StateCrouch       = "crouch"
	StateLightAttack  = "lightAttack"
	StateHeavyAttack  = "heavyAttack"
	StateHitstun      = "hitstun"
	StateKnockedOut   = "knockedOut"
)

// Intent is a discrete action queued for a fighter, no matter who produced it.
// Special move intents use the move name.
type Intent string

const (
	IntentForward Intent = "forward"
	IntentBack    Intent = "back"
	IntentAttack1 Intent = "attack1"
	IntentAttack2 Intent = "attack2"
	IntentJump    Intent = "jump"
	IntentStop    Intent = "stop"
	IntentDown    Intent = "down"
)

const maxQueuedIntents = 8

// Stage is the physical space fighters move in. Y grows downwards and the
// fighter anchor sits at the feet, horizontally centered.
type Stage struct {
	Left, Right   float64
	GroundY       float64
	Gravity       float64
	HurtboxWidth  float64
	HurtboxHeight float64
}

var DefaultStage = Stage{
	Left:          0,
	Right:         800,
	GroundY:       400,
	Gravity:       2000,
	HurtboxWidth:  60,
	HurtboxHeight: 110,
}

const (
	horizontalDamping = 0.95
	velocityEpsilon   = 0.5
)

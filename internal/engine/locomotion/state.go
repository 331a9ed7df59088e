package locomotion

// State is the locomotion state derived from intent each tick.
type State uint8

const (
	StateIdle State = iota
	StateWalk
	StateRun
)

// String returns the animation-state tag consumed by renderers.
func (s State) String() string {
	switch s {
	case StateWalk:
		return "walk"
	case StateRun:
		return "run"
	default:
		return "idle"
	}
}

// ParseState converts a tag back into a State.
func ParseState(tag string) (State, bool) {
	switch tag {
	case "idle":
		return StateIdle, true
	case "walk":
		return StateWalk, true
	case "run":
		return StateRun, true
	}
	return StateIdle, false
}

// IsMoving reports whether the state is driven by movement intent.
func (s State) IsMoving() bool {
	return s != StateIdle
}

// stateFor selects the state from intent presence and the running flag.
func stateFor(moving, running bool) State {
	switch {
	case !moving:
		return StateIdle
	case running:
		return StateRun
	default:
		return StateWalk
	}
}

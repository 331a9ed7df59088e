package animation

import (
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// DefaultBlend is used for transitions missing from the blend table.
const DefaultBlend = 0.2

// Transition is a state change from one locomotion state to another.
type Transition struct {
	From locomotion.State
	To   locomotion.State
}

// DefaultBlends returns the cross-fade duration in seconds per transition.
func DefaultBlends() map[Transition]float32 {
	return map[Transition]float32{
		{locomotion.StateIdle, locomotion.StateWalk}: 0.2,
		{locomotion.StateWalk, locomotion.StateIdle}: 0.25,
		{locomotion.StateWalk, locomotion.StateRun}:  0.15,
		{locomotion.StateRun, locomotion.StateWalk}:  0.2,
		{locomotion.StateIdle, locomotion.StateRun}:  0.2,
		{locomotion.StateRun, locomotion.StateIdle}:  0.3,
	}
}

// StateMachine tracks the current animation state and the progress of the
// blend from the previous one.
type StateMachine struct {
	current  locomotion.State
	previous locomotion.State
	elapsed  float32
	duration float32
	blends   map[Transition]float32
}

// NewStateMachine starts idle and fully blended.
func NewStateMachine(blends map[Transition]float32) *StateMachine {
	if blends == nil {
		blends = DefaultBlends()
	}
	return &StateMachine{blends: blends}
}

// Set moves to state to, starting a new blend. Returns the transition and
// true when the state actually changed.
func (m *StateMachine) Set(to locomotion.State) (Transition, bool) {
	if to == m.current {
		return Transition{}, false
	}
	tr := Transition{From: m.current, To: to}
	m.previous = m.current
	m.current = to
	m.elapsed = 0
	m.duration = m.BlendDuration(tr)
	return tr, true
}

// Advance moves the blend forward by dt seconds.
func (m *StateMachine) Advance(dt float32) {
	if m.elapsed < m.duration {
		m.elapsed = min(m.elapsed+dt, m.duration)
	}
}

// BlendDuration returns the configured duration of tr.
func (m *StateMachine) BlendDuration(tr Transition) float32 {
	if d, ok := m.blends[tr]; ok {
		return d
	}
	return DefaultBlend
}

// SetBlends replaces the blend table. The running blend keeps its duration.
func (m *StateMachine) SetBlends(blends map[Transition]float32) {
	if blends == nil {
		blends = DefaultBlends()
	}
	m.blends = blends
}

// Current returns the active state.
func (m *StateMachine) Current() locomotion.State { return m.current }

// Previous returns the state being blended out.
func (m *StateMachine) Previous() locomotion.State { return m.previous }

// Weight returns the blend weight of the current state in [0, 1].
func (m *StateMachine) Weight() float32 {
	if m.duration <= 0 {
		return 1
	}
	return math.Clamp(m.elapsed/m.duration, 0, 1)
}

// Package animation derives a procedural pose from locomotion state and
// elapsed time. The driver is deterministic: replaying the same sequence of
// Update calls yields the same poses, which keeps fixed-timestep tests exact.
package animation

import (
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Params tunes the procedural cycle.
type Params struct {
	WalkCycleRate     float32 // Walk-cycle phase rate (rad/s)
	RunCycleRate      float32 // Run-cycle phase rate (rad/s)
	ThighAmplitude    float32 // Radians
	ShinAmplitude     float32 // Radians
	ArmAmplitude      float32 // Radians
	RunAmplitudeScale float32 // Amplitude multiplier while running
	BobAmount         float32 // Vertical bob height
	BreathRate        float32 // Breathing phase rate (rad/s)
	BreathAmount      float32 // Chest scale offset
	RelaxRate         float32 // Limb relaxation rate when not driven (1/s)
	PhaseDecayRate    float32 // Walk phase decay rate when idle (1/s)
}

// DefaultParams returns a calm humanoid cycle.
func DefaultParams() Params {
	return Params{
		WalkCycleRate:     8,
		RunCycleRate:      12,
		ThighAmplitude:    0.5,
		ShinAmplitude:     0.6,
		ArmAmplitude:      0.4,
		RunAmplitudeScale: 1.5,
		BobAmount:         0.06,
		BreathRate:        2,
		BreathAmount:      0.02,
		RelaxRate:         10,
		PhaseDecayRate:    5,
	}
}

// Pose is the procedural pose for one tick. Limb values are rotations in
// radians around the limb's hinge axis.
type Pose struct {
	WalkPhase   float32
	BreathPhase float32

	LeftThigh  float32
	RightThigh float32
	LeftShin   float32
	RightShin  float32
	LeftArm    float32
	RightArm   float32

	Bob    float32
	Breath float32
}

// LimbMagnitude returns the largest absolute limb rotation.
func (p Pose) LimbMagnitude() float32 {
	var m float32
	for _, v := range p.limbs() {
		m = max(m, math.Abs(v))
	}
	return m
}

func (p *Pose) limbs() [6]float32 {
	return [6]float32{p.LeftThigh, p.RightThigh, p.LeftShin, p.RightShin, p.LeftArm, p.RightArm}
}

func (p *Pose) setLimbs(l [6]float32) {
	p.LeftThigh, p.RightThigh, p.LeftShin, p.RightShin, p.LeftArm, p.RightArm = l[0], l[1], l[2], l[3], l[4], l[5]
}

// Driver owns the pose accumulators and the animation state machine.
type Driver struct {
	params  Params
	machine *StateMachine
	pose    Pose
}

// NewDriver creates a driver at rest.
func NewDriver(params Params, blends map[Transition]float32) *Driver {
	return &Driver{params: params, machine: NewStateMachine(blends)}
}

// Params returns the current tuning.
func (d *Driver) Params() Params { return d.params }

// SetParams replaces the tuning; accumulators are kept.
func (d *Driver) SetParams(p Params) { d.params = p }

// Machine exposes the state machine for blend queries.
func (d *Driver) Machine() *StateMachine { return d.machine }

// Pose returns the last computed pose.
func (d *Driver) Pose() Pose { return d.pose }

// Update advances the pose by dt seconds. speedRatio is the current speed
// over walking speed. The returned transition is valid when changed is true.
func (d *Driver) Update(dt float32, state locomotion.State, speedRatio float32) (Pose, Transition, bool) {
	if dt < 0 {
		dt = 0
	}
	tr, changed := d.machine.Set(state)
	d.machine.Advance(dt)

	if state.IsMoving() {
		d.drive(dt, state, speedRatio)
	} else {
		d.rest(dt)
	}
	return d.pose, tr, changed
}

func (d *Driver) drive(dt float32, state locomotion.State, speedRatio float32) {
	p := d.params
	pose := &d.pose

	rate, scale := p.WalkCycleRate, float32(1)
	if state == locomotion.StateRun {
		rate, scale = p.RunCycleRate, p.RunAmplitudeScale
	}
	amp := math.Clamp(speedRatio, 0, 1) * scale

	pose.WalkPhase = math.WrapAngle(pose.WalkPhase + rate*dt)
	phase := pose.WalkPhase

	driven := [6]float32{
		p.ThighAmplitude * amp * math.Sin(phase),
		p.ThighAmplitude * amp * math.Sin(phase+math.Pi),
		p.ShinAmplitude * amp * max(0, math.Sin(phase-math.Pi/2)),
		p.ShinAmplitude * amp * max(0, math.Sin(phase+math.Pi/2)),
		p.ArmAmplitude * amp * math.Sin(phase+math.Pi),
		p.ArmAmplitude * amp * math.Sin(phase),
	}

	// Blend from whatever pose the previous state left behind.
	w := d.machine.Weight()
	limbs := pose.limbs()
	for i := range limbs {
		limbs[i] += (driven[i] - limbs[i]) * w
	}
	pose.setLimbs(limbs)

	bob := math.Abs(math.Sin(2*phase)) * p.BobAmount
	pose.Bob += (bob - pose.Bob) * w
	pose.Breath = math.Damp(pose.Breath, 0, p.RelaxRate, dt)
}

func (d *Driver) rest(dt float32) {
	p := d.params
	pose := &d.pose

	pose.WalkPhase = math.Damp(pose.WalkPhase, 0, p.PhaseDecayRate, dt)

	limbs := pose.limbs()
	for i := range limbs {
		limbs[i] = math.Damp(limbs[i], 0, p.RelaxRate, dt)
	}
	pose.setLimbs(limbs)
	pose.Bob = math.Damp(pose.Bob, 0, p.RelaxRate, dt)

	pose.BreathPhase = math.WrapAngle(pose.BreathPhase + p.BreathRate*dt)
	breath := math.Sin(pose.BreathPhase) * p.BreathAmount
	pose.Breath = breath
}

// Package appearance turns the simulation state of one tick into what a
// renderer needs to draw the agent. Movement and collision never depend on
// which appearance is in use.
package appearance

import (
	"github.com/Faultbox/planetwalk/internal/engine/animation"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Kind identifies an appearance variant.
type Kind int

const (
	KindProcedural Kind = iota
	KindLoadedModel
)

func (k Kind) String() string {
	if k == KindLoadedModel {
		return "model"
	}
	return "procedural"
}

// Input is the per-tick simulation state handed to an appearance.
type Input struct {
	Position    math.Vec3
	Orientation math.Quat
	State       locomotion.State
	SpeedRatio  float32 // Current speed over walking speed
	Pose        animation.Pose
	Blend       float32 // State machine blend weight in [0, 1]
	BlendTime   float32 // Duration of the active blend (s)
}

// Transform is a world-space placement.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
}

// RenderState is everything a renderer consumes for the agent.
type RenderState struct {
	Kind      Kind
	Transform Transform
	Tag       string // idle, walk or run

	// Clip playback, set by loaded models.
	Clip      string
	ClipRate  float32
	Blend     float32
	BlendTime float32

	// Procedural limb rotations, set by the procedural appearance.
	Pose animation.Pose
}

// Appearance renders the agent.
type Appearance interface {
	Kind() Kind
	Render(in Input) RenderState
}

// Procedural draws a primitive humanoid posed directly from the driver.
type Procedural struct {
	// Height of the body origin above the feet.
	Height float32
}

// NewProcedural returns the placeholder appearance.
func NewProcedural() *Procedural {
	return &Procedural{}
}

func (p *Procedural) Kind() Kind { return KindProcedural }

// Render lifts the body by the bob offset along local up.
func (p *Procedural) Render(in Input) RenderState {
	up := in.Orientation.Rotate(math.Up)
	return RenderState{
		Kind: KindProcedural,
		Transform: Transform{
			Position: in.Position.Add(up.Scale(p.Height + in.Pose.Bob)),
			Rotation: in.Orientation,
		},
		Tag:       in.State.String(),
		Blend:     in.Blend,
		BlendTime: in.BlendTime,
		Pose:      in.Pose,
	}
}

// Package locomotion integrates per-tick movement intent into a validated
// position and heading on the planet surface.
package locomotion

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/internal/logger"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// intentEpsilon is the shortest intent vector that still defines a heading.
const intentEpsilon = 1e-4

// Response is the collision response policy. It applies to every move the
// controller makes.
type Response uint8

const (
	// ResponseBlock freezes translation for the tick.
	ResponseBlock Response = iota
	// ResponseSlide retries the north/south component alone, then the
	// east/west component alone, in the reference tangent frame.
	ResponseSlide
)

// String implements fmt.Stringer.
func (r Response) String() string {
	if r == ResponseSlide {
		return "slide"
	}
	return "block"
}

// ParseResponse parses "block" or "slide".
func ParseResponse(s string) (Response, error) {
	switch s {
	case "", "block":
		return ResponseBlock, nil
	case "slide":
		return ResponseSlide, nil
	}
	return ResponseBlock, fmt.Errorf("unknown collision response %q", s)
}

// Tuning holds the movement constants.
type Tuning struct {
	WalkSpeed    float32  // Units per second
	RunSpeed     float32  // Units per second
	Acceleration float32  // Speed smoothing rate (1/s)
	TurnSpeed    float32  // Heading blend rate (1/s)
	Response     Response // Collision response policy
}

// DefaultTuning returns tuning for a planet of radius ~20.
func DefaultTuning() Tuning {
	return Tuning{
		WalkSpeed:    3,
		RunSpeed:     6,
		Acceleration: 8,
		TurnSpeed:    10,
		Response:     ResponseBlock,
	}
}

// Spawn places the agent: theta/phi as in sphere.Surface.FromSpherical.
type Spawn struct {
	Theta   float32
	Phi     float32
	Heading float32
}

// Agent is the locomotion state. Position always lies on the sphere and
// Heading is always in (-π, π].
type Agent struct {
	Position math.Vec3
	Heading  float32
	// MoveHeading is the heading of travel. It leads Heading while the body
	// turns, and keeps the agent coasting in a straight line when intent stops.
	MoveHeading float32
	Speed       float32
	Frame       sphere.Frame
}

// Step reports what happened during one Update.
type Step struct {
	State   State
	Moved   bool // Position changed this tick
	Blocked bool // A candidate was rejected by the collision field
}

// Controller is the sole writer of the agent's position and heading.
type Controller struct {
	surface sphere.Surface
	field   *collision.Field
	tuning  Tuning
	agent   Agent
	blocked bool
	log     *zap.Logger
}

// NewController spawns the agent. field may be nil for an empty world.
func NewController(surface sphere.Surface, field *collision.Field, tuning Tuning, spawn Spawn) *Controller {
	pos := surface.FromSpherical(spawn.Theta, spawn.Phi)
	heading := math.WrapAngle(spawn.Heading)

	c := &Controller{
		surface: surface,
		field:   field,
		tuning:  tuning,
		log:     logger.Named("locomotion"),
	}
	c.agent = Agent{
		Position:    pos,
		Heading:     heading,
		MoveHeading: heading,
		Frame:       surface.LocalAxes(pos, heading),
	}
	return c
}

// Agent returns a copy of the current state.
func (c *Controller) Agent() Agent {
	return c.agent
}

// Surface returns the surface the agent walks on.
func (c *Controller) Surface() sphere.Surface {
	return c.surface
}

// Tuning returns the current tuning.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SetTuning replaces the tuning; the agent state is untouched.
func (c *Controller) SetTuning(t Tuning) {
	c.tuning = t
}

// Field returns the collision field, possibly nil.
func (c *Controller) Field() *collision.Field {
	return c.field
}

// SetField swaps the collision field, e.g. after the footprint changed.
func (c *Controller) SetField(f *collision.Field) {
	c.field = f
}

// Orientation returns the agent's world rotation.
func (c *Controller) Orientation() math.Quat {
	return c.agent.Frame.Quat()
}

// SpeedRatio returns the current speed relative to walking speed.
func (c *Controller) SpeedRatio() float32 {
	if c.tuning.WalkSpeed <= 0 {
		return 0
	}
	return c.agent.Speed / c.tuning.WalkSpeed
}

// Update advances the agent by dt seconds.
func (c *Controller) Update(dt float32, in Input) Step {
	if dt < 0 {
		dt = 0
	}
	a := &c.agent
	t := c.tuning

	dir := in.MovementDirection()
	moving := in.IsMoving()
	running := moving && in.IsRunning()
	step := Step{State: stateFor(moving, running)}

	// 1. Speed eases toward the state's target instead of jumping.
	var target float32
	switch step.State {
	case StateRun:
		target = t.RunSpeed
	case StateWalk:
		target = t.WalkSpeed
	}
	a.Speed = math.Clamp(math.Damp(a.Speed, target, t.Acceleration, dt), 0, t.RunSpeed)

	// 2. Turn along the shortest wrapped path. A zero-length intent has no
	// heading, so the previous one is kept.
	if moving && dir.Length() > intentEpsilon {
		targetHeading := dir.Angle()
		delta := math.AngleDelta(a.Heading, targetHeading)
		a.Heading = math.WrapAngle(a.Heading + delta*math.Clamp(t.TurnSpeed*dt, 0, 1))
		a.MoveHeading = targetHeading
	}

	// 3. Orientation leads translation: the frame uses the new heading at
	// the pre-move position.
	frame := c.surface.LocalAxes(a.Position, a.Heading)

	// 4-5. Step along the travel heading and validate.
	if distance := a.Speed * dt; distance > 0 {
		rel := a.MoveHeading - a.Heading
		moveDir := frame.Forward.Scale(math.Cos(rel)).
			Add(frame.Right.Scale(math.Sin(rel))).
			Normalize()
		step.Moved, step.Blocked = c.translate(moveDir, distance)
	}

	// 6. Re-project unconditionally to absorb drift.
	a.Position = c.surface.ProjectToSurface(a.Position)
	a.Frame = c.surface.LocalAxes(a.Position, a.Heading)

	c.noteBlocked(step.Blocked)
	return step
}

func (c *Controller) translate(dir math.Vec3, distance float32) (moved, blocked bool) {
	if c.tryMove(dir, distance) {
		return true, false
	}
	if c.tuning.Response != ResponseSlide {
		return false, true
	}

	ref := c.surface.LocalAxes(c.agent.Position, 0)
	parts := [2]math.Vec3{
		ref.Forward.Scale(dir.Dot(ref.Forward)),
		ref.Right.Scale(dir.Dot(ref.Right)),
	}
	for _, part := range parts {
		l := part.Length()
		if l < intentEpsilon {
			continue
		}
		if c.tryMove(part.Scale(1/l), distance*l) {
			return true, true
		}
	}
	return false, true
}

func (c *Controller) tryMove(dir math.Vec3, distance float32) bool {
	candidate := c.surface.MoveOnSurface(c.agent.Position, dir, distance)
	if !c.field.CanMoveTo(candidate, c.surface.LocalAxes(candidate, c.agent.Heading)) {
		return false
	}
	c.agent.Position = candidate
	return true
}

// noteBlocked logs bump transitions rather than every blocked tick.
func (c *Controller) noteBlocked(blocked bool) {
	if blocked == c.blocked {
		return
	}
	c.blocked = blocked
	if blocked {
		c.log.Debug("movement blocked",
			zap.Float32("heading", c.agent.Heading),
			zap.Float32("speed", c.agent.Speed),
		)
	} else {
		c.log.Debug("movement clear")
	}
}

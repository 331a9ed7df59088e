// Package camera provides the third-person follow rig and the orbit camera
// used by the debug overview.
package camera

import (
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// FollowRig trails the agent from behind and above, following the local
// tangent frame so the horizon stays level on any part of the planet.
type FollowRig struct {
	FollowDistance float32 // Distance behind the agent along -forward
	FollowHeight   float32 // Height above the agent along up
	Smoothing      float32 // Exponential smoothing rate (1/s)

	// Idle sway is cosmetic; zero amplitude disables it.
	SwayAmount float32
	SwayRate   float32

	position math.Vec3
	lookAt   math.Vec3
	up       math.Vec3
	target   math.Vec3

	swayPhase float32
	placed    bool
}

// NewFollowRig creates a rig with the given framing.
func NewFollowRig(distance, height, smoothing float32) *FollowRig {
	return &FollowRig{
		FollowDistance: distance,
		FollowHeight:   height,
		Smoothing:      smoothing,
		SwayRate:       0.7,
		up:             math.Up,
	}
}

// Update moves the rig toward its target for agentPos and frame. The first
// call snaps directly to the target.
func (r *FollowRig) Update(dt float32, agentPos math.Vec3, frame sphere.Frame) {
	target := agentPos.
		Add(frame.Forward.Scale(-r.FollowDistance)).
		Add(frame.Up.Scale(r.FollowHeight))

	if r.SwayAmount != 0 {
		r.swayPhase = math.WrapAngle(r.swayPhase + r.SwayRate*dt)
		target = target.Add(frame.Right.Scale(math.Sin(r.swayPhase) * r.SwayAmount))
	}

	r.target = target
	r.up = frame.Up

	if !r.placed {
		r.position = target
		r.lookAt = agentPos
		r.placed = true
		return
	}

	k := math.DampFactor(r.Smoothing, dt)
	r.position = r.position.Lerp(target, k)
	r.lookAt = r.lookAt.Lerp(agentPos, k)
}

// Reset makes the next Update snap again, e.g. after a teleport.
func (r *FollowRig) Reset() {
	r.placed = false
}

// Position returns the smoothed camera position.
func (r *FollowRig) Position() math.Vec3 { return r.position }

// LookAt returns the smoothed look-at point.
func (r *FollowRig) LookAt() math.Vec3 { return r.lookAt }

// Up returns the camera up vector, the agent's local up.
func (r *FollowRig) Up() math.Vec3 { return r.up }

// Target returns the position the rig is converging on.
func (r *FollowRig) Target() math.Vec3 { return r.target }

// ViewMatrix returns the view matrix for the current rig state.
func (r *FollowRig) ViewMatrix() math.Mat4 {
	return math.LookAt(r.position, r.lookAt, r.up)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera framing a planet of the given
// radius centred at the origin.
func NewOrbitCamera(radius float32) *OrbitCamera {
	c := &OrbitCamera{
		RotationX:       0.5,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.FitToSphere(math.Vec3{}, radius)
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math.Cos(c.RotationX)
	offset := math.Vec3{
		X: c.Distance * cp * math.Sin(c.RotationY),
		Y: c.Distance * math.Sin(c.RotationX),
		Z: c.Distance * cp * math.Cos(c.RotationY),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToSphere centres the camera on a sphere and backs off far enough to
// see all of it.
func (c *OrbitCamera) FitToSphere(center math.Vec3, radius float32) {
	c.Center = center
	c.MinDistance = radius * 1.2
	c.MaxDistance = radius * 20
	c.Distance = radius * 3.5
}

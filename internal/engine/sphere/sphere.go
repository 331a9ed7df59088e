// Package sphere maps points to and from the surface of a planet and builds
// the local up/forward/right frame an agent stands in.
//
// Movement uses a chord approximation: a step is taken in the tangent plane
// and the result is projected back onto the sphere. For per-tick distances
// that are small relative to the radius the error against a true
// great-circle step is negligible.
package sphere

import (
	gomath "math"

	"github.com/Faultbox/planetwalk/pkg/math"
)

// degenerateEpsilon is the squared tangent length below which the reference
// direction is considered parallel to the surface normal.
const degenerateEpsilon = 1e-8

// Frame is an orthonormal, right-handed local frame on the surface.
type Frame struct {
	Up      math.Vec3
	Forward math.Vec3
	Right   math.Vec3
}

// Surface is a sphere of fixed radius centred on the origin.
type Surface struct {
	Radius float32

	// Reference is the world direction that heading 0 faces after it has
	// been projected onto the tangent plane.
	Reference math.Vec3
}

// New creates a surface with the given radius and the world +Y axis as the
// heading reference.
func New(radius float32) Surface {
	return Surface{Radius: radius, Reference: math.Up}
}

// ProjectToSurface returns the point on the sphere along p's direction.
// The origin maps to the reference pole.
func (s Surface) ProjectToSurface(p math.Vec3) math.Vec3 {
	return s.ProjectWithHeight(p, 0)
}

// ProjectWithHeight returns the point at height h above the surface along
// p's direction.
func (s Surface) ProjectWithHeight(p math.Vec3, h float32) math.Vec3 {
	n := p.Normalize()
	if n == (math.Vec3{}) {
		n = s.reference()
	}
	return n.Scale(s.Radius + h)
}

// LocalAxes returns the frame at p facing heading radians away from the
// projected reference direction, measured toward the frame's right.
// The tangent plane moves with p, so the frame must be rebuilt whenever
// either argument changes.
func (s Surface) LocalAxes(p math.Vec3, heading float32) Frame {
	up := p.Normalize()
	if up == (math.Vec3{}) {
		up = s.reference()
	}

	ref := s.tangentReference(up)
	forward := ref.RotateAround(up, heading).RejectFrom(up).Normalize()
	right := up.Cross(forward).Normalize()

	return Frame{Up: up, Forward: forward, Right: right}
}

// Orientation returns the rotation taking world X/Y/Z onto the frame's
// right/up/forward at p and heading.
func (s Surface) Orientation(p math.Vec3, heading float32) math.Quat {
	return s.LocalAxes(p, heading).Quat()
}

// MoveOnSurface steps distance along the tangent direction dir and projects
// the result back onto the sphere.
func (s Surface) MoveOnSurface(p, dir math.Vec3, distance float32) math.Vec3 {
	return s.ProjectToSurface(p.Add(dir.Scale(distance)))
}

// FromSpherical returns the surface point at polar angle phi (from +Y) and
// azimuth theta (around +Y, 0 along +Z).
func (s Surface) FromSpherical(theta, phi float32) math.Vec3 {
	sinPhi := math.Sin(phi)
	return math.Vec3{
		X: s.Radius * sinPhi * math.Sin(theta),
		Y: s.Radius * math.Cos(phi),
		Z: s.Radius * sinPhi * math.Cos(theta),
	}
}

// ToSpherical is the inverse of FromSpherical for any point off the centre.
// Theta is in (-pi, pi].
func ToSpherical(p math.Vec3) (theta, phi float32) {
	n := p.Normalize()
	theta = float32(gomath.Atan2(float64(n.X), float64(n.Z)))
	phi = float32(gomath.Acos(float64(math.Clamp(n.Y, -1, 1))))
	return theta, phi
}

// AngularDistance returns the angle in radians between two points as seen
// from the planet centre.
func AngularDistance(a, b math.Vec3) float32 {
	na, nb := a.Normalize(), b.Normalize()
	return float32(gomath.Atan2(float64(na.Cross(nb).Length()), float64(na.Dot(nb))))
}

// Quat re-orthogonalizes the frame and returns it as a rotation.
func (f Frame) Quat() math.Quat {
	o := f.Orthonormalize()
	return math.QuatFromBasis(o.Right, o.Up, o.Forward)
}

// Orthonormalize runs Gram-Schmidt on the frame, keeping Up fixed.
func (f Frame) Orthonormalize() Frame {
	up := f.Up.Normalize()
	forward := f.Forward.RejectFrom(up).Normalize()
	right := up.Cross(forward)
	return Frame{Up: up, Forward: forward, Right: right}
}

// tangentReference projects the reference onto the tangent plane at up,
// falling back to world X and then Z at the reference poles.
func (s Surface) tangentReference(up math.Vec3) math.Vec3 {
	candidates := [...]math.Vec3{s.reference(), {X: 1}, {Z: 1}}
	for _, c := range candidates {
		t := c.RejectFrom(up)
		if t.LengthSq() > degenerateEpsilon {
			return t.Normalize()
		}
	}
	// Unreachable for a unit up vector: X and Z cannot both be parallel to it.
	return math.Vec3{X: 1}
}

func (s Surface) reference() math.Vec3 {
	r := s.Reference.Normalize()
	if r == (math.Vec3{}) {
		return math.Up
	}
	return r
}

package collision

import (
	gomath "math"

	"github.com/Faultbox/planetwalk/pkg/math"
)

// Collider is a static obstacle volume.
type Collider interface {
	// ID identifies the obstacle in hits and events.
	ID() string
	// IntersectRay returns the distance to the first surface crossing along
	// r. A ray starting inside the volume hits at distance 0.
	IntersectRay(r Ray) (t float32, hit bool)
	// Contains reports whether p lies inside the volume.
	Contains(p math.Vec3) bool
	// Bounds returns a bounding sphere used for broad-phase rejection.
	Bounds() (center math.Vec3, radius float32)
}

// Sphere is a spherical obstacle such as a rock or a tree crown.
type Sphere struct {
	Name   string
	Center math.Vec3
	Radius float32
}

// ID implements Collider.
func (s Sphere) ID() string { return s.Name }

// Bounds implements Collider.
func (s Sphere) Bounds() (math.Vec3, float32) { return s.Center, s.Radius }

// Contains implements Collider.
func (s Sphere) Contains(p math.Vec3) bool {
	return p.Sub(s.Center).LengthSq() <= s.Radius*s.Radius
}

// IntersectRay implements Collider.
func (s Sphere) IntersectRay(r Ray) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	c := oc.LengthSq() - s.Radius*s.Radius
	if c <= 0 {
		return 0, true
	}
	b := oc.Dot(r.Direction)
	if b > 0 {
		// Outside and pointing away.
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - float32(gomath.Sqrt(float64(disc))), true
}

// Box is an oriented box, typically a building standing on the surface with
// its local Y axis along the surface normal.
type Box struct {
	Name        string
	Center      math.Vec3
	HalfExtents math.Vec3
	Rotation    math.Quat
}

// ID implements Collider.
func (b Box) ID() string { return b.Name }

// Bounds implements Collider.
func (b Box) Bounds() (math.Vec3, float32) { return b.Center, b.HalfExtents.Length() }

// Contains implements Collider.
func (b Box) Contains(p math.Vec3) bool {
	return b.local().Contains(b.toLocal(p))
}

// IntersectRay implements Collider.
func (b Box) IntersectRay(r Ray) (float32, bool) {
	inv := b.Rotation.Conjugate()
	local := Ray{
		Origin:    b.toLocal(r.Origin),
		Direction: inv.Rotate(r.Direction),
	}
	box := b.local()
	if box.Contains(local.Origin) {
		return 0, true
	}
	return box.IntersectRay(local)
}

func (b Box) local() AABB {
	return NewAABB(b.HalfExtents.Negate(), b.HalfExtents)
}

func (b Box) toLocal(p math.Vec3) math.Vec3 {
	return b.Rotation.Conjugate().Rotate(p.Sub(b.Center))
}

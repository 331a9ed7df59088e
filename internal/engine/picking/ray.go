// Package picking turns viewer clicks into rays and finds what they hit on
// the planet.
package picking

import (
	gomath "math"

	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Eye describes a perspective camera.
type Eye struct {
	Position math.Vec3
	LookAt   math.Vec3
	Up       math.Vec3
	FOV      float32 // Vertical field of view (radians)
}

// ScreenToRay converts pixel coordinates to a world-space ray from the eye.
func ScreenToRay(screenX, screenY float32, width, height int, eye Eye) collision.Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/float32(width) - 1
	ndcY := 1 - 2*screenY/float32(height) // Flip Y

	forward := eye.LookAt.Sub(eye.Position).Normalize()
	right := forward.Cross(eye.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := float32(gomath.Tan(float64(eye.FOV) / 2))
	aspect := float32(width) / float32(max(height, 1))

	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf))

	return collision.Ray{Origin: eye.Position, Direction: dir.Normalize()}
}

// IntersectSphere returns the nearest non-negative distance at which r
// meets the sphere. A ray starting inside returns the exit distance.
func IntersectSphere(r collision.Ray, center math.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.LengthSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))
	if t := -b - sq; t >= 0 {
		return t, true
	}
	if t := -b + sq; t >= 0 {
		return t, true
	}
	return 0, false
}

// Result is what a pick ray hit first.
type Result struct {
	ID     string // Collider name; empty for bare ground
	Point  math.Vec3
	Theta  float32 // Spherical coordinates of the ground under Point
	Phi    float32
	Ground bool
}

// Pick casts r against the colliders and the planet surface. Colliders on
// the far side of the planet are hidden by it.
func Pick(field *collision.Field, surface sphere.Surface, r collision.Ray, far float32) (Result, bool) {
	limit := far
	groundT, ground := IntersectSphere(r, math.Vec3{}, surface.Radius)
	if ground && groundT < limit {
		limit = groundT
	}

	if field != nil {
		if hit, ok := field.Raycast(r, limit); ok {
			theta, phi := sphere.ToSpherical(hit.Point)
			return Result{ID: hit.ID, Point: hit.Point, Theta: theta, Phi: phi}, true
		}
	}

	if !ground || groundT > far {
		return Result{}, false
	}
	p := r.At(groundT)
	theta, phi := sphere.ToSpherical(p)
	return Result{Point: p, Theta: theta, Phi: phi, Ground: true}, true
}

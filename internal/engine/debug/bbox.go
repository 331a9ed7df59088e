// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Segment is a world-space line.
type Segment struct {
	A, B math.Vec3
}

// BoxWireframe returns the 12 edges of an oriented box.
func BoxWireframe(box collision.Box) []Segment {
	h := box.HalfExtents
	corner := func(sx, sy, sz float32) math.Vec3 {
		local := math.Vec3{X: sx * h.X, Y: sy * h.Y, Z: sz * h.Z}
		return box.Center.Add(box.Rotation.Rotate(local))
	}

	// Bottom face, top face, then vertical edges.
	b := [4]math.Vec3{corner(-1, -1, -1), corner(1, -1, -1), corner(1, -1, 1), corner(-1, -1, 1)}
	t := [4]math.Vec3{corner(-1, 1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(-1, 1, 1)}

	edges := make([]Segment, 0, BoxEdgeCount)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		edges = append(edges, Segment{b[i], b[j]}, Segment{t[i], t[j]}, Segment{b[i], t[i]})
	}
	return edges
}

// BoxEdgeCount is the number of edges in a box wireframe.
const BoxEdgeCount = 12

// Circle returns a closed polyline of segments around center in the plane
// spanned by u and v (both unit, orthogonal).
func Circle(center, u, v math.Vec3, radius float32, segments int) []Segment {
	if segments < 3 {
		segments = 3
	}
	out := make([]Segment, 0, segments)
	point := func(i int) math.Vec3 {
		a := 2 * math.Pi * float32(i) / float32(segments)
		return center.Add(u.Scale(radius * math.Cos(a))).Add(v.Scale(radius * math.Sin(a)))
	}
	prev := point(0)
	for i := 1; i <= segments; i++ {
		next := point(i)
		out = append(out, Segment{prev, next})
		prev = next
	}
	return out
}

// SphereWireframe returns three orthogonal great circles of a sphere
// collider.
func SphereWireframe(s collision.Sphere, segments int) []Segment {
	x := math.Vec3{X: 1}
	y := math.Vec3{Y: 1}
	z := math.Vec3{Z: 1}
	out := Circle(s.Center, x, y, s.Radius, segments)
	out = append(out, Circle(s.Center, y, z, s.Radius, segments)...)
	return append(out, Circle(s.Center, z, x, s.Radius, segments)...)
}

// ColliderWireframe dispatches on the collider type. Unknown colliders are
// drawn as their bounding sphere.
func ColliderWireframe(c collision.Collider, segments int) []Segment {
	switch v := c.(type) {
	case collision.Box:
		return BoxWireframe(v)
	case collision.Sphere:
		return SphereWireframe(v, segments)
	default:
		center, radius := c.Bounds()
		return SphereWireframe(collision.Sphere{Center: center, Radius: radius}, segments)
	}
}

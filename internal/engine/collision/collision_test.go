package collision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/pkg/math"
)

func TestAABBIntersectRay(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"straight in", Ray{math.Vec3{Z: -5}, math.Vec3{Z: 1}}, true, 4},
		{"miss", Ray{math.Vec3{X: 3, Z: -5}, math.Vec3{Z: 1}}, false, 0},
		{"pointing away", Ray{math.Vec3{Z: -5}, math.Vec3{Z: -1}}, false, 0},
		{"from inside", Ray{math.Vec3{}, math.Vec3{X: 1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := box.IntersectRay(tt.ray)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, 1e-5)
			}
		})
	}
}

func TestSphereIntersectRay(t *testing.T) {
	s := Sphere{Name: "rock", Center: math.Vec3{Z: 5}, Radius: 1}

	got, hit := s.IntersectRay(Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	require.True(t, hit)
	assert.InDelta(t, 4, got, 1e-5)

	_, hit = s.IntersectRay(Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: -1}})
	assert.False(t, hit)

	got, hit = s.IntersectRay(Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{X: 1}})
	assert.True(t, hit, "ray from inside must hit")
	assert.Zero(t, got)
}

func TestBoxOrientedIntersect(t *testing.T) {
	// A long thin wall along world X, rotated 90 degrees around Y so it runs along Z.
	b := Box{
		Name:        "wall",
		Center:      math.Vec3{X: 5},
		HalfExtents: math.Vec3{X: 3, Y: 1, Z: 0.1},
		Rotation:    math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Pi/2),
	}

	got, hit := b.IntersectRay(Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}})
	require.True(t, hit)
	assert.InDelta(t, 4.9, got, 1e-4)

	// Rotated, the wall extends 3 units along Z.
	assert.True(t, b.Contains(math.Vec3{X: 5, Z: 2.5}))
	assert.False(t, b.Contains(math.Vec3{X: 7, Z: 0}))
}

func TestNewFieldValidation(t *testing.T) {
	_, err := NewField(DefaultConfig(), Sphere{Name: "a", Radius: 0})
	assert.True(t, errors.Is(err, ErrInvalidCollider))

	_, err = NewField(DefaultConfig(),
		Sphere{Name: "a", Radius: 1},
		Sphere{Name: "a", Center: math.Vec3{X: 4}, Radius: 1},
	)
	assert.ErrorIs(t, err, ErrInvalidCollider)

	_, err = NewField(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidCollider)
}

func TestEmptyFieldAlwaysPassable(t *testing.T) {
	s := sphere.New(10)
	var nilField *Field
	f, err := NewField(DefaultConfig())
	require.NoError(t, err)

	p := s.FromSpherical(0.3, 1.2)
	frame := s.LocalAxes(p, 0)
	assert.True(t, f.CanMoveTo(p, frame))
	assert.True(t, nilField.CanMoveTo(p, frame))
}

func TestCanMoveToBlocksNearObstacle(t *testing.T) {
	s := sphere.New(20)
	cfg := DefaultConfig()

	spawn := s.FromSpherical(0, math.Pi/2)
	frame := s.LocalAxes(spawn, 0)

	// Rock two units ahead along the surface, tall enough to cover the probe height.
	rockCenter := s.MoveOnSurface(spawn, frame.Forward, 2)
	rock := Sphere{Name: "rock", Center: rockCenter, Radius: 1}

	f, err := NewField(cfg, rock)
	require.NoError(t, err)

	assert.True(t, f.CanMoveTo(spawn, frame), "spawn is clear")

	close := s.MoveOnSurface(spawn, frame.Forward, 0.8)
	assert.False(t, f.CanMoveTo(close, s.LocalAxes(close, 0)), "probe reaches the rock")

	inside := rockCenter
	assert.False(t, f.CanMoveTo(inside, s.LocalAxes(inside, 0)), "inside the rock")

	// A point off to the side, outside probe range.
	side := s.MoveOnSurface(rockCenter, s.LocalAxes(rockCenter, 0).Right, 2)
	assert.True(t, f.CanMoveTo(side, s.LocalAxes(side, 0)))
}

func TestCanMoveToChecksAllDirections(t *testing.T) {
	s := sphere.New(20)
	spawn := s.FromSpherical(0, math.Pi/2)
	frame := s.LocalAxes(spawn, 0)
	probeOrigin := spawn.Add(frame.Up.Scale(DefaultConfig().AgentHeight))

	for name, dir := range map[string]math.Vec3{
		"behind": frame.Forward.Negate(),
		"right":  frame.Right,
		"left":   frame.Right.Negate(),
	} {
		t.Run(name, func(t *testing.T) {
			post := Sphere{Name: name, Center: probeOrigin.Add(dir.Scale(0.6)), Radius: 0.3}
			f, err := NewField(DefaultConfig(), post)
			require.NoError(t, err)
			assert.False(t, f.CanMoveTo(spawn, frame))
		})
	}
}

func TestRaycastNearest(t *testing.T) {
	f, err := NewField(DefaultConfig(),
		Sphere{Name: "far", Center: math.Vec3{Z: 10}, Radius: 1},
		Sphere{Name: "near", Center: math.Vec3{Z: 5}, Radius: 1},
	)
	require.NoError(t, err)

	hit, ok := f.Raycast(Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}}, 20)
	require.True(t, ok)
	assert.Equal(t, "near", hit.ID)
	assert.InDelta(t, 4, hit.Distance, 1e-5)
	assert.InDelta(t, 4, hit.Point.Z, 1e-5)

	_, ok = f.Raycast(Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}}, 3)
	assert.False(t, ok, "beyond far")
}

// Package collision holds the static obstacle set the agent walks around and
// answers short directional ray queries against it.
package collision

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/internal/logger"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// ErrInvalidCollider is returned by NewField for unusable obstacle data.
var ErrInvalidCollider = errors.New("invalid collider")

// Config describes the agent footprint used for movement checks.
type Config struct {
	AgentRadius float32 // Footprint radius
	AgentHeight float32 // Height above the surface the probe rays start at
	Epsilon     float32 // Extra clearance added to the probe length
}

// DefaultConfig returns the footprint of a small humanoid.
func DefaultConfig() Config {
	return Config{
		AgentRadius: 0.4,
		AgentHeight: 0.5,
		Epsilon:     0.05,
	}
}

// Probe returns the probe ray length.
func (c Config) Probe() float32 {
	return c.AgentRadius + c.Epsilon
}

// Hit describes a ray hit against the field.
type Hit struct {
	ID       string
	Distance float32
	Point    math.Vec3
}

type entry struct {
	collider Collider
	center   math.Vec3
	radius   float32
}

// Field is an immutable set of obstacles. It is built once from scene data
// and never changes for the rest of the session.
type Field struct {
	cfg     Config
	entries []entry
}

// NewField validates the colliders and builds the field.
func NewField(cfg Config, colliders ...Collider) (*Field, error) {
	f := &Field{cfg: cfg, entries: make([]entry, 0, len(colliders))}
	seen := make(map[string]struct{}, len(colliders))

	for i, c := range colliders {
		if c == nil {
			return nil, fmt.Errorf("collider %d is nil: %w", i, ErrInvalidCollider)
		}
		center, radius := c.Bounds()
		if !center.IsFinite() || radius <= 0 {
			return nil, fmt.Errorf("collider %q has empty or non-finite bounds: %w", c.ID(), ErrInvalidCollider)
		}
		if id := c.ID(); id != "" {
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("duplicate collider id %q: %w", id, ErrInvalidCollider)
			}
			seen[id] = struct{}{}
		}
		f.entries = append(f.entries, entry{collider: c, center: center, radius: radius})
	}

	logger.Debug("collision field built",
		zap.Int("colliders", len(f.entries)),
		zap.Float32("probe", cfg.Probe()),
	)
	return f, nil
}

// Config returns the footprint the field checks against.
func (f *Field) Config() Config {
	return f.cfg
}

// Len returns the number of obstacles.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// CanMoveTo reports whether the agent may stand at candidate, a point on the
// surface whose local frame is frame. Four probe rays are cast from
// AgentHeight above the candidate along ±forward and ±right. This is a
// cylindrical footprint approximation, not a swept capsule.
func (f *Field) CanMoveTo(candidate math.Vec3, frame sphere.Frame) bool {
	if f.Len() == 0 {
		return true
	}

	origin := candidate.Add(frame.Up.Scale(f.cfg.AgentHeight))
	far := f.cfg.Probe()
	dirs := [4]math.Vec3{
		frame.Forward,
		frame.Forward.Negate(),
		frame.Right,
		frame.Right.Negate(),
	}

	for _, e := range f.entries {
		if !e.near(origin, far) {
			continue
		}
		if e.collider.Contains(origin) {
			return false
		}
		for _, d := range dirs {
			if t, hit := e.collider.IntersectRay(Ray{Origin: origin, Direction: d}); hit && t <= far {
				return false
			}
		}
	}
	return true
}

// Raycast returns the nearest obstacle hit within far of the ray origin.
func (f *Field) Raycast(r Ray, far float32) (Hit, bool) {
	best := Hit{Distance: far}
	found := false

	for i := range f.entries {
		e := &f.entries[i]
		if !e.near(r.Origin, far) {
			continue
		}
		t, hit := e.collider.IntersectRay(r)
		if !hit || t > best.Distance {
			continue
		}
		best = Hit{ID: e.collider.ID(), Distance: t, Point: r.At(t)}
		found = true
	}
	return best, found
}

// Colliders returns the obstacles in registration order.
func (f *Field) Colliders() []Collider {
	out := make([]Collider, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.collider
	}
	return out
}

// near is the broad-phase test: can anything within reach of p touch the
// collider's bounding sphere.
func (e *entry) near(p math.Vec3, reach float32) bool {
	r := e.radius + reach
	return p.Sub(e.center).LengthSq() <= r*r
}

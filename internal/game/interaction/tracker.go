// Package interaction tracks which registered points of interest are within
// reach of the agent and reports range changes on the event bus.
package interaction

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/game/events"
	"github.com/Faultbox/planetwalk/internal/logger"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// ErrInvalidPoint is returned for points with a missing ID, a duplicate ID
// or a non-positive range.
var ErrInvalidPoint = errors.New("invalid interaction point")

// Point is something the agent can interact with when close enough.
type Point struct {
	ID       string
	Position math.Vec3
	Range    float32
}

// Tracker keeps the in-range set. A point is entered when the agent is
// within Range and left once it is beyond Range*(1+Hysteresis), so standing
// on the boundary does not flicker.
type Tracker struct {
	points     []Point
	hysteresis float32
	bus        *events.Bus

	inRange map[string]bool
	nearest string
}

// NewTracker validates points and returns a tracker with nothing in range.
// bus may be nil.
func NewTracker(points []Point, hysteresis float32, bus *events.Bus) (*Tracker, error) {
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w: empty id", ErrInvalidPoint)
		case seen[p.ID]:
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPoint, p.ID)
		case !(p.Range > 0):
			return nil, fmt.Errorf("%w: %q range %v", ErrInvalidPoint, p.ID, p.Range)
		case !p.Position.IsFinite():
			return nil, fmt.Errorf("%w: %q position not finite", ErrInvalidPoint, p.ID)
		}
		seen[p.ID] = true
	}
	if hysteresis < 0 {
		hysteresis = 0
	}

	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].ID < pts[j].ID })

	return &Tracker{
		points:     pts,
		hysteresis: hysteresis,
		bus:        bus,
		inRange:    make(map[string]bool),
	}, nil
}

// SetHysteresis changes the exit margin.
func (t *Tracker) SetHysteresis(h float32) {
	t.hysteresis = max(h, 0)
}

// Update recomputes range membership for agentPos, publishes enter/exit
// events, and returns the nearest in-range point.
func (t *Tracker) Update(tick uint64, agentPos math.Vec3) (string, bool) {
	t.nearest = ""
	best := float32(-1)

	for _, p := range t.points {
		d := agentPos.Distance(p.Position)
		was := t.inRange[p.ID]

		now := was
		if !was && d <= p.Range {
			now = true
		} else if was && d > p.Range*(1+t.hysteresis) {
			now = false
		}

		if now != was {
			kind := events.ExitedRange
			if now {
				kind = events.EnteredRange
				t.inRange[p.ID] = true
			} else {
				delete(t.inRange, p.ID)
			}
			t.publish(events.Event{Kind: kind, Tick: tick, Subject: p.ID, Position: agentPos})
		}

		if now && (best < 0 || d < best) {
			best = d
			t.nearest = p.ID
		}
	}
	return t.nearest, t.nearest != ""
}

// Nearest returns the closest in-range point from the last Update.
func (t *Tracker) Nearest() (string, bool) {
	return t.nearest, t.nearest != ""
}

// InRange reports whether id is currently in range.
func (t *Tracker) InRange(id string) bool {
	return t.inRange[id]
}

// Points returns the registered points sorted by ID.
func (t *Tracker) Points() []Point {
	return append([]Point(nil), t.points...)
}

func (t *Tracker) publish(e events.Event) {
	logger.Debug("interaction range changed",
		zap.String("kind", e.Kind.String()),
		zap.String("id", e.Subject))
	if err := t.bus.Publish(e); err != nil {
		logger.Warn("interaction handler failed", zap.Error(err))
	}
}

package debug

import (
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Graticule generates latitude/longitude lines over a planet surface.
type Graticule struct {
	surface   sphere.Surface
	meridians int
	parallels int
	segments  int
}

// NewGraticule creates a graticule with the given number of meridians and
// parallels; segments controls smoothness.
func NewGraticule(s sphere.Surface, meridians, parallels, segments int) *Graticule {
	return &Graticule{
		surface:   s,
		meridians: max(meridians, 1),
		parallels: max(parallels, 1),
		segments:  max(segments, 4),
	}
}

// Lines returns the graticule segments, lifted by lift above the surface so
// they are not hidden by the planet outline.
func (g *Graticule) Lines(lift float32) []Segment {
	var out []Segment
	at := func(theta, phi float32) math.Vec3 {
		return g.surface.ProjectWithHeight(g.surface.FromSpherical(theta, phi), lift)
	}

	// Meridians run pole to pole.
	for m := 0; m < g.meridians; m++ {
		theta := 2 * math.Pi * float32(m) / float32(g.meridians)
		prev := at(theta, 0)
		for i := 1; i <= g.segments; i++ {
			next := at(theta, math.Pi*float32(i)/float32(g.segments))
			out = append(out, Segment{prev, next})
			prev = next
		}
	}

	// Parallels, excluding the poles.
	for p := 1; p <= g.parallels; p++ {
		phi := math.Pi * float32(p) / float32(g.parallels+1)
		prev := at(0, phi)
		for i := 1; i <= 2*g.segments; i++ {
			next := at(2*math.Pi*float32(i)/float32(2*g.segments), phi)
			out = append(out, Segment{prev, next})
			prev = next
		}
	}
	return out
}

// LineCount returns the number of segments Lines produces.
func (g *Graticule) LineCount() int {
	return g.meridians*g.segments + g.parallels*2*g.segments
}

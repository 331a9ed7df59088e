package debug

import (
	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// Canvas is the 2D drawing surface the overlay renders onto.
type Canvas interface {
	SetColor(r, g, b, a uint8)
	Line(x1, y1, x2, y2 float32)
	FillRect(x, y, w, h float32)
}

// Projector maps world points to screen pixels.
type Projector struct {
	viewProj math.Mat4
	eye      math.Vec3
	width    float32
	height   float32
}

// NewProjector combines a view and projection matrix for a viewport.
func NewProjector(view, proj math.Mat4, eye math.Vec3, width, height int) Projector {
	return Projector{
		viewProj: proj.Mul(view),
		eye:      eye,
		width:    float32(width),
		height:   float32(height),
	}
}

// ToScreen returns pixel coordinates for p. ok is false for points behind
// the viewer.
func (p Projector) ToScreen(v math.Vec3) (x, y float32, ok bool) {
	ndc, w := p.viewProj.Project(v)
	if w <= 0 {
		return 0, 0, false
	}
	x = (ndc.X*0.5 + 0.5) * p.width
	y = (1 - (ndc.Y*0.5 + 0.5)) * p.height
	return x, y, true
}

// Facing reports whether a surface point faces the viewer, i.e. is not
// hidden behind a planet centred at the origin.
func (p Projector) Facing(v math.Vec3) bool {
	return v.Dot(p.eye.Sub(v)) > 0
}

// Draw projects a segment; segments with an endpoint behind the viewer are
// skipped.
func (p Projector) Draw(c Canvas, s Segment) bool {
	x1, y1, ok1 := p.ToScreen(s.A)
	x2, y2, ok2 := p.ToScreen(s.B)
	if !ok1 || !ok2 {
		return false
	}
	c.Line(x1, y1, x2, y2)
	return true
}

// Marker is a labelled point of interest.
type Marker struct {
	ID       string
	Position math.Vec3
	Range    float32
}

// View is the per-frame agent state the overlay visualises.
type View struct {
	Position  math.Vec3
	Frame     sphere.Frame
	Blocked   bool
	Nearest   string
	CameraPos math.Vec3
	LookAt    math.Vec3
}

// Overlay draws the planet, obstacles, markers and agent.
type Overlay struct {
	surface   sphere.Surface
	graticule []Segment
	obstacles [][]Segment
	markers   []Marker
	probe     collision.Config

	ShowGraticule bool
	ShowProbes    bool
}

// NewOverlay precomputes static geometry.
func NewOverlay(s sphere.Surface, colliders []collision.Collider, markers []Marker, probe collision.Config) *Overlay {
	o := &Overlay{
		surface:       s,
		graticule:     NewGraticule(s, 12, 7, 24).Lines(0.01),
		markers:       markers,
		probe:         probe,
		ShowGraticule: true,
		ShowProbes:    true,
	}
	for _, c := range colliders {
		o.obstacles = append(o.obstacles, ColliderWireframe(c, 16))
	}
	return o
}

// Draw renders one frame of the overlay.
func (o *Overlay) Draw(c Canvas, p Projector, v View) {
	if o.ShowGraticule {
		c.SetColor(60, 80, 110, 255)
		for _, s := range o.graticule {
			if p.Facing(s.A) && p.Facing(s.B) {
				p.Draw(c, s)
			}
		}
	}

	c.SetColor(220, 90, 70, 255)
	for _, edges := range o.obstacles {
		for _, s := range edges {
			p.Draw(c, s)
		}
	}

	for _, m := range o.markers {
		if !p.Facing(m.Position) {
			continue
		}
		if m.ID == v.Nearest {
			c.SetColor(90, 230, 120, 255)
		} else {
			c.SetColor(240, 210, 80, 255)
		}
		axes := o.surface.LocalAxes(m.Position, 0)
		for _, s := range Circle(m.Position, axes.Forward, axes.Right, m.Range, 20) {
			p.Draw(c, s)
		}
		o.dot(c, p, m.Position, 4)
	}

	o.drawAgent(c, p, v)

	// Follow camera and its line of sight.
	c.SetColor(170, 170, 255, 255)
	o.dot(c, p, v.CameraPos, 3)
	p.Draw(c, Segment{v.CameraPos, v.LookAt})
}

func (o *Overlay) drawAgent(c Canvas, p Projector, v View) {
	f := v.Frame
	lift := v.Position.Add(f.Up.Scale(o.probe.AgentHeight))

	if v.Blocked {
		c.SetColor(255, 60, 60, 255)
	} else {
		c.SetColor(255, 255, 255, 255)
	}
	for _, s := range Circle(lift, f.Forward, f.Right, o.probe.AgentRadius, 16) {
		p.Draw(c, s)
	}
	o.dot(c, p, v.Position, 5)

	// Local frame: forward red, up green, right blue.
	axis := o.probe.AgentRadius * 3
	c.SetColor(255, 80, 80, 255)
	p.Draw(c, Segment{v.Position, v.Position.Add(f.Forward.Scale(axis))})
	c.SetColor(80, 255, 80, 255)
	p.Draw(c, Segment{v.Position, v.Position.Add(f.Up.Scale(axis))})
	c.SetColor(80, 140, 255, 255)
	p.Draw(c, Segment{v.Position, v.Position.Add(f.Right.Scale(axis))})

	if o.ShowProbes {
		c.SetColor(255, 160, 40, 200)
		reach := o.probe.Probe()
		for _, d := range []math.Vec3{f.Forward, f.Forward.Negate(), f.Right, f.Right.Negate()} {
			p.Draw(c, Segment{lift, lift.Add(d.Scale(reach))})
		}
	}
}

func (o *Overlay) dot(c Canvas, p Projector, v math.Vec3, size float32) {
	x, y, ok := p.ToScreen(v)
	if !ok {
		return
	}
	c.FillRect(x-size/2, y-size/2, size, size)
}

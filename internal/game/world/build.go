package world

import (
	"fmt"

	"github.com/Faultbox/planetwalk/internal/config"
	"github.com/Faultbox/planetwalk/internal/engine/animation"
	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/internal/game/interaction"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// buildColliders places scene obstacles on the surface. Boxes stand on the
// surface with their local axes aligned to the tangent frame at their
// footprint, rotated by Yaw.
func buildColliders(s sphere.Surface, scene *Scene) []collision.Collider {
	out := make([]collision.Collider, 0, len(scene.Obstacles))
	for _, o := range scene.Obstacles {
		ground := s.FromSpherical(o.Theta, o.Phi)
		switch o.Kind {
		case KindSphere:
			out = append(out, collision.Sphere{
				Name:   o.ID,
				Center: s.ProjectWithHeight(ground, o.Height),
				Radius: o.Radius,
			})
		case KindBox:
			half := math.Vec3{X: o.Size[0] / 2, Y: o.Size[1] / 2, Z: o.Size[2] / 2}
			out = append(out, collision.Box{
				Name:        o.ID,
				Center:      s.ProjectWithHeight(ground, o.Height+half.Y),
				HalfExtents: half,
				Rotation:    s.Orientation(ground, o.Yaw),
			})
		}
	}
	return out
}

func buildPoints(s sphere.Surface, scene *Scene) []interaction.Point {
	out := make([]interaction.Point, 0, len(scene.Interactables))
	for _, p := range scene.Interactables {
		out = append(out, interaction.Point{
			ID:       p.ID,
			Position: s.FromSpherical(p.Theta, p.Phi),
			Range:    p.Range,
		})
	}
	return out
}

func tuningFrom(cfg *config.Config) (locomotion.Tuning, error) {
	resp, err := locomotion.ParseResponse(cfg.Locomotion.Response)
	if err != nil {
		return locomotion.Tuning{}, err
	}
	return locomotion.Tuning{
		WalkSpeed:    cfg.Locomotion.WalkSpeed,
		RunSpeed:     cfg.Locomotion.RunSpeed,
		Acceleration: cfg.Locomotion.Acceleration,
		TurnSpeed:    cfg.Locomotion.TurnSpeed,
		Response:     resp,
	}, nil
}

func collisionFrom(cfg *config.Config) collision.Config {
	return collision.Config{
		AgentRadius: cfg.Collision.AgentRadius,
		AgentHeight: cfg.Collision.AgentHeight,
		Epsilon:     cfg.Collision.Epsilon,
	}
}

func paramsFrom(cfg *config.Config) animation.Params {
	a := cfg.Animation
	return animation.Params{
		WalkCycleRate:     a.WalkCycleRate,
		RunCycleRate:      a.RunCycleRate,
		ThighAmplitude:    a.ThighAmplitude,
		ShinAmplitude:     a.ShinAmplitude,
		ArmAmplitude:      a.ArmAmplitude,
		RunAmplitudeScale: a.RunAmplitudeScale,
		BobAmount:         a.BobAmount,
		BreathRate:        a.BreathRate,
		BreathAmount:      a.BreathAmount,
		RelaxRate:         a.RelaxRate,
		PhaseDecayRate:    a.PhaseDecayRate,
	}
}

// blendsFrom converts "from->to" keys into transitions. Missing entries fall
// back to the driver defaults.
func blendsFrom(cfg *config.Config) (map[animation.Transition]float32, error) {
	blends := animation.DefaultBlends()
	for key, d := range cfg.Animation.Blends {
		from, to, ok := config.SplitBlend(key)
		if !ok {
			return nil, fmt.Errorf("animation blend %q: want from->to", key)
		}
		fs, ok1 := locomotion.ParseState(from)
		ts, ok2 := locomotion.ParseState(to)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("animation blend %q: unknown state", key)
		}
		blends[animation.Transition{From: fs, To: ts}] = d
	}
	return blends, nil
}

// Package world builds a planet from a scene and runs the per-frame update:
// locomotion, then animation, camera, interaction and appearance, all in the
// caller's goroutine.
package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/config"
	"github.com/Faultbox/planetwalk/internal/engine/animation"
	"github.com/Faultbox/planetwalk/internal/engine/appearance"
	"github.com/Faultbox/planetwalk/internal/engine/camera"
	"github.com/Faultbox/planetwalk/internal/engine/collision"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/internal/game/events"
	"github.com/Faultbox/planetwalk/internal/game/interaction"
	"github.com/Faultbox/planetwalk/internal/logger"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// CameraState is the smoothed camera for one frame.
type CameraState struct {
	Position math.Vec3
	LookAt   math.Vec3
	Up       math.Vec3
}

// Frame is everything produced by one Update.
type Frame struct {
	Tick        uint64
	Delta       float32 // Clamped dt actually simulated
	Position    math.Vec3
	Orientation math.Quat
	Heading     float32
	Speed       float32
	State       locomotion.State
	Tag         string // idle, walk or run
	Blocked     bool
	Pose        animation.Pose
	Camera      CameraState
	Nearest     string // Closest in-range interactable, empty if none
	Render      appearance.RenderState
}

// World owns every per-session simulation component.
type World struct {
	scene      *Scene
	surface    sphere.Surface
	field      *collision.Field
	controller *locomotion.Controller
	driver     *animation.Driver
	rig        *camera.FollowRig
	tracker    *interaction.Tracker
	look       appearance.Appearance
	bus        *events.Bus

	maxDelta float32
	tick     uint64
	blocked  bool
	last     Frame
	log      *zap.Logger
}

// New builds a world. bus and look may be nil; a nil look renders the
// procedural placeholder.
func New(cfg *config.Config, scene *Scene, bus *events.Bus, look appearance.Appearance) (*World, error) {
	if scene == nil {
		scene = DefaultScene()
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if look == nil {
		look = appearance.NewProcedural()
	}

	radius := scene.Radius
	if radius == 0 {
		radius = cfg.Planet.Radius
	}
	surface := sphere.New(radius)

	tuning, err := tuningFrom(cfg)
	if err != nil {
		return nil, err
	}
	blends, err := blendsFrom(cfg)
	if err != nil {
		return nil, err
	}

	colliders := buildColliders(surface, scene)
	field, err := collision.NewField(collisionFrom(cfg), colliders...)
	if err != nil {
		return nil, fmt.Errorf("building collision field: %w", err)
	}

	spawn := locomotion.Spawn{Theta: scene.Spawn.Theta, Phi: scene.Spawn.Phi, Heading: scene.Spawn.Heading}
	probe := surface.ProjectWithHeight(surface.FromSpherical(spawn.Theta, spawn.Phi), cfg.Collision.AgentHeight)
	for _, c := range colliders {
		if c.Contains(probe) {
			return nil, fmt.Errorf("%w: spawn inside obstacle %q", ErrInvalidScene, c.ID())
		}
	}

	tracker, err := interaction.NewTracker(buildPoints(surface, scene), cfg.Interaction.Hysteresis, bus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	w := &World{
		scene:      scene,
		surface:    surface,
		field:      field,
		controller: locomotion.NewController(surface, field, tuning, spawn),
		driver:     animation.NewDriver(paramsFrom(cfg), blends),
		rig:        camera.NewFollowRig(cfg.Camera.FollowDistance, cfg.Camera.FollowHeight, cfg.Camera.Smoothing),
		tracker:    tracker,
		look:       look,
		bus:        bus,
		maxDelta:   cfg.Simulation.MaxDelta,
		log:        logger.Named("world"),
	}
	w.rig.SwayAmount = cfg.Camera.SwayAmount
	w.rig.SwayRate = cfg.Camera.SwayRate

	w.log.Info("world built",
		zap.String("scene", scene.Name),
		zap.Float32("radius", radius),
		zap.Int("obstacles", field.Len()),
		zap.Int("interactables", len(scene.Interactables)),
		zap.String("appearance", look.Kind().String()),
	)
	return w, nil
}

// Update advances the simulation by dt seconds. dt is clamped to
// [0, MaxDelta] so a stall never teleports the agent.
func (w *World) Update(dt float32, in locomotion.Input) Frame {
	if !(dt > 0) {
		dt = 0
	}
	if dt > w.maxDelta {
		dt = w.maxDelta
	}
	if in == nil {
		in = locomotion.Stationary
	}
	w.tick++

	step := w.controller.Update(dt, in)
	agent := w.controller.Agent()

	if step.Blocked && !w.blocked {
		w.publish(events.Event{Kind: events.Bumped, Tick: w.tick, Position: agent.Position})
	}
	w.blocked = step.Blocked

	ratio := w.controller.SpeedRatio()
	pose, tr, changed := w.driver.Update(dt, step.State, ratio)
	if changed {
		w.publish(events.Event{
			Kind:     events.AnimationChanged,
			Tick:     w.tick,
			Subject:  tr.To.String(),
			Previous: tr.From.String(),
			Position: agent.Position,
		})
	}

	w.rig.Update(dt, agent.Position, agent.Frame)
	nearest, _ := w.tracker.Update(w.tick, agent.Position)

	orientation := agent.Frame.Quat()
	machine := w.driver.Machine()
	render := w.look.Render(appearance.Input{
		Position:    agent.Position,
		Orientation: orientation,
		State:       step.State,
		SpeedRatio:  ratio,
		Pose:        pose,
		Blend:       machine.Weight(),
		BlendTime:   machine.BlendDuration(animation.Transition{From: machine.Previous(), To: machine.Current()}),
	})

	w.last = Frame{
		Tick:        w.tick,
		Delta:       dt,
		Position:    agent.Position,
		Orientation: orientation,
		Heading:     agent.Heading,
		Speed:       agent.Speed,
		State:       step.State,
		Tag:         step.State.String(),
		Blocked:     step.Blocked,
		Pose:        pose,
		Camera: CameraState{
			Position: w.rig.Position(),
			LookAt:   w.rig.LookAt(),
			Up:       w.rig.Up(),
		},
		Nearest: nearest,
		Render:  render,
	}
	return w.last
}

// ApplyTuning swaps tuning values from a reloaded config. Obstacles, the
// planet radius and the agent state are untouched.
func (w *World) ApplyTuning(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tuning, err := tuningFrom(cfg)
	if err != nil {
		return err
	}
	blends, err := blendsFrom(cfg)
	if err != nil {
		return err
	}

	if cc := collisionFrom(cfg); cc != w.field.Config() {
		field, err := collision.NewField(cc, w.field.Colliders()...)
		if err != nil {
			return fmt.Errorf("rebuilding collision field: %w", err)
		}
		w.field = field
		w.controller.SetField(field)
	}

	w.controller.SetTuning(tuning)
	w.driver.SetParams(paramsFrom(cfg))
	w.driver.Machine().SetBlends(blends)

	w.rig.FollowDistance = cfg.Camera.FollowDistance
	w.rig.FollowHeight = cfg.Camera.FollowHeight
	w.rig.Smoothing = cfg.Camera.Smoothing
	w.rig.SwayAmount = cfg.Camera.SwayAmount
	w.rig.SwayRate = cfg.Camera.SwayRate

	w.tracker.SetHysteresis(cfg.Interaction.Hysteresis)
	w.maxDelta = cfg.Simulation.MaxDelta

	w.log.Info("tuning applied",
		zap.Float32("walk_speed", tuning.WalkSpeed),
		zap.Float32("run_speed", tuning.RunSpeed),
		zap.String("response", tuning.Response.String()),
	)
	return nil
}

// Scene returns the scene the world was built from.
func (w *World) Scene() *Scene { return w.scene }

// Surface returns the planet surface.
func (w *World) Surface() sphere.Surface { return w.surface }

// Field returns the collision field.
func (w *World) Field() *collision.Field { return w.field }

// Points returns the interactables with their world positions.
func (w *World) Points() []interaction.Point { return w.tracker.Points() }

// Agent returns the current agent state.
func (w *World) Agent() locomotion.Agent { return w.controller.Agent() }

// Tuning returns the active locomotion tuning.
func (w *World) Tuning() locomotion.Tuning { return w.controller.Tuning() }

// Rig returns the follow camera.
func (w *World) Rig() *camera.FollowRig { return w.rig }

// Last returns the frame produced by the most recent Update.
func (w *World) Last() Frame { return w.last }

// Tick returns the number of updates run so far.
func (w *World) Tick() uint64 { return w.tick }

func (w *World) publish(e events.Event) {
	if err := w.bus.Publish(e); err != nil {
		w.log.Warn("event handler failed",
			zap.String("kind", e.Kind.String()),
			zap.Error(err))
	}
}

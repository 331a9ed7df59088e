// Package game runs the simulation loop, either in the SDL debug viewer or
// headless on a fixed timestep.
package game

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/config"
	"github.com/Faultbox/planetwalk/internal/engine/audio"
	"github.com/Faultbox/planetwalk/internal/engine/camera"
	"github.com/Faultbox/planetwalk/internal/engine/debug"
	"github.com/Faultbox/planetwalk/internal/engine/input"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/internal/engine/picking"
	"github.com/Faultbox/planetwalk/internal/engine/window"
	"github.com/Faultbox/planetwalk/internal/game/world"
	"github.com/Faultbox/planetwalk/internal/logger"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// ViewMode selects the viewer camera.
type ViewMode int

const (
	ViewFollow ViewMode = iota // Third-person follow rig
	ViewOrbit                  // Free orbit around the planet
)

// Game is the debug viewer.
type Game struct {
	cfg     *config.Config
	world   *world.World
	watcher *config.Watcher

	window  *window.Window
	input   *input.Input
	overlay *debug.Overlay
	orbit   *camera.OrbitCamera
	shots   *debug.ScreenshotCapture

	audio    *audio.Manager
	footstep []byte
	feet     audio.Footsteps

	view     ViewMode
	eye      picking.Eye
	selected string
	running  bool
	dragging bool
	width    int
	height   int
	title    string
}

// New opens the viewer window for w. watcher may be nil.
func New(cfg *config.Config, w *world.World, watcher *config.Watcher) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	win, err := window.New(window.Config{
		Title:  "planetwalk",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g := &Game{
		cfg:     cfg,
		world:   w,
		watcher: watcher,
		window:  win,
		input:   input.New(),
		overlay: debug.NewOverlay(w.Surface(), w.Field().Colliders(), markers(w), w.Field().Config()),
		orbit:   camera.NewOrbitCamera(w.Surface().Radius),
		shots:   debug.NewScreenshotCapture("screenshots", "planetwalk"),
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}
	if err := g.shots.SetFormat(cfg.Window.Screenshot); err != nil {
		logger.Warn("keeping png screenshots", zap.Error(err))
	}
	if cfg.Audio.Enabled {
		g.initAudio(cfg.Audio)
	}
	return g, nil
}

// initAudio starts sound. Failures leave the viewer silent.
func (g *Game) initAudio(cfg config.AudioConfig) {
	m := audio.New()
	if err := m.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
		return
	}
	m.SetVolumes(cfg.MasterVolume, cfg.SFXVolume, cfg.AmbientVolume)
	g.audio = m

	if cfg.Footstep != "" {
		data, err := os.ReadFile(cfg.Footstep)
		if err != nil {
			logger.Warn("footstep sound unavailable", zap.Error(err))
		} else {
			g.footstep = data
		}
	}
	if cfg.Ambient != "" {
		data, err := os.ReadFile(cfg.Ambient)
		if err == nil {
			err = m.PlayAmbient(data)
		}
		if err != nil {
			logger.Warn("ambient sound unavailable", zap.Error(err))
		}
	}
}

// Run starts the main loop and returns when the window is closed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameBudget time.Duration
	if g.cfg.Window.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.cfg.Window.FPSLimit)
	}

	logger.Info("starting viewer loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Update simulation
		applyReloads(g.world, g.watcher)
		frame := g.world.Update(dt, g.input)
		g.updateTitle(frame)
		g.playFootsteps(frame)

		// 3. Render
		g.render(frame)

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				sdl.Delay(uint32((frameBudget - spent).Milliseconds()))
			}
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

func (g *Game) playFootsteps(frame world.Frame) {
	landed := g.feet.Update(frame.Pose.WalkPhase, frame.State != locomotion.StateIdle && !frame.Blocked)
	if !landed || g.audio == nil || g.footstep == nil {
		return
	}
	if err := g.audio.PlaySFX(g.footstep); err != nil {
		logger.Debug("footstep failed", zap.Error(err))
	}
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.width, g.height = event.Width, event.Height
		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_TAB:
				g.toggleView()
			case sdl.SCANCODE_G:
				g.overlay.ShowGraticule = !g.overlay.ShowGraticule
			case sdl.SCANCODE_P:
				g.overlay.ShowProbes = !g.overlay.ShowProbes
			case sdl.SCANCODE_F12:
				g.screenshot()
			}
		case input.EventMouseDown:
			switch event.Button {
			case sdl.BUTTON_RIGHT:
				g.dragging = true
			case sdl.BUTTON_LEFT:
				g.pick(event.MouseX, event.MouseY)
			}
		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_RIGHT {
				g.dragging = false
			}
		case input.EventMouseMove:
			if g.dragging && g.view == ViewOrbit {
				g.orbit.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			if g.view == ViewOrbit {
				g.orbit.HandleZoom(event.Wheel)
			}
		}
	}
}

func (g *Game) toggleView() {
	if g.view == ViewFollow {
		g.view = ViewOrbit
	} else {
		g.view = ViewFollow
	}
	logger.Debug("view changed", zap.Int("mode", int(g.view)))
}

func (g *Game) render(frame world.Frame) {
	g.window.Clear(12, 14, 22)

	aspect := float32(g.width) / float32(max(g.height, 1))
	proj := math.Perspective(g.cfg.Camera.FOV*math.Pi/180, aspect, 0.05, 1000)

	var p debug.Projector
	if g.view == ViewOrbit {
		p = debug.NewProjector(g.orbit.ViewMatrix(), proj, g.orbit.Position(), g.width, g.height)
		g.eye = picking.Eye{Position: g.orbit.Position(), LookAt: g.orbit.Center, Up: math.Up}
	} else {
		p = debug.NewProjector(g.world.Rig().ViewMatrix(), proj, frame.Camera.Position, g.width, g.height)
		g.eye = picking.Eye{Position: frame.Camera.Position, LookAt: frame.Camera.LookAt, Up: frame.Camera.Up}
	}
	g.eye.FOV = g.cfg.Camera.FOV * math.Pi / 180

	agent := g.world.Agent()
	g.overlay.Draw(g.window.Canvas(), p, debug.View{
		Position:  frame.Position,
		Frame:     agent.Frame,
		Blocked:   frame.Blocked,
		Nearest:   frame.Nearest,
		CameraPos: frame.Camera.Position,
		LookAt:    frame.Camera.LookAt,
	})

	g.window.Present()
}

// pick selects whatever lies under the cursor, as of the last rendered
// frame.
func (g *Game) pick(x, y int) {
	if g.eye.FOV == 0 {
		return
	}
	ray := picking.ScreenToRay(float32(x), float32(y), g.width, g.height, g.eye)
	res, ok := picking.Pick(g.world.Field(), g.world.Surface(), ray, 1000)
	if !ok {
		g.selected = ""
		return
	}
	if res.Ground {
		g.selected = fmt.Sprintf("ground theta=%.2f phi=%.2f", res.Theta, res.Phi)
	} else {
		g.selected = res.ID
	}
	logger.Info("picked",
		zap.String("target", g.selected),
		zap.Float32("theta", res.Theta),
		zap.Float32("phi", res.Phi),
	)
}

func (g *Game) updateTitle(frame world.Frame) {
	title := fmt.Sprintf("planetwalk - %s %.1f u/s", frame.Tag, frame.Speed)
	if frame.Nearest != "" {
		title += " - near " + frame.Nearest
	}
	if g.selected != "" {
		title += " - [" + g.selected + "]"
	}
	if title != g.title {
		g.title = title
		g.window.SetTitle(title)
	}
}

func (g *Game) screenshot() {
	pixels, w, h, err := g.window.ReadPixels()
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := g.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func markers(w *world.World) []debug.Marker {
	points := w.Points()
	out := make([]debug.Marker, 0, len(points))
	for _, p := range points {
		out = append(out, debug.Marker{ID: p.ID, Position: p.Position, Range: p.Range})
	}
	return out
}

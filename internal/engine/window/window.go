// Package window handles the SDL2 window and 2D renderer of the debug
// viewer.
package window

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/logger"
)

func init() {
	// SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// Window wraps an SDL2 window and its renderer.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
}

// New creates a new window with an accelerated 2D renderer.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, flags)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}
	if err := w.renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		logger.Warn("failed to enable blending", zap.Error(err))
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Clear fills the frame with a background colour.
func (w *Window) Clear(r, g, b uint8) {
	w.renderer.SetDrawColor(r, g, b, 255)
	w.renderer.Clear()
}

// Present shows the frame drawn since the last Clear.
func (w *Window) Present() {
	w.renderer.Present()
}

// Canvas returns a drawing surface for the current frame.
func (w *Window) Canvas() *Canvas {
	return &Canvas{renderer: w.renderer}
}

// ReadPixels returns the current frame as tightly packed RGBA bytes.
func (w *Window) ReadPixels() ([]byte, int, int, error) {
	width, height, err := w.renderer.GetOutputSize()
	if err != nil {
		return nil, 0, 0, err
	}
	pixels := make([]byte, int(width)*int(height)*4)
	if err := w.renderer.ReadPixels(nil, sdl.PIXELFORMAT_ABGR8888, unsafe.Pointer(&pixels[0]), int(width)*4); err != nil {
		return nil, 0, 0, fmt.Errorf("SDL_RenderReadPixels failed: %w", err)
	}
	return pixels, int(width), int(height), nil
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Canvas draws 2D primitives through the SDL renderer.
type Canvas struct {
	renderer *sdl.Renderer
}

// SetColor sets the colour of subsequent primitives.
func (c *Canvas) SetColor(r, g, b, a uint8) {
	c.renderer.SetDrawColor(r, g, b, a)
}

// Line draws a line between two screen points.
func (c *Canvas) Line(x1, y1, x2, y2 float32) {
	c.renderer.DrawLine(int32(x1), int32(y1), int32(x2), int32(y2))
}

// FillRect fills an axis-aligned screen rectangle.
func (c *Canvas) FillRect(x, y, w, h float32) {
	c.renderer.FillRect(&sdl.Rect{X: int32(x), Y: int32(y), W: int32(w), H: int32(h)})
}

package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
)

// KeyState is the set of keys currently held.
type KeyState struct {
	held map[sdl.Scancode]bool
}

// NewKeyState returns an empty key set.
func NewKeyState() *KeyState {
	return &KeyState{held: make(map[sdl.Scancode]bool)}
}

func (k *KeyState) Press(code sdl.Scancode)   { k.held[code] = true }
func (k *KeyState) Release(code sdl.Scancode) { delete(k.held, code) }
func (k *KeyState) Clear()                    { clear(k.held) }

// Held reports whether code is down.
func (k *KeyState) Held(code sdl.Scancode) bool { return k.held[code] }

// Any reports whether any of codes is down.
func (k *KeyState) Any(codes []sdl.Scancode) bool {
	for _, c := range codes {
		if k.held[c] {
			return true
		}
	}
	return false
}

// Bindings maps movement actions to keys.
type Bindings struct {
	Forward  []sdl.Scancode
	Backward []sdl.Scancode
	Left     []sdl.Scancode
	Right    []sdl.Scancode
	Run      []sdl.Scancode
}

// DefaultBindings is WASD plus arrows, shift to run.
func DefaultBindings() Bindings {
	return Bindings{
		Forward:  []sdl.Scancode{sdl.SCANCODE_W, sdl.SCANCODE_UP},
		Backward: []sdl.Scancode{sdl.SCANCODE_S, sdl.SCANCODE_DOWN},
		Left:     []sdl.Scancode{sdl.SCANCODE_A, sdl.SCANCODE_LEFT},
		Right:    []sdl.Scancode{sdl.SCANCODE_D, sdl.SCANCODE_RIGHT},
		Run:      []sdl.Scancode{sdl.SCANCODE_LSHIFT, sdl.SCANCODE_RSHIFT},
	}
}

// Intent builds the movement intent from held keys.
func (b Bindings) Intent(k *KeyState) locomotion.Intent {
	return locomotion.Intent{
		Forward:  k.Any(b.Forward),
		Backward: k.Any(b.Backward),
		Left:     k.Any(b.Left),
		Right:    k.Any(b.Right),
		Running:  k.Any(b.Run),
	}
}

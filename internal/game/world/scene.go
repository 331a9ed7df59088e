package world

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is wrapped by every scene validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// Obstacle kinds.
const (
	KindSphere = "sphere"
	KindBox    = "box"
)

// Scene is the static content of a planet. Angles are in radians; theta is
// the azimuth and phi the polar angle measured from +Y.
type Scene struct {
	Name          string         `yaml:"name"`
	Radius        float32        `yaml:"radius"` // Zero uses the configured radius
	Spawn         SpawnDef       `yaml:"spawn"`
	Obstacles     []ObstacleDef  `yaml:"obstacles"`
	Interactables []Interactable `yaml:"interactables"`
}

// SpawnDef places the agent.
type SpawnDef struct {
	Theta   float32 `yaml:"theta"`
	Phi     float32 `yaml:"phi"`
	Heading float32 `yaml:"heading"`
}

// ObstacleDef is one static collider.
type ObstacleDef struct {
	ID    string  `yaml:"id"`
	Kind  string  `yaml:"kind"` // sphere or box
	Theta float32 `yaml:"theta"`
	Phi   float32 `yaml:"phi"`

	// Sphere radius.
	Radius float32 `yaml:"radius"`
	// Box size as width (right), height (up), depth (forward).
	Size [3]float32 `yaml:"size"`
	// Rotation of a box about local up.
	Yaw float32 `yaml:"yaw"`
	// Offset of the base (box) or centre (sphere) along local up.
	Height float32 `yaml:"height"`
}

// Interactable is a point of interest with a trigger range.
type Interactable struct {
	ID    string  `yaml:"id"`
	Theta float32 `yaml:"theta"`
	Phi   float32 `yaml:"phi"`
	Range float32 `yaml:"range"`
}

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes and validates scene YAML.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scene for unusable entries.
func (s *Scene) Validate() error {
	if s.Radius < 0 {
		return fmt.Errorf("%w: negative radius %v", ErrInvalidScene, s.Radius)
	}

	ids := make(map[string]bool)
	for i, o := range s.Obstacles {
		if o.ID == "" {
			return fmt.Errorf("%w: obstacle %d has no id", ErrInvalidScene, i)
		}
		if ids[o.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidScene, o.ID)
		}
		ids[o.ID] = true

		switch o.Kind {
		case KindSphere:
			if o.Radius <= 0 {
				return fmt.Errorf("%w: obstacle %q radius %v", ErrInvalidScene, o.ID, o.Radius)
			}
		case KindBox:
			for _, v := range o.Size {
				if v <= 0 {
					return fmt.Errorf("%w: obstacle %q size %v", ErrInvalidScene, o.ID, o.Size)
				}
			}
		default:
			return fmt.Errorf("%w: obstacle %q unknown kind %q", ErrInvalidScene, o.ID, o.Kind)
		}
	}

	for i, p := range s.Interactables {
		if p.ID == "" {
			return fmt.Errorf("%w: interactable %d has no id", ErrInvalidScene, i)
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidScene, p.ID)
		}
		ids[p.ID] = true
		if p.Range <= 0 {
			return fmt.Errorf("%w: interactable %q range %v", ErrInvalidScene, p.ID, p.Range)
		}
	}
	return nil
}

// DefaultScene is a small village on a tiny planet.
func DefaultScene() *Scene {
	return &Scene{
		Name:  "village",
		Spawn: SpawnDef{Theta: 0, Phi: 1.2, Heading: 0},
		Obstacles: []ObstacleDef{
			{ID: "hut", Kind: KindBox, Theta: 0.45, Phi: 0.9, Size: [3]float32{3, 2.5, 3}, Yaw: 0.3},
			{ID: "tower", Kind: KindBox, Theta: -0.8, Phi: 1.5, Size: [3]float32{2, 6, 2}},
			{ID: "rock-1", Kind: KindSphere, Theta: 0.2, Phi: 1.45, Radius: 0.9},
			{ID: "rock-2", Kind: KindSphere, Theta: 2.4, Phi: 1.9, Radius: 1.2, Height: -0.3},
			{ID: "tree-1", Kind: KindSphere, Theta: -0.3, Phi: 1.0, Radius: 0.8, Height: 0.9},
			{ID: "tree-2", Kind: KindSphere, Theta: 1.6, Phi: 1.1, Radius: 0.9, Height: 1.0},
		},
		Interactables: []Interactable{
			{ID: "well", Theta: 0.15, Phi: 0.95, Range: 2.5},
			{ID: "signpost", Theta: -0.25, Phi: 1.3, Range: 1.8},
			{ID: "shrine", Theta: 3.0, Phi: 2.2, Range: 3},
		},
	}
}

package appearance

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/planetwalk/internal/logger"
)

// ErrInvalidManifest is returned for manifests missing required fields.
var ErrInvalidManifest = errors.New("invalid model manifest")

// Manifest describes a skinned model and its animation clips.
type Manifest struct {
	Mesh  string            `yaml:"mesh"`
	Clips map[string]string `yaml:"clips"` // state tag -> clip name
	// Speed ratio at which each clip plays at rate 1.
	NominalSpeed map[string]float32 `yaml:"nominal_speed"`
	MinRate      float32            `yaml:"min_rate"`
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Mesh == "" {
		return nil, fmt.Errorf("%w: mesh is required", ErrInvalidManifest)
	}
	if len(m.Clips) == 0 {
		return nil, fmt.Errorf("%w: no clips", ErrInvalidManifest)
	}
	if m.NominalSpeed == nil {
		m.NominalSpeed = map[string]float32{}
	}
	if _, ok := m.NominalSpeed["walk"]; !ok {
		m.NominalSpeed["walk"] = 1
	}
	if _, ok := m.NominalSpeed["run"]; !ok {
		m.NominalSpeed["run"] = 2
	}
	if m.MinRate <= 0 {
		m.MinRate = 0.1
	}
	return &m, nil
}

// LoadedModel plays clips from a model manifest. If the model could not be
// loaded it renders through a procedural placeholder instead.
type LoadedModel struct {
	Path     string
	Manifest *Manifest

	fallback *Procedural
	loadErr  error
}

// LoadModel reads the manifest at path. Failure is not fatal: the returned
// model reports Loaded() == false and falls back to the procedural look.
func LoadModel(path string) *LoadedModel {
	m := &LoadedModel{Path: path, fallback: NewProcedural()}

	data, err := os.ReadFile(path)
	if err == nil {
		m.Manifest, err = ParseManifest(data)
	}
	if err != nil {
		m.loadErr = fmt.Errorf("load model %s: %w", path, err)
		logger.Warn("model unavailable, using procedural placeholder",
			zap.String("path", path), zap.Error(err))
		return m
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.String("mesh", m.Manifest.Mesh),
		zap.Int("clips", len(m.Manifest.Clips)))
	return m
}

// Loaded reports whether the manifest was read successfully.
func (m *LoadedModel) Loaded() bool { return m.Manifest != nil }

// Err returns the load error, if any.
func (m *LoadedModel) Err() error { return m.loadErr }

// Kind reports the variant actually in use.
func (m *LoadedModel) Kind() Kind {
	if !m.Loaded() {
		return KindProcedural
	}
	return KindLoadedModel
}

// Render maps the state tag to a clip and scales playback with speed.
func (m *LoadedModel) Render(in Input) RenderState {
	if !m.Loaded() {
		return m.fallback.Render(in)
	}

	tag := in.State.String()
	clip, ok := m.Manifest.Clips[tag]
	if !ok {
		clip = tag
	}

	rate := float32(1)
	if nominal, ok := m.Manifest.NominalSpeed[tag]; ok && in.State.IsMoving() && nominal > 0 {
		rate = max(in.SpeedRatio/nominal, m.Manifest.MinRate)
	}

	return RenderState{
		Kind: KindLoadedModel,
		Transform: Transform{
			Position: in.Position,
			Rotation: in.Orientation.Normalize(),
		},
		Tag:       tag,
		Clip:      clip,
		ClipRate:  rate,
		Blend:     in.Blend,
		BlendTime: in.BlendTime,
	}
}

// New picks the appearance for a model path; an empty path selects the
// procedural look.
func New(modelPath string) Appearance {
	if modelPath == "" {
		return NewProcedural()
	}
	return LoadModel(modelPath)
}

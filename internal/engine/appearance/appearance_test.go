package appearance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planetwalk/internal/engine/animation"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/pkg/math"
)

const manifest = `
mesh: explorer.glb
clips:
  idle: Idle_Loop
  walk: Walk_Loop
  run: Sprint
nominal_speed:
  run: 2
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testInput(state locomotion.State, ratio float32) Input {
	return Input{
		Position:    math.Vec3{Y: 10},
		Orientation: math.QuatIdentity(),
		State:       state,
		SpeedRatio:  ratio,
		Pose:        animation.Pose{LeftThigh: 0.3, Bob: 0.05},
		Blend:       0.5,
		BlendTime:   0.2,
	}
}

func TestProceduralRender(t *testing.T) {
	p := NewProcedural()
	rs := p.Render(testInput(locomotion.StateWalk, 1))

	assert.Equal(t, KindProcedural, rs.Kind)
	assert.Equal(t, "walk", rs.Tag)
	assert.InDelta(t, 10.05, rs.Transform.Position.Y, 1e-5)
	assert.Equal(t, float32(0.3), rs.Pose.LeftThigh)
	assert.Empty(t, rs.Clip)
}

func TestLoadedModelClips(t *testing.T) {
	m := LoadModel(writeManifest(t, manifest))
	require.True(t, m.Loaded())
	require.NoError(t, m.Err())
	assert.Equal(t, KindLoadedModel, m.Kind())

	rs := m.Render(testInput(locomotion.StateRun, 1))
	assert.Equal(t, "Sprint", rs.Clip)
	assert.Equal(t, "run", rs.Tag)
	assert.InDelta(t, 0.5, rs.ClipRate, 1e-6)
	assert.Equal(t, float32(0.5), rs.Blend)
	assert.Equal(t, math.Vec3{Y: 10}, rs.Transform.Position)

	rs = m.Render(testInput(locomotion.StateWalk, 0.01))
	assert.Equal(t, "Walk_Loop", rs.Clip)
	assert.InDelta(t, 0.1, rs.ClipRate, 1e-6)

	rs = m.Render(testInput(locomotion.StateIdle, 0))
	assert.Equal(t, "Idle_Loop", rs.Clip)
	assert.Equal(t, float32(1), rs.ClipRate)
}

func TestLoadedModelFallsBack(t *testing.T) {
	m := LoadModel(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.False(t, m.Loaded())
	assert.Error(t, m.Err())
	assert.Equal(t, KindProcedural, m.Kind())

	rs := m.Render(testInput(locomotion.StateWalk, 1))
	assert.Equal(t, KindProcedural, rs.Kind)
	assert.Equal(t, "walk", rs.Tag)
	assert.Equal(t, float32(0.3), rs.Pose.LeftThigh)
}

func TestParseManifestErrors(t *testing.T) {
	_, err := ParseManifest([]byte("clips: {idle: I}"))
	assert.ErrorIs(t, err, ErrInvalidManifest)

	_, err = ParseManifest([]byte("mesh: a.glb"))
	assert.ErrorIs(t, err, ErrInvalidManifest)

	_, err = ParseManifest([]byte("mesh: [unclosed"))
	assert.Error(t, err)

	m := LoadModel(writeManifest(t, "mesh: x.glb\n"))
	assert.False(t, m.Loaded())
	assert.ErrorIs(t, m.Err(), ErrInvalidManifest)
}

func TestNewSelectsVariant(t *testing.T) {
	assert.Equal(t, KindProcedural, New("").Kind())
	assert.Equal(t, KindLoadedModel, New(writeManifest(t, manifest)).Kind())
	assert.Equal(t, "model", KindLoadedModel.String())
}

package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{6, 12, 18}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.5, 0.1, 100)
	want := mgl32.Perspective(float32(math.Pi/4), 1.5, 0.1, 100)

	for i := 0; i < 16; i++ {
		if abs(m[i]-want[i]) > 1e-4 {
			t.Errorf("Perspective element %d: got %f, want %f", i, m[i], want[i])
		}
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	eye := Vec3{3, 4, 5}
	center := Vec3{0, 1, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)
	want := mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})

	for i := 0; i < 16; i++ {
		if abs(m[i]-want[i]) > 1e-4 {
			t.Errorf("LookAt element %d: got %f, want %f", i, m[i], want[i])
		}
	}

	// The eye lands on the view-space origin.
	if p := m.TransformVec3(eye); p.Length() > 1e-4 {
		t.Errorf("eye in view space = %v, want origin", p)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	view := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})
	viewProj := Perspective(float32(math.Pi/3), 1, 0.1, 100).Mul(view)

	if _, w := viewProj.Project(Vec3{}); w <= 0 {
		t.Errorf("point in front of camera should have w > 0, got %f", w)
	}
	if _, w := viewProj.Project(Vec3{0, 0, 10}); w > 0 {
		t.Errorf("point behind camera should have w <= 0, got %f", w)
	}

	ndc, _ := viewProj.Project(Vec3{})
	if abs(ndc.X) > 1e-4 || abs(ndc.Y) > 1e-4 {
		t.Errorf("look-at target should project to screen centre, got %v", ndc)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

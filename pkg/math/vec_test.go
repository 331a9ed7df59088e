package math

import (
	"math"
	"testing"
)

func TestVec2Angle(t *testing.T) {
	tests := []struct {
		v    Vec2
		want float32
	}{
		{Vec2{0, 1}, 0},
		{Vec2{1, 0}, Pi / 2},
		{Vec2{-1, 0}, -Pi / 2},
		{Vec2{0, -1}, Pi},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); abs(got-tt.want) > 1e-6 {
			t.Errorf("Vec2%v.Angle() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("normalizing zero vector should give zero vector")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3RotateAround(t *testing.T) {
	got := Vec3{0, 0, 1}.RotateAround(Vec3{0, 1, 0}, Pi/2)
	want := Vec3{1, 0, 0}
	if got.Distance(want) > 1e-6 {
		t.Errorf("RotateAround = %v, want %v", got, want)
	}
}

func TestVec3RejectFrom(t *testing.T) {
	got := Vec3{1, 2, 3}.RejectFrom(Vec3{0, 1, 0})
	want := Vec3{1, 0, 3}
	if got != want {
		t.Errorf("RejectFrom = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	nan := float32(math.NaN())
	if (Vec3{nan, 0, 0}).IsFinite() {
		t.Error("NaN vector reported as finite")
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{Pi, Pi},
		{-Pi, Pi},
		{3 * Pi / 2, -Pi / 2},
		{-3 * Pi / 2, Pi / 2},
		{0.25, 0.25},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if abs(got-tt.want) > 1e-5 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -Pi || got > Pi {
			t.Errorf("WrapAngle(%v) = %v outside (-pi, pi]", tt.in, got)
		}
	}
}

func TestAngleDeltaShortestPath(t *testing.T) {
	// From just below +pi to just above -pi is a small positive step.
	d := AngleDelta(Pi-0.1, -Pi+0.1)
	if abs(d-0.2) > 1e-5 {
		t.Errorf("AngleDelta across the seam = %v, want 0.2", d)
	}
}

func TestDamp(t *testing.T) {
	if DampFactor(5, 0) != 0 {
		t.Error("zero dt should not move")
	}
	f := DampFactor(5, 0.1)
	if f <= 0 || f >= 1 {
		t.Errorf("DampFactor = %v, want in (0,1)", f)
	}
	v := Damp(0, 10, 5, 0.1)
	if v <= 0 || v >= 10 {
		t.Errorf("Damp = %v, want strictly between 0 and 10", v)
	}
}

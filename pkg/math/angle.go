package math

import "math"

// Pi as float32.
const Pi = float32(math.Pi)

// WrapAngle normalizes an angle to (-π, π].
func WrapAngle(a float32) float32 {
	w := float32(math.Mod(float64(a), 2*math.Pi))
	if w <= -Pi {
		w += 2 * Pi
	} else if w > Pi {
		w -= 2 * Pi
	}
	return w
}

// AngleDelta returns the shortest signed rotation from a to b, in (-π, π].
func AngleDelta(a, b float32) float32 {
	return WrapAngle(b - a)
}

// DampFactor returns the blend factor for exponential smoothing at rate
// (1/s) over dt seconds: 1 - e^(-rate*dt). The result is in [0, 1).
func DampFactor(rate, dt float32) float32 {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	return 1 - float32(math.Exp(float64(-rate*dt)))
}

// Damp moves current toward target by exponential smoothing.
func Damp(current, target, rate, dt float32) float32 {
	return current + (target-current)*DampFactor(rate, dt)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sin is a float32 wrapper around math.Sin.
func Sin(a float32) float32 {
	return float32(math.Sin(float64(a)))
}

// Cos is a float32 wrapper around math.Cos.
func Cos(a float32) float32 {
	return float32(math.Cos(float64(a)))
}

// Abs returns |v|.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

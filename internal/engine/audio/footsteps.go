package audio

import "math"

// Footsteps turns the walk cycle into footfall cues. A foot lands each time
// sin(phase) changes sign while the agent moves, so one full cycle gives
// two steps.
type Footsteps struct {
	sign  int
	steps int
}

// Update feeds this tick's walk phase and reports whether a foot landed.
func (f *Footsteps) Update(phase float32, moving bool) bool {
	if !moving {
		f.sign = 0
		return false
	}

	s := math.Sin(float64(phase))
	var sign int
	switch {
	case s > 0:
		sign = 1
	case s < 0:
		sign = -1
	default:
		return false
	}

	landed := f.sign != 0 && sign != f.sign
	f.sign = sign
	if landed {
		f.steps++
	}
	return landed
}

// Steps returns the number of footfalls so far.
func (f *Footsteps) Steps() int { return f.steps }

// Reset forgets the cycle and the step count.
func (f *Footsteps) Reset() { *f = Footsteps{} }

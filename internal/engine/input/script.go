package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/pkg/math"
)

// ErrInvalidScript is wrapped by script parse failures.
var ErrInvalidScript = errors.New("invalid input script")

// Segment holds one intent for a number of ticks.
type Segment struct {
	Intent locomotion.Intent
	Ticks  int
}

// Script replays a fixed sequence of intents, one per tick, for headless
// runs and tests. After the last segment it reports no intent. It
// implements locomotion.Input for the current tick; call Advance once per
// tick after the world has consumed it.
type Script struct {
	segments []Segment
	index    int
	elapsed  int
	loop     bool
}

// NewScript creates a script. With loop set it restarts after the last
// segment.
func NewScript(loop bool, segments ...Segment) *Script {
	var kept []Segment
	for _, s := range segments {
		if s.Ticks > 0 {
			kept = append(kept, s)
		}
	}
	return &Script{segments: kept, loop: loop}
}

// ParseScript reads a comma separated list of "keys:ticks" steps. Keys are
// joined with '+' from forward, back, left, right, run and idle, e.g.
// "forward:120,forward+run:60,left:30,idle:30".
func ParseScript(src string, loop bool) (*Script, error) {
	var segments []Segment
	for _, part := range strings.Split(src, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys, count, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: step %q has no tick count", ErrInvalidScript, part)
		}
		ticks, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || ticks <= 0 {
			return nil, fmt.Errorf("%w: step %q tick count", ErrInvalidScript, part)
		}

		var in locomotion.Intent
		for _, k := range strings.Split(keys, "+") {
			switch strings.ToLower(strings.TrimSpace(k)) {
			case "forward", "w":
				in.Forward = true
			case "back", "backward", "s":
				in.Backward = true
			case "left", "a":
				in.Left = true
			case "right", "d":
				in.Right = true
			case "run", "shift":
				in.Running = true
			case "idle", "":
			default:
				return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidScript, k)
			}
		}
		segments = append(segments, Segment{Intent: in, Ticks: ticks})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidScript)
	}
	return NewScript(loop, segments...), nil
}

// Current returns the intent for this tick.
func (s *Script) Current() locomotion.Intent {
	if s.index >= len(s.segments) {
		return locomotion.Intent{}
	}
	return s.segments[s.index].Intent
}

// Advance moves to the next tick.
func (s *Script) Advance() {
	if s.index >= len(s.segments) {
		return
	}
	s.elapsed++
	if s.elapsed < s.segments[s.index].Ticks {
		return
	}
	s.elapsed = 0
	s.index++
	if s.loop && s.index == len(s.segments) {
		s.index = 0
	}
}

// Done reports whether a non-looping script has run out.
func (s *Script) Done() bool {
	return s.index >= len(s.segments)
}

// Len returns the total number of ticks in one pass.
func (s *Script) Len() int {
	n := 0
	for _, seg := range s.segments {
		n += seg.Ticks
	}
	return n
}

// MovementDirection implements locomotion.Input.
func (s *Script) MovementDirection() math.Vec2 { return s.Current().MovementDirection() }

// IsRunning implements locomotion.Input.
func (s *Script) IsRunning() bool { return s.Current().IsRunning() }

// IsMoving implements locomotion.Input.
func (s *Script) IsMoving() bool { return s.Current().IsMoving() }

package locomotion

import "github.com/Faultbox/planetwalk/pkg/math"

// Input is the movement collaborator polled once per tick.
type Input interface {
	// MovementDirection returns the normalized tangent-space intent:
	// X is strafe (positive right), Y is forward.
	MovementDirection() math.Vec2
	IsRunning() bool
	IsMoving() bool
}

// Intent is the transient per-tick key state. It implements Input.
type Intent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Running  bool
}

// MovementDirection implements Input.
func (i Intent) MovementDirection() math.Vec2 {
	var d math.Vec2
	if i.Forward {
		d.Y++
	}
	if i.Backward {
		d.Y--
	}
	if i.Right {
		d.X++
	}
	if i.Left {
		d.X--
	}
	return d.Normalize()
}

// IsRunning implements Input.
func (i Intent) IsRunning() bool {
	return i.Running && i.IsMoving()
}

// IsMoving implements Input. Opposing keys cancel out.
func (i Intent) IsMoving() bool {
	return i.MovementDirection() != (math.Vec2{})
}

// Stationary is an Input that never moves.
var Stationary Input = Intent{}

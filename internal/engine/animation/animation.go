// Package animation produces the time-driven model transform.
package animation

import (
	gomath "math"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// DefaultRate is the oscillation rate in radians per second.
const DefaultRate = 1.0

// BuildModelRotation returns a rotation about Y whose angle is
// sin(elapsedSeconds*rate). The angle swings between -1 and +1 radian, so
// the model wobbles back and forth rather than spinning. The result is the
// identity at t=0 and whenever sin(elapsedSeconds*rate) is zero.
func BuildModelRotation(elapsedSeconds, rate float32) math.Mat4 {
	angle := float32(gomath.Sin(float64(elapsedSeconds) * float64(rate)))
	return math.RotateY(angle)
}

// Animator builds the full model matrix for a frame.
type Animator struct {
	Rate   float32   // oscillation rate, rad/s
	Scale  float32   // uniform scale applied before rotation; 0 means 1
	Offset math.Vec3 // translation applied after rotation
}

// New returns an animator with unit scale and no offset.
func New(rate float32) Animator {
	return Animator{Rate: rate, Scale: 1}
}

// Model returns Translate(Offset) * Rotation(t) * Scale for the given
// elapsed time.
func (a Animator) Model(elapsedSeconds float32) math.Mat4 {
	m := BuildModelRotation(elapsedSeconds, a.Rate)
	if a.Scale != 1 && a.Scale != 0 {
		m = m.Mul(math.Scale(a.Scale, a.Scale, a.Scale))
	}
	if a.Offset != (math.Vec3{}) {
		m = math.Translate(a.Offset.X, a.Offset.Y, a.Offset.Z).Mul(m)
	}
	return m
}

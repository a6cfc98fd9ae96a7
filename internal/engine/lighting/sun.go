// Package lighting converts light settings into the directional light the
// shaders consume.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit
// direction pointing towards the light. Azimuth rotates about Y starting
// at +Z; elevation is measured up from the XZ plane.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	azRad := float64(azimuth) * gomath.Pi / 180.0
	elRad := float64(elevation) * gomath.Pi / 180.0

	return math.V3(
		float32(gomath.Cos(elRad)*gomath.Sin(azRad)),
		float32(gomath.Sin(elRad)),
		float32(gomath.Cos(elRad)*gomath.Cos(azRad)),
	)
}

// Angles is the inverse of SunDirection. dir need not be normalized.
func Angles(dir math.Vec3) (azimuth, elevation float32, err error) {
	n, err := dir.Normalize()
	if err != nil {
		return 0, 0, err
	}
	az := gomath.Atan2(float64(n.X), float64(n.Z)) * 180 / gomath.Pi
	el := gomath.Asin(float64(n.Y)) * 180 / gomath.Pi
	return float32(az), float32(el), nil
}

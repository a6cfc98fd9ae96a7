package lighting

import (
	"errors"
	"testing"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name          string
		azimuth, elev float32
		want          math.Vec3
	}{
		{"forward", 0, 0, math.V3(0, 0, 1)},
		{"right", 90, 0, math.V3(1, 0, 0)},
		{"zenith", 0, 90, math.V3(0, 1, 0)},
		{"behind", 180, 0, math.V3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elev)
			if !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elev, got, tt.want)
			}
			if l := got.Length(); l < 0.99999 || l > 1.00001 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}

func TestAnglesRoundTrip(t *testing.T) {
	dir := math.V3(1.4, 0.4, 0.7)
	az, el, err := Angles(dir)
	if err != nil {
		t.Fatalf("Angles: %v", err)
	}
	want := dir.MustNormalize()
	if got := SunDirection(az, el); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestAnglesZero(t *testing.T) {
	if _, _, err := Angles(math.Vec3{}); !errors.Is(err, math.ErrDegenerateVector) {
		t.Errorf("err = %v, want ErrDegenerateVector", err)
	}
}

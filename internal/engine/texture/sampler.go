package texture

import (
	"image"
	gomath "math"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Sampler reads an RGBA image the way the GPU samplers are set up:
// V=0 is the bottom row, and sRGB images are linearized on read.
type Sampler struct {
	img    *image.RGBA
	SRGB   bool
	Wrap   WrapMode
	Filter FilterMode
}

// NewSampler creates a repeating, bilinear sampler over img.
func NewSampler(img *image.RGBA, srgb bool) *Sampler {
	return &Sampler{
		img:    img,
		SRGB:   srgb,
		Wrap:   WrapRepeat,
		Filter: FilterBilinear,
	}
}

// Sample returns the color at uv with components in [0, 1].
func (s *Sampler) Sample(uv math.Vec2) math.Vec3 {
	w, h := s.img.Rect.Dx(), s.img.Rect.Dy()
	if w == 0 || h == 0 {
		return math.Vec3{}
	}

	u := s.wrapCoord(float64(uv.X))
	// Image row 0 is the top; UV V=0 is the bottom.
	v := 1.0 - s.wrapCoord(float64(uv.Y))

	if s.Filter == FilterNearest {
		x := min(int(u*float64(w)), w-1)
		y := min(int(v*float64(h)), h-1)
		return s.texel(x, y)
	}

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(gomath.Floor(fx))
	y0 := int(gomath.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	c00 := s.texel(s.wrapPixel(x0, w), s.wrapPixel(y0, h))
	c10 := s.texel(s.wrapPixel(x0+1, w), s.wrapPixel(y0, h))
	c01 := s.texel(s.wrapPixel(x0, w), s.wrapPixel(y0+1, h))
	c11 := s.texel(s.wrapPixel(x0+1, w), s.wrapPixel(y0+1, h))

	top := lerp(c00, c10, tx)
	bot := lerp(c01, c11, tx)
	return lerp(top, bot, ty)
}

func (s *Sampler) texel(x, y int) math.Vec3 {
	i := s.img.PixOffset(s.img.Rect.Min.X+x, s.img.Rect.Min.Y+y)
	c := math.V3(
		float32(s.img.Pix[i])/255,
		float32(s.img.Pix[i+1])/255,
		float32(s.img.Pix[i+2])/255,
	)
	if s.SRGB {
		c = math.V3(srgbToLinear(c.X), srgbToLinear(c.Y), srgbToLinear(c.Z))
	}
	return c
}

func (s *Sampler) wrapCoord(c float64) float64 {
	if s.Wrap == WrapClamp {
		return gomath.Max(0, gomath.Min(1, c))
	}
	return c - gomath.Floor(c)
}

func (s *Sampler) wrapPixel(x, size int) int {
	if s.Wrap == WrapClamp {
		return max(0, min(x, size-1))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func lerp(a, b math.Vec3, t float32) math.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// srgbToLinear is the exact sRGB transfer function, matching what GL does
// for SRGB8_ALPHA8 textures.
func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(gomath.Pow((float64(c)+0.055)/1.055, 2.4))
}

package texture

import (
	"image"
	"image/color"
)

// Checker returns a checkerboard used when no diffuse texture is configured.
func Checker(size, checkSize int, c1, c2 color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x/checkSize+y/checkSize)%2 == 0 {
				img.SetRGBA(x, y, c1)
			} else {
				img.SetRGBA(x, y, c2)
			}
		}
	}
	return img
}

// FlatNormalMap returns a normal map encoding the unperturbed normal
// (0.5, 0.5, 1) everywhere.
func FlatNormalMap(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	flat := color.RGBA{R: 128, G: 128, B: 255, A: 255}
	for y := range size {
		for x := range size {
			img.SetRGBA(x, y, flat)
		}
	}
	return img
}

// BumpNormalMap returns a normal map of evenly spaced hemispherical bumps,
// so the fallback scene still shows the effect of normal mapping.
func BumpNormalMap(size, bumps int) *image.RGBA {
	img := FlatNormalMap(size)
	cell := float32(size) / float32(bumps)
	radius := cell * 0.4
	for y := range size {
		for x := range size {
			cx := (float32(x%int(cell)) + 0.5) - cell/2
			cy := (float32(y%int(cell)) + 0.5) - cell/2
			nx, ny := cx/radius, cy/radius
			if d := nx*nx + ny*ny; d < 1 {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8((nx*0.5 + 0.5) * 255),
					G: uint8((-ny*0.5 + 0.5) * 255),
					B: 255,
					A: 255,
				})
			}
		}
	}
	return img
}

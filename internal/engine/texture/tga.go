package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10)
// images at 24 or 32 bits per pixel, the variants image editors export
// for normal maps.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		pix:         data[offset:],
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		bytesPerPix: bpp / 8,
		topToBottom: topToBottom,
	}

	if imageType == TGATypeUncompressed {
		if len(d.pix) < width*height*d.bytesPerPix {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			c, _ := d.next()
			d.put(i, c)
		}
		return d.img, nil
	}

	if err := d.decodeRLE(width * height); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	pix         []byte
	pos         int
	img         *image.RGBA
	bytesPerPix int
	topToBottom bool
}

// next reads one BGR(A) pixel.
func (d *tgaDecoder) next() (color.RGBA, bool) {
	if d.pos+d.bytesPerPix > len(d.pix) {
		return color.RGBA{}, false
	}
	p := d.pix[d.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPerPix == 4 {
		c.A = p[3]
	}
	d.pos += d.bytesPerPix
	return c, true
}

// put stores pixel index i, flipping rows for bottom-up files.
func (d *tgaDecoder) put(i int, c color.RGBA) {
	w := d.img.Rect.Dx()
	x, y := i%w, i/w
	if !d.topToBottom {
		y = d.img.Rect.Dy() - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRLE(pixelCount int) error {
	i := 0
	for i < pixelCount && d.pos < len(d.pix) {
		packet := d.pix[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated count times.
			c, ok := d.next()
			if !ok {
				return fmt.Errorf("TGA RLE packet truncated at pixel %d", i)
			}
			for n := 0; n < count && i < pixelCount; n++ {
				d.put(i, c)
				i++
			}
			continue
		}

		for n := 0; n < count && i < pixelCount; n++ {
			c, ok := d.next()
			if !ok {
				return fmt.Errorf("TGA raw packet truncated at pixel %d", i)
			}
			d.put(i, c)
			i++
		}
	}
	return nil
}

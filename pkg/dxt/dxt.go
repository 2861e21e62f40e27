// Package dxt decodes BC1/BC2/BC3 (DXT1/3/5) block-compressed texel
// streams into raw RGBA buffers.
package dxt

import "encoding/binary"

const (
	bc1BlockSize = 8
	bc2BlockSize = 16
	bc3BlockSize = 16
)

// DecodeBC1 decodes a DXT1 stream into a width*height*4 RGBA buffer.
// Returns nil when the stream is shorter than the block grid requires.
func DecodeBC1(data []byte, width, height int) []byte {
	bw, bh, ok := blockGrid(data, width, height, bc1BlockSize)
	if !ok {
		return nil
	}

	out := make([]byte, width*height*4)
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			c0 := binary.LittleEndian.Uint16(data[offset:])
			c1 := binary.LittleEndian.Uint16(data[offset+2:])
			indices := binary.LittleEndian.Uint32(data[offset+4:])
			offset += bc1BlockSize

			colors, alphas := colorPalette(c0, c1, true)

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					i := (indices >> uint(2*(py*4+px))) & 0x03
					c := colors[i]
					set(out, width, height, bx*4+px, by*4+py, c[0], c[1], c[2], alphas[i])
				}
			}
		}
	}

	return out
}

// DecodeBC2 decodes a DXT2/DXT3 stream (explicit 4-bit alpha).
func DecodeBC2(data []byte, width, height int) []byte {
	bw, bh, ok := blockGrid(data, width, height, bc2BlockSize)
	if !ok {
		return nil
	}

	out := make([]byte, width*height*4)
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			alphaBits := binary.LittleEndian.Uint64(data[offset:])
			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += bc2BlockSize

			colors, _ := colorPalette(c0, c1, false)

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					p := py*4 + px
					a := uint8((alphaBits >> (4 * p)) & 0x0F)
					a = a<<4 | a
					c := colors[(indices>>(2*p))&0x03]
					set(out, width, height, bx*4+px, by*4+py, c[0], c[1], c[2], a)
				}
			}
		}
	}

	return out
}

// DecodeBC3 decodes a DXT4/DXT5 stream (interpolated alpha).
func DecodeBC3(data []byte, width, height int) []byte {
	bw, bh, ok := blockGrid(data, width, height, bc3BlockSize)
	if !ok {
		return nil
	}

	out := make([]byte, width*height*4)
	offset := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			a0 := data[offset]
			a1 := data[offset+1]

			var alphaBits uint64
			for i := 0; i < 6; i++ {
				alphaBits |= uint64(data[offset+2+i]) << (8 * i)
			}

			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += bc3BlockSize

			alpha := alphaPalette(a0, a1)
			colors, _ := colorPalette(c0, c1, false)

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					p := py*4 + px
					a := alpha[(alphaBits>>(3*p))&0x07]
					c := colors[(indices>>(2*p))&0x03]
					set(out, width, height, bx*4+px, by*4+py, c[0], c[1], c[2], a)
				}
			}
		}
	}

	return out
}

// blockGrid returns the 4x4 block dimensions and whether the stream
// carries enough data for them.
func blockGrid(data []byte, width, height, blockSize int) (int, int, bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	bw := (width + 3) / 4
	bh := (height + 3) / 4
	if len(data) < bw*bh*blockSize {
		return 0, 0, false
	}
	return bw, bh, true
}

// colorPalette expands the two RGB565 endpoints into the 4-entry color
// table. In one-bit-alpha mode (BC1 with c0 <= c1) the fourth entry is
// transparent black.
func colorPalette(c0, c1 uint16, oneBitAlpha bool) ([4][3]uint8, [4]uint8) {
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)

	var colors [4][3]uint8
	alphas := [4]uint8{255, 255, 255, 255}

	colors[0] = [3]uint8{r0, g0, b0}
	colors[1] = [3]uint8{r1, g1, b1}

	if !oneBitAlpha || c0 > c1 {
		colors[2] = [3]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
		}
		colors[3] = [3]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
		}
	} else {
		colors[2] = [3]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
		}
		colors[3] = [3]uint8{}
		alphas[3] = 0
	}

	return colors, alphas
}

// alphaPalette expands the two alpha endpoints into the 8-entry table.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	var alpha [8]uint8
	alpha[0] = a0
	alpha[1] = a1

	if a0 > a1 {
		for i := 1; i < 7; i++ {
			alpha[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			alpha[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		alpha[6] = 0
		alpha[7] = 255
	}

	return alpha
}

// expand565 widens RGB565 channels to 8 bits, replicating high bits
// into the low bits.
func expand565(c uint16) (uint8, uint8, uint8) {
	r := uint8((c >> 11) & 0x1F)
	g := uint8((c >> 5) & 0x3F)
	b := uint8(c & 0x1F)
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}

// set writes one RGBA pixel, discarding texels that fall outside the
// image (edge blocks of non-multiple-of-4 images).
func set(out []byte, width, height, x, y int, r, g, b, a uint8) {
	if x >= width || y >= height {
		return
	}
	i := (y*width + x) * 4
	out[i] = r
	out[i+1] = g
	out[i+2] = b
	out[i+3] = a
}

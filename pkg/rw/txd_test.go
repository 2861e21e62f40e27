package rw

import (
	"errors"
	"testing"
)

// redBC1Block is one BC1 block whose every texel is opaque red.
func redBC1Block() []byte {
	return cat(leU16(0xF800), leU16(0x0000), leU32(0))
}

func makeTextureNative(name string, platform, rasterFormat uint32, d3dFormat string, depth, compressionFlags uint8, palette []byte, mips ...[]byte) []byte {
	structPayload := cat(
		leU32(platform),
		leU32(0x00011106), // sampler flags
		padStr(name, 32),
		padStr("", 32),
		leU32(rasterFormat),
		padStr(d3dFormat, 4),
		leU16(4), leU16(4),
		[]byte{depth, uint8(len(mips)), 4, compressionFlags},
	)
	structPayload = append(structPayload, palette...)
	for _, mip := range mips {
		structPayload = append(structPayload, leU32(uint32(len(mip)))...)
		structPayload = append(structPayload, mip...)
	}
	return sec(SectionTextureNative, rawVersion, sec(SectionStruct, rawVersion, structPayload))
}

func makeTXD(natives ...[]byte) []byte {
	body := sec(SectionStruct, rawVersion, cat(leU16(uint16(len(natives))), leU16(0)))
	for _, native := range natives {
		body = append(body, native...)
	}
	return sec(SectionTextureDictionary, rawVersion, body)
}

func assertRed(t *testing.T, pixels []byte) {
	t.Helper()
	if len(pixels) != 4*4*4 {
		t.Fatalf("pixels = %d bytes, want 64", len(pixels))
	}
	for i := 0; i < len(pixels); i += 4 {
		if pixels[i] != 255 || pixels[i+1] != 0 || pixels[i+2] != 0 || pixels[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque red", i/4, pixels[i:i+4])
		}
	}
}

func TestParseTXD_D3D9Compressed(t *testing.T) {
	data := makeTXD(makeTextureNative("wall", PlatformD3D9, 0, "DXT1", 16, 0x09, nil, redBC1Block()))
	txd, err := ParseTXD(data)
	if err != nil {
		t.Fatalf("ParseTXD: %v", err)
	}
	if txd.TextureCount != 1 || len(txd.TextureNatives) != 1 {
		t.Fatalf("TXD = %+v", txd)
	}

	native := txd.TextureNatives[0]
	if native.TextureName != "wall" {
		t.Errorf("TextureName = %q", native.TextureName)
	}
	if native.PlatformID != PlatformD3D9 || native.D3DFormat != "DXT1" {
		t.Errorf("platform/format = %d %q", native.PlatformID, native.D3DFormat)
	}
	if native.Width != 4 || native.Height != 4 || native.Depth != 16 {
		t.Errorf("dimensions = %dx%dx%d", native.Width, native.Height, native.Depth)
	}
	if !native.Alpha || !native.Compressed || native.CubeTexture || native.AutoMipMaps {
		t.Errorf("raster flags = %+v", native)
	}
	if native.FilterMode != 0x06 || native.UAddressing != 1 || native.VAddressing != 1 {
		t.Errorf("sampler state = %+v", native)
	}

	if len(native.Mipmaps) != 1 {
		t.Fatalf("Mipmaps = %d levels", len(native.Mipmaps))
	}
	assertRed(t, native.Mipmaps[0])
}

func TestParseTXD_D3D8Compressed(t *testing.T) {
	// D3D8 derives the algorithm from the compression flag byte, not
	// the format tag.
	data := makeTXD(makeTextureNative("floor", PlatformD3D8, 0, "XXXX", 16, 1, nil, redBC1Block()))
	txd, err := ParseTXD(data)
	if err != nil {
		t.Fatalf("ParseTXD: %v", err)
	}
	assertRed(t, txd.TextureNatives[0].Mipmaps[0])
}

func TestParseTXD_Palette(t *testing.T) {
	tests := []struct {
		name         string
		rasterFormat uint32
		depth        uint8
		paletteSize  int
		wantType     uint32
	}{
		{"8-bit palette", 2 << 13, 8, 1024, Palette8},
		{"4-bit palette", 1 << 13, 4, 64, Palette4},
		{"4-bit palette wide entries", 1 << 13, 8, 128, Palette4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A decodable texture follows the palette one, proving the
			// palette block was consumed exactly.
			data := makeTXD(
				makeTextureNative("indexed", PlatformD3D8, tt.rasterFormat, "", tt.depth, 0, make([]byte, tt.paletteSize), make([]byte, 16)),
				makeTextureNative("plain", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block()),
			)
			txd, err := ParseTXD(data)
			if err != nil {
				t.Fatalf("ParseTXD: %v", err)
			}

			indexed := txd.TextureNatives[0]
			if indexed.PaletteType() != tt.wantType {
				t.Errorf("PaletteType = %d, want %d", indexed.PaletteType(), tt.wantType)
			}
			if len(indexed.Mipmaps) != 1 || indexed.Mipmaps[0] != nil {
				t.Errorf("palette texture pixels = %+v, want empty", indexed.Mipmaps)
			}

			assertRed(t, txd.TextureNatives[1].Mipmaps[0])
		})
	}
}

func TestParseTXD_UnknownFormatTag(t *testing.T) {
	data := makeTXD(makeTextureNative("odd", PlatformD3D9, 0, "AB12", 16, 0x08, nil, redBC1Block()))
	txd, err := ParseTXD(data)
	if err != nil {
		t.Fatalf("ParseTXD: %v", err)
	}
	if pixels := txd.TextureNatives[0].Mipmaps[0]; pixels != nil {
		t.Errorf("pixels = %d bytes, want empty", len(pixels))
	}
}

func TestParseTXD_NilDecoder(t *testing.T) {
	data := makeTXD(makeTextureNative("wall", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block()))
	txd, err := ParseTXDWithDecoder(data, nil)
	if err != nil {
		t.Fatalf("ParseTXDWithDecoder: %v", err)
	}
	native := txd.TextureNatives[0]
	if native.TextureName != "wall" || !native.Compressed {
		t.Errorf("metadata lost: %+v", native)
	}
	if native.Mipmaps[0] != nil {
		t.Error("expected empty pixels without a decoder")
	}
}

func TestParseTXD_OnlyFirstMipDecoded(t *testing.T) {
	data := makeTXD(makeTextureNative("chain", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block(), make([]byte, 8)))
	txd, err := ParseTXD(data)
	if err != nil {
		t.Fatalf("ParseTXD: %v", err)
	}
	native := txd.TextureNatives[0]
	if native.MipmapCount != 2 {
		t.Errorf("MipmapCount = %d, want 2", native.MipmapCount)
	}
	if len(native.Mipmaps) != 1 {
		t.Fatalf("decoded levels = %d, want 1", len(native.Mipmaps))
	}
	assertRed(t, native.Mipmaps[0])
}

func TestTXD_Lookups(t *testing.T) {
	data := makeTXD(
		makeTextureNative("first", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block()),
		makeTextureNative("second", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block()),
	)
	txd, err := ParseTXD(data)
	if err != nil {
		t.Fatalf("ParseTXD: %v", err)
	}

	names := txd.TextureNames()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("TextureNames = %v", names)
	}
	if found := txd.FindTexture("second"); found == nil || found.TextureName != "second" {
		t.Errorf("FindTexture = %+v", found)
	}
	if txd.FindTexture("missing") != nil {
		t.Error("FindTexture of missing name should be nil")
	}
}

func TestParseTXD_Truncated(t *testing.T) {
	data := makeTXD(makeTextureNative("wall", PlatformD3D9, 0, "DXT1", 16, 0x08, nil, redBC1Block()))
	for _, cut := range []int{5, 20, 40, len(data) - 10} {
		if _, err := ParseTXD(data[:cut]); !errors.Is(err, ErrTruncated) {
			t.Errorf("cut at %d: expected ErrTruncated, got %v", cut, err)
		}
	}
}

func TestBlockFormatFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want BlockFormat
	}{
		{"DXT1", BC1},
		{"DXT2", BC2},
		{"DXT3", BC2},
		{"DXT4", BC3},
		{"DXT5", BC3},
		{"PNG ", BlockUnknown},
		{"", BlockUnknown},
	}
	for _, tt := range tests {
		if got := blockFormatFromTag(tt.tag); got != tt.want {
			t.Errorf("blockFormatFromTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestBlockFormat_String(t *testing.T) {
	if BC1.String() != "BC1" || BC3.String() != "BC3" || BlockUnknown.String() != "Unknown" {
		t.Error("BlockFormat names are wrong")
	}
}

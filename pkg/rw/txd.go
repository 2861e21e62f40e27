package rw

import (
	"fmt"
	"os"
)

// Platform identifiers found in texture-native sections.
const (
	PlatformD3D8 uint32 = 8
	PlatformD3D9 uint32 = 9
)

// Palette type codes, stored in bits 13-14 of the raster format.
const (
	PaletteNone uint32 = 0
	Palette4    uint32 = 1
	Palette8    uint32 = 2
)

// BlockFormat identifies a block-compression algorithm.
type BlockFormat int

const (
	// BlockUnknown marks a tag no known algorithm matches.
	BlockUnknown BlockFormat = iota
	// BC1 is DXT1: opaque or 1-bit alpha, 8 bytes per 4x4 block.
	BC1
	// BC2 is DXT2/DXT3: explicit alpha, 16 bytes per block.
	BC2
	// BC3 is DXT4/DXT5: interpolated alpha, 16 bytes per block.
	BC3
)

// String returns the algorithm name.
func (f BlockFormat) String() string {
	switch f {
	case BC1:
		return "BC1"
	case BC2:
		return "BC2"
	case BC3:
		return "BC3"
	default:
		return "Unknown"
	}
}

// BlockDecoder decompresses a block-compressed texel stream into an
// RGBA buffer of width*height*4 bytes. Implementations return nil for
// formats they do not recognize; that degrades the texture to empty
// pixels instead of failing the decode.
type BlockDecoder interface {
	Decompress(format BlockFormat, data []byte, width, height int) []byte
}

// blockFormatFromTag maps an on-disk DXT tag to its algorithm.
func blockFormatFromTag(tag string) BlockFormat {
	switch tag {
	case "DXT1":
		return BC1
	case "DXT2", "DXT3":
		return BC2
	case "DXT4", "DXT5":
		return BC3
	default:
		return BlockUnknown
	}
}

// TXD is a fully decoded texture dictionary.
type TXD struct {
	TextureCount   uint16          `json:"texture_count"`
	TextureNatives []TextureNative `json:"texture_natives"`
}

// TextureNative is one texture entry: sampler state, raster metadata
// and decoded mip pixels. Only mip level 0 is ever decoded; further
// declared levels are consumed from the stream but their pixels
// discarded.
type TextureNative struct {
	PlatformID   uint32   `json:"platform_id"`
	FilterMode   uint8    `json:"filter_mode"`
	UAddressing  uint8    `json:"u_addressing"`
	VAddressing  uint8    `json:"v_addressing"`
	TextureName  string   `json:"texture_name"`
	MaskName     string   `json:"mask_name"`
	RasterFormat uint32   `json:"raster_format"`
	D3DFormat    string   `json:"d3d_format"`
	Width        uint16   `json:"width"`
	Height       uint16   `json:"height"`
	Depth        uint8    `json:"depth"`
	MipmapCount  uint8    `json:"mipmap_count"`
	RasterType   uint8    `json:"raster_type"`
	Alpha        bool     `json:"alpha"`
	CubeTexture  bool     `json:"cube_texture"`
	AutoMipMaps  bool     `json:"auto_mip_maps"`
	Compressed   bool     `json:"compressed"`
	Mipmaps      [][]byte `json:"mipmaps"`
}

// PaletteType returns the palette code carried in the raster format.
func (t *TextureNative) PaletteType() uint32 {
	return (t.RasterFormat >> 13) & 0b11
}

// ParseTXD decodes a texture dictionary using the default BC1/2/3 block
// decoder.
func ParseTXD(data []byte) (*TXD, error) {
	return ParseTXDWithDecoder(data, defaultBlockDecoder)
}

// ParseTXDWithDecoder decodes a texture dictionary with a
// caller-supplied block-decompression capability. A nil decoder leaves
// compressed textures with empty pixels but intact metadata.
func ParseTXDWithDecoder(data []byte, decoder BlockDecoder) (*TXD, error) {
	s := NewByteStream(data)
	return readTextureDictionary(s, decoder)
}

// ParseTXDFile decodes a texture dictionary from disk.
func ParseTXDFile(path string) (*TXD, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading TXD file: %w", err)
	}
	return ParseTXD(data)
}

func readTextureDictionary(s *ByteStream, decoder BlockDecoder) (*TXD, error) {
	_, end, err := enterSection(s) // TextureDictionary
	if err != nil {
		return nil, err
	}
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	textureCount, err := s.ReadU16()
	if err != nil {
		return nil, err
	}
	s.Skip(2) // reserved

	// A texture native is at least two headers plus its fixed header
	// block.
	if err := s.checkCount(uint64(textureCount), 24); err != nil {
		return nil, err
	}

	natives := make([]TextureNative, 0, textureCount)
	for i := uint16(0); i < textureCount; i++ {
		native, err := readTextureNative(s, decoder)
		if err != nil {
			return nil, fmt.Errorf("texture native %d: %w", i, err)
		}
		natives = append(natives, *native)
	}

	s.SetPos(end)

	return &TXD{TextureCount: textureCount, TextureNatives: natives}, nil
}

func readTextureNative(s *ByteStream, decoder BlockDecoder) (*TextureNative, error) {
	_, end, err := enterSection(s) // TextureNative
	if err != nil {
		return nil, err
	}
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	platformID, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	flags, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	textureName, err := s.ReadString(32)
	if err != nil {
		return nil, err
	}
	maskName, err := s.ReadString(32)
	if err != nil {
		return nil, err
	}

	rasterFormat, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	d3dFormat, err := s.ReadString(4)
	if err != nil {
		return nil, err
	}
	width, err := s.ReadU16()
	if err != nil {
		return nil, err
	}
	height, err := s.ReadU16()
	if err != nil {
		return nil, err
	}
	depth, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	mipmapCount, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	rasterType, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	compressionFlags, err := s.ReadU8()
	if err != nil {
		return nil, err
	}

	native := &TextureNative{
		PlatformID:   platformID,
		FilterMode:   uint8(flags & 0xFF),
		UAddressing:  uint8((flags & 0xF00) >> 8),
		VAddressing:  uint8((flags & 0xF000) >> 12),
		TextureName:  textureName,
		MaskName:     maskName,
		RasterFormat: rasterFormat,
		D3DFormat:    d3dFormat,
		Width:        width,
		Height:       height,
		Depth:        depth,
		MipmapCount:  mipmapCount,
		RasterType:   rasterType,
		Alpha:        compressionFlags&(1<<0) != 0,
		CubeTexture:  compressionFlags&(1<<1) != 0,
		AutoMipMaps:  compressionFlags&(1<<2) != 0,
		Compressed:   compressionFlags&(1<<3) != 0,
	}

	// Palette-indexed rasters carry their palette before the mip data.
	// Palette pixel reconstruction is not implemented; the block is
	// consumed to keep stream position and the pixels stay empty.
	hasPalette := native.PaletteType() != PaletteNone
	if hasPalette {
		var paletteSize uint64
		switch {
		case native.PaletteType() == Palette8:
			paletteSize = 1024
		case depth == 4:
			paletteSize = 64
		default:
			paletteSize = 128
		}
		if _, err := s.ReadBytes(paletteSize); err != nil {
			return nil, fmt.Errorf("reading palette: %w", err)
		}
	}

	for i := uint8(0); i < mipmapCount; i++ {
		rasterSize, err := s.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("mip %d size: %w", i, err)
		}
		raster, err := s.ReadBytes(uint64(rasterSize))
		if err != nil {
			return nil, fmt.Errorf("mip %d data: %w", i, err)
		}

		if i != 0 {
			continue
		}

		var pixels []byte
		switch {
		case hasPalette:
			// Not implemented.
		case platformID == PlatformD3D8 && compressionFlags != 0:
			pixels = decompressBlocks(decoder, fmt.Sprintf("DXT%d", compressionFlags), raster, width, height)
		case platformID == PlatformD3D9 && native.Compressed:
			pixels = decompressBlocks(decoder, d3dFormat, raster, width, height)
		default:
			// Raw decoding is not implemented.
		}
		native.Mipmaps = append(native.Mipmaps, pixels)
	}

	s.SetPos(end)
	return native, nil
}

// decompressBlocks resolves the DXT tag and invokes the capability.
// Unrecognized tags and nil decoders yield empty pixels.
func decompressBlocks(decoder BlockDecoder, tag string, raster []byte, width, height uint16) []byte {
	if decoder == nil {
		return nil
	}
	format := blockFormatFromTag(tag)
	if format == BlockUnknown {
		return nil
	}
	return decoder.Decompress(format, raster, int(width), int(height))
}

// TextureNames returns the texture names in dictionary order.
func (t *TXD) TextureNames() []string {
	names := make([]string, 0, len(t.TextureNatives))
	for i := range t.TextureNatives {
		names = append(names, t.TextureNatives[i].TextureName)
	}
	return names
}

// FindTexture returns the texture native with the given name, or nil.
func (t *TXD) FindTexture(name string) *TextureNative {
	for i := range t.TextureNatives {
		if t.TextureNatives[i].TextureName == name {
			return &t.TextureNatives[i]
		}
	}
	return nil
}

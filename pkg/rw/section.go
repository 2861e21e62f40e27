package rw

import "fmt"

// SectionType identifies a chunk in the RenderWare section tree. The
// numeric codes are a fixed wire contract shared by all three formats.
type SectionType uint32

const (
	SectionStruct             SectionType = 0x0001
	SectionString             SectionType = 0x0002
	SectionExtension          SectionType = 0x0003
	SectionTexture            SectionType = 0x0006
	SectionMaterial           SectionType = 0x0007
	SectionMaterialList       SectionType = 0x0008
	SectionFrameList          SectionType = 0x000E
	SectionGeometry           SectionType = 0x000F
	SectionClump              SectionType = 0x0010
	SectionAtomic             SectionType = 0x0014
	SectionTextureNative      SectionType = 0x0015
	SectionTextureDictionary  SectionType = 0x0016
	SectionGeometryList       SectionType = 0x001A
	SectionSkin               SectionType = 0x0116
	SectionAnim               SectionType = 0x011E
	SectionMaterialEffects    SectionType = 0x0120
	SectionReflectionMaterial SectionType = 0x0253F2FC
	SectionNodeName           SectionType = 0x0253F2FE
)

// String returns a human-readable section name.
func (t SectionType) String() string {
	switch t {
	case SectionStruct:
		return "Struct"
	case SectionString:
		return "String"
	case SectionExtension:
		return "Extension"
	case SectionTexture:
		return "Texture"
	case SectionMaterial:
		return "Material"
	case SectionMaterialList:
		return "MaterialList"
	case SectionFrameList:
		return "FrameList"
	case SectionGeometry:
		return "Geometry"
	case SectionClump:
		return "Clump"
	case SectionAtomic:
		return "Atomic"
	case SectionTextureNative:
		return "TextureNative"
	case SectionTextureDictionary:
		return "TextureDictionary"
	case SectionGeometryList:
		return "GeometryList"
	case SectionSkin:
		return "Skin"
	case SectionAnim:
		return "Anim"
	case SectionMaterialEffects:
		return "MaterialEffects"
	case SectionReflectionMaterial:
		return "ReflectionMaterial"
	case SectionNodeName:
		return "NodeName"
	default:
		return fmt.Sprintf("Unknown(0x%X)", uint32(t))
	}
}

// SectionHeader is the fixed 12-byte chunk header preceding every
// section payload. Size counts the payload only, not the header.
type SectionHeader struct {
	Type    SectionType
	Size    uint32
	Version uint32
}

// readSectionHeader reads the three little-endian u32 header fields.
func readSectionHeader(s *ByteStream) (SectionHeader, error) {
	t, err := s.ReadU32()
	if err != nil {
		return SectionHeader{}, fmt.Errorf("reading section type: %w", err)
	}
	size, err := s.ReadU32()
	if err != nil {
		return SectionHeader{}, fmt.Errorf("reading section size: %w", err)
	}
	version, err := s.ReadU32()
	if err != nil {
		return SectionHeader{}, fmt.Errorf("reading section version: %w", err)
	}
	return SectionHeader{Type: SectionType(t), Size: size, Version: version}, nil
}

// enterSection reads a header and returns it together with the absolute
// end of its payload. Decoders that cannot trust a sub-decoder to consume
// its exact span call s.SetPos(end) afterwards to resynchronize.
func enterSection(s *ByteStream) (SectionHeader, uint64, error) {
	header, err := readSectionHeader(s)
	if err != nil {
		return SectionHeader{}, 0, err
	}
	return header, s.Pos() + uint64(header.Size), nil
}

// skipSection reads a header and skips its entire declared payload.
func skipSection(s *ByteStream) error {
	header, err := readSectionHeader(s)
	if err != nil {
		return err
	}
	s.Skip(int64(header.Size))
	return nil
}

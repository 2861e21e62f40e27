package rw

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/rwkit/pkg/math"
)

// ErrUnsupportedIFP is returned when an animation package starts with
// neither known signature.
var ErrUnsupportedIFP = errors.New("unsupported IFP format")

// IFPVersion tags the two incompatible animation package sub-formats.
type IFPVersion int

const (
	// ANP3 is the legacy fixed-point sub-format.
	ANP3 IFPVersion = iota
	// ANPK is the modern floating-point sub-format.
	ANPK
)

// String returns the on-disk signature of the sub-format.
func (v IFPVersion) String() string {
	switch v {
	case ANP3:
		return "ANP3"
	case ANPK:
		return "ANPK"
	default:
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
}

// MarshalJSON serializes the sub-format as its signature.
func (v IFPVersion) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// IFP is a fully decoded animation package.
type IFP struct {
	Version    IFPVersion     `json:"version"`
	Name       string         `json:"name"`
	Animations []IFPAnimation `json:"animations"`
}

// IFPAnimation is one named animation: an ordered set of bone tracks.
type IFPAnimation struct {
	Name  string    `json:"name"`
	Bones []IFPBone `json:"bones"`
}

// IFPBone is one per-bone keyframe track. KeyframeType is the
// 4-character channel tag: its 3rd character is 'T' when translation
// is encoded and its 4th is 'S' when scale is encoded.
type IFPBone struct {
	Name         string        `json:"name"`
	KeyframeType string        `json:"keyframe_type"`
	UseBoneID    bool          `json:"use_bone_id"`
	BoneID       int32         `json:"bone_id"`
	Keyframes    []IFPKeyframe `json:"keyframes"`
}

// IFPKeyframe is one sample on a track. Position defaults to the origin
// and scale to the unit vector when the channel tag leaves them
// unencoded.
type IFPKeyframe struct {
	Time     float32   `json:"time"`
	Position math.Vec3 `json:"position"`
	Rotation math.Quat `json:"rotation"`
	Scale    math.Vec3 `json:"scale"`
}

// ParseIFP decodes an animation package, detecting the sub-format from
// the leading 4-byte signature.
func ParseIFP(data []byte) (*IFP, error) {
	s := NewByteStream(data)

	signature, err := s.ReadString(4)
	if err != nil {
		return nil, err
	}
	s.SetPos(0)

	switch signature {
	case "ANP3":
		return readANP3(s)
	case "ANPK":
		return readANPK(s)
	default:
		return nil, fmt.Errorf("%w: signature %q", ErrUnsupportedIFP, signature)
	}
}

// ParseIFPFile decodes an animation package from disk.
func ParseIFPFile(path string) (*IFP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading IFP file: %w", err)
	}
	return ParseIFP(data)
}

// AnimationNames returns the animation names in package order.
func (p *IFP) AnimationNames() []string {
	names := make([]string, 0, len(p.Animations))
	for i := range p.Animations {
		names = append(names, p.Animations[i].Name)
	}
	return names
}

// FindAnimation returns the animation with the given name, or nil.
func (p *IFP) FindAnimation(name string) *IFPAnimation {
	for i := range p.Animations {
		if p.Animations[i].Name == name {
			return &p.Animations[i]
		}
	}
	return nil
}

func readANP3(s *ByteStream) (*IFP, error) {
	s.Skip(4) // signature
	if _, err := s.ReadU32(); err != nil { // package size
		return nil, err
	}
	name, err := s.ReadString(24)
	if err != nil {
		return nil, err
	}
	animationCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	// Each animation carries at least its 36-byte fixed header.
	if err := s.checkCount(uint64(animationCount), 36); err != nil {
		return nil, err
	}

	animations := make([]IFPAnimation, 0, animationCount)
	for i := uint32(0); i < animationCount; i++ {
		animation, err := readANP3Animation(s)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		animations = append(animations, *animation)
	}

	return &IFP{Version: ANP3, Name: name, Animations: animations}, nil
}

func readANP3Animation(s *ByteStream) (*IFPAnimation, error) {
	name, err := s.ReadString(24)
	if err != nil {
		return nil, err
	}
	boneCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	s.Skip(8) // keyframe data size, reserved

	// Each bone track carries at least its 36-byte fixed header.
	if err := s.checkCount(uint64(boneCount), 36); err != nil {
		return nil, err
	}

	bones := make([]IFPBone, 0, boneCount)
	for i := uint32(0); i < boneCount; i++ {
		bone, err := readANP3Bone(s)
		if err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}
		bones = append(bones, *bone)
	}

	return &IFPAnimation{Name: name, Bones: bones}, nil
}

func readANP3Bone(s *ByteStream) (*IFPBone, error) {
	name, err := s.ReadString(24)
	if err != nil {
		return nil, err
	}
	channelType, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	keyframeCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	keyframeType := "KR00"
	if channelType == 4 {
		keyframeType = "KRT0"
	}
	boneID, err := s.ReadI32()
	if err != nil {
		return nil, err
	}

	// Rotation and time only: 5 int16 values per keyframe.
	if err := s.checkCount(uint64(keyframeCount), 10); err != nil {
		return nil, err
	}

	hasPosition := keyframeType[2] == 'T'

	keyframes := make([]IFPKeyframe, 0, keyframeCount)
	for i := uint32(0); i < keyframeCount; i++ {
		keyframe, err := readANP3Keyframe(s, hasPosition)
		if err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
		keyframes = append(keyframes, keyframe)
	}

	return &IFPBone{
		Name:         name,
		KeyframeType: keyframeType,
		UseBoneID:    true,
		BoneID:       boneID,
		Keyframes:    keyframes,
	}, nil
}

func readANP3Keyframe(s *ByteStream, hasPosition bool) (IFPKeyframe, error) {
	var raw [5]int16
	for i := range raw {
		v, err := s.ReadI16()
		if err != nil {
			return IFPKeyframe{}, err
		}
		raw[i] = v
	}

	keyframe := IFPKeyframe{
		Time: float32(raw[4]),
		Rotation: math.Quat{
			X: float32(raw[0]) / 4096.0,
			Y: float32(raw[1]) / 4096.0,
			Z: float32(raw[2]) / 4096.0,
			W: float32(raw[3]) / 4096.0,
		},
		Scale: math.Vec3{X: 1, Y: 1, Z: 1},
	}

	if hasPosition {
		var pos [3]int16
		for i := range pos {
			v, err := s.ReadI16()
			if err != nil {
				return IFPKeyframe{}, err
			}
			pos[i] = v
		}
		keyframe.Position = math.Vec3{
			X: float32(pos[0]) / 1024.0,
			Y: float32(pos[1]) / 1024.0,
			Z: float32(pos[2]) / 1024.0,
		}
	}

	return keyframe, nil
}

func readANPK(s *ByteStream) (*IFP, error) {
	s.Skip(4) // signature
	if _, err := s.ReadU32(); err != nil { // package size
		return nil, err
	}
	s.Skip(4) // INFO tag
	infoLen, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	animationCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	if infoLen < 4 {
		return nil, fmt.Errorf("%w: info block of %d bytes", ErrTruncated, infoLen)
	}
	name, err := s.ReadString(uint64(infoLen) - 4)
	if err != nil {
		return nil, err
	}
	// The name block is padded to a multiple of 4 bytes.
	s.Skip(int64((4 - infoLen%4) % 4))

	if err := s.checkCount(uint64(animationCount), 36); err != nil {
		return nil, err
	}

	animations := make([]IFPAnimation, 0, animationCount)
	for i := uint32(0); i < animationCount; i++ {
		animation, err := readANPKAnimation(s)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		animations = append(animations, *animation)
	}

	return &IFP{Version: ANPK, Name: name, Animations: animations}, nil
}

func readANPKAnimation(s *ByteStream) (*IFPAnimation, error) {
	s.Skip(4) // NAME tag
	nameLen, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	name, err := s.ReadString(uint64(nameLen))
	if err != nil {
		return nil, err
	}
	s.Skip(int64((4 - nameLen%4) % 4))
	s.Skip(16) // DGAN tag, animation size, INFO tag, info size

	boneCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	s.Skip(4) // reserved

	// Each bone track carries at least its 56-byte fixed header.
	if err := s.checkCount(uint64(boneCount), 56); err != nil {
		return nil, err
	}

	bones := make([]IFPBone, 0, boneCount)
	for i := uint32(0); i < boneCount; i++ {
		bone, err := readANPKBone(s)
		if err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}
		bones = append(bones, *bone)
	}

	return &IFPAnimation{Name: name, Bones: bones}, nil
}

func readANPKBone(s *ByteStream) (*IFPBone, error) {
	s.Skip(8) // CPAN tag, bone section size
	s.Skip(4) // ANIM tag
	animLen, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	name, err := s.ReadString(28)
	if err != nil {
		return nil, err
	}
	keyframeCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	s.Skip(8) // reserved

	// A declared track length of 44 means a bone id follows; anything
	// else reserves 8 bytes instead. Preserved as observed, even
	// though it cannot distinguish a genuine bone id of 0.
	useBoneID := animLen == 44
	var boneID int32
	if useBoneID {
		if boneID, err = s.ReadI32(); err != nil {
			return nil, err
		}
	} else {
		s.Skip(8)
	}

	bone := &IFPBone{
		Name:         name,
		KeyframeType: "K000",
		UseBoneID:    useBoneID,
		BoneID:       boneID,
	}

	if keyframeCount > 0 {
		keyframeType, err := s.ReadString(4)
		if err != nil {
			return nil, err
		}
		s.Skip(4) // keyframe data length
		bone.KeyframeType = keyframeType

		hasPosition := len(keyframeType) > 2 && keyframeType[2] == 'T'
		hasScale := len(keyframeType) > 3 && keyframeType[3] == 'S'

		// Rotation and time only: 5 floats per keyframe.
		if err := s.checkCount(uint64(keyframeCount), 20); err != nil {
			return nil, err
		}

		bone.Keyframes = make([]IFPKeyframe, 0, keyframeCount)
		for i := uint32(0); i < keyframeCount; i++ {
			keyframe, err := readANPKKeyframe(s, hasPosition, hasScale)
			if err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			bone.Keyframes = append(bone.Keyframes, keyframe)
		}
	}

	return bone, nil
}

func readANPKKeyframe(s *ByteStream, hasPosition, hasScale bool) (IFPKeyframe, error) {
	var rotation [4]float32
	for i := range rotation {
		v, err := s.ReadF32()
		if err != nil {
			return IFPKeyframe{}, err
		}
		rotation[i] = v
	}

	keyframe := IFPKeyframe{
		Rotation: math.Quat{X: rotation[0], Y: rotation[1], Z: rotation[2], W: rotation[3]},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}

	if hasPosition {
		position, err := readVec3(s)
		if err != nil {
			return IFPKeyframe{}, err
		}
		keyframe.Position = position
	}
	if hasScale {
		scale, err := readVec3(s)
		if err != nil {
			return IFPKeyframe{}, err
		}
		keyframe.Scale = scale
	}

	time, err := s.ReadF32()
	if err != nil {
		return IFPKeyframe{}, err
	}
	keyframe.Time = time

	return keyframe, nil
}

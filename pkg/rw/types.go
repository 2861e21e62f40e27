package rw

import "github.com/Faultbox/rwkit/pkg/math"

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// TexCoord is a UV texture coordinate.
type TexCoord struct {
	U float32 `json:"u"`
	V float32 `json:"v"`
}

// Triangle references three vertices and the material they are drawn
// with. The indices are carried as a float vector (x=vertex1,
// y=vertex2, z=vertex3) to match the serialized layout consumers of
// the decoded tree expect.
type Triangle struct {
	Vector     math.Vec3 `json:"vector"`
	MaterialID uint16    `json:"material_id"`
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center math.Vec3 `json:"vector"`
	Radius float32   `json:"radius"`
}

func readVec3(s *ByteStream) (math.Vec3, error) {
	x, err := s.ReadF32()
	if err != nil {
		return math.Vec3{}, err
	}
	y, err := s.ReadF32()
	if err != nil {
		return math.Vec3{}, err
	}
	z, err := s.ReadF32()
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

func readVec4(s *ByteStream) (math.Vec4, error) {
	x, err := s.ReadF32()
	if err != nil {
		return math.Vec4{}, err
	}
	y, err := s.ReadF32()
	if err != nil {
		return math.Vec4{}, err
	}
	z, err := s.ReadF32()
	if err != nil {
		return math.Vec4{}, err
	}
	t, err := s.ReadF32()
	if err != nil {
		return math.Vec4{}, err
	}
	return math.Vec4{X: x, Y: y, Z: z, T: t}, nil
}

func readMat3(s *ByteStream) (math.Mat3, error) {
	right, err := readVec3(s)
	if err != nil {
		return math.Mat3{}, err
	}
	up, err := readVec3(s)
	if err != nil {
		return math.Mat3{}, err
	}
	at, err := readVec3(s)
	if err != nil {
		return math.Mat3{}, err
	}
	return math.Mat3{Right: right, Up: up, At: at}, nil
}

func readMat4(s *ByteStream) (math.Mat4, error) {
	right, err := readVec4(s)
	if err != nil {
		return math.Mat4{}, err
	}
	up, err := readVec4(s)
	if err != nil {
		return math.Mat4{}, err
	}
	at, err := readVec4(s)
	if err != nil {
		return math.Mat4{}, err
	}
	transform, err := readVec4(s)
	if err != nil {
		return math.Mat4{}, err
	}
	return math.Mat4{Right: right, Up: up, At: at, Transform: transform}, nil
}

func readColor(s *ByteStream) (Color, error) {
	b, err := s.take(4)
	if err != nil {
		return Color{}, err
	}
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

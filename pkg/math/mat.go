package math

// Mat3 is a 3x3 row-major matrix. Each row is a semantic basis vector
// following the engine's right/up/at naming.
type Mat3 struct {
	Right Vec3 `json:"right"`
	Up    Vec3 `json:"up"`
	At    Vec3 `json:"at"`
}

// Mat3Identity returns the identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{
		Right: Vec3{X: 1},
		Up:    Vec3{Y: 1},
		At:    Vec3{Z: 1},
	}
}

// MulVec transforms v by the matrix using the row-vector convention
// (v * M), matching how the engine composes frame orientations.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		v.X*m.Right.X + v.Y*m.Up.X + v.Z*m.At.X,
		v.X*m.Right.Y + v.Y*m.Up.Y + v.Z*m.At.Y,
		v.X*m.Right.Z + v.Y*m.Up.Z + v.Z*m.At.Z,
	}
}

// Mul returns m * other under the row-vector convention: transforming by
// the result equals transforming by m, then by other.
func (m Mat3) Mul(other Mat3) Mat3 {
	return Mat3{
		Right: other.MulVec(m.Right),
		Up:    other.MulVec(m.Up),
		At:    other.MulVec(m.At),
	}
}

// Transposed returns the transpose, which for a pure rotation is the
// inverse.
func (m Mat3) Transposed() Mat3 {
	return Mat3{
		Right: Vec3{m.Right.X, m.Up.X, m.At.X},
		Up:    Vec3{m.Right.Y, m.Up.Y, m.At.Y},
		At:    Vec3{m.Right.Z, m.Up.Z, m.At.Z},
	}
}

// Mat4 is a 4x4 row-major matrix. The fourth row carries the
// translation, as in the engine's inverse bind matrices.
type Mat4 struct {
	Right     Vec4 `json:"right"`
	Up        Vec4 `json:"up"`
	At        Vec4 `json:"at"`
	Transform Vec4 `json:"transform"`
}

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		Right:     Vec4{X: 1},
		Up:        Vec4{Y: 1},
		At:        Vec4{Z: 1},
		Transform: Vec4{T: 1},
	}
}

// MulPoint transforms a point by the matrix using the row-vector
// convention with an implicit fourth component of 1.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		v.X*m.Right.X + v.Y*m.Up.X + v.Z*m.At.X + m.Transform.X,
		v.X*m.Right.Y + v.Y*m.Up.Y + v.Z*m.At.Y + m.Transform.Y,
		v.X*m.Right.Z + v.Y*m.Up.Z + v.Z*m.At.Z + m.Transform.Z,
	}
}

// Rotation returns the upper 3x3 block.
func (m Mat4) Rotation() Mat3 {
	return Mat3{
		Right: m.Right.Vec3(),
		Up:    m.Up.Vec3(),
		At:    m.At.Vec3(),
	}
}

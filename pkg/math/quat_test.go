package math

import "testing"

func TestQuat_Normalize(t *testing.T) {
	q := Quat{X: 1, Y: 0, Z: 0, W: 1}
	n := q.Normalize()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("normalized length = %f", n.Length())
	}
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion normalized = %+v, want identity", got)
	}
}

func TestQuat_MulIdentity(t *testing.T) {
	q := Quat{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5}
	if got := q.Mul(QuatIdentity()); got != q {
		t.Errorf("q * identity = %+v", got)
	}
	if got := QuatIdentity().Mul(q); got != q {
		t.Errorf("identity * q = %+v", got)
	}
}

func TestQuat_Slerp(t *testing.T) {
	a := QuatIdentity()
	// 90 degree rotation around Z.
	b := Quat{X: 0, Y: 0, Z: 0.70710678, W: 0.70710678}

	if got := a.Slerp(b, 0); !quatAlmostEqual(got, a) {
		t.Errorf("Slerp at 0 = %+v", got)
	}
	if got := a.Slerp(b, 1); !quatAlmostEqual(got, b) {
		t.Errorf("Slerp at 1 = %+v", got)
	}

	// The midpoint is a 45 degree rotation around Z.
	mid := a.Slerp(b, 0.5)
	want := Quat{X: 0, Y: 0, Z: 0.38268343, W: 0.92387953}
	if !quatAlmostEqual(mid, want) {
		t.Errorf("Slerp at 0.5 = %+v, want %+v", mid, want)
	}
}

func quatAlmostEqual(a, b Quat) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z) && almostEqual(a.W, b.W)
}

func TestQuat_ToMat3(t *testing.T) {
	if got := QuatIdentity().ToMat3(); got != Mat3Identity() {
		t.Errorf("identity rotation matrix = %+v", got)
	}

	// 90 degrees around Z maps X to Y.
	q := Quat{X: 0, Y: 0, Z: 0.70710678, W: 0.70710678}
	rotated := q.ToMat3().MulVec(Vec3{1, 0, 0})
	if !almostEqual(rotated.X, 0) || !almostEqual(rotated.Y, 1) || !almostEqual(rotated.Z, 0) {
		t.Errorf("rotated X axis = %+v", rotated)
	}
}

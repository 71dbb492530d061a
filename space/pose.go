package space

import (
	"math"

	"github.com/davidrios/openxr-device-simulator/xr"
)

// unitTolerance bounds how far a quaternion norm may stray from 1.
const unitTolerance = 1e-3

// ValidatePose rejects orientations that are not unit quaternions.
func ValidatePose(p xr.Posef) error {
	q := p.Orientation
	n := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
	if math.IsNaN(n) || math.Abs(n-1) > unitTolerance {
		return xr.Errorf(xr.ErrorPoseInvalid, "", "orientation norm %.4f", n)
	}
	return nil
}

func mulQuat(a, b xr.Quaternionf) xr.Quaternionf {
	return xr.Quaternionf{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

func conj(q xr.Quaternionf) xr.Quaternionf {
	return xr.Quaternionf{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate applies q to v.
func Rotate(q xr.Quaternionf, v xr.Vector3f) xr.Vector3f {
	p := mulQuat(mulQuat(q, xr.Quaternionf{X: v.X, Y: v.Y, Z: v.Z}), conj(q))
	return xr.Vector3f{X: p.X, Y: p.Y, Z: p.Z}
}

func add(a, b xr.Vector3f) xr.Vector3f {
	return xr.Vector3f{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Compose returns the pose of b expressed in the parent of a, where b is
// given relative to a.
func Compose(a, b xr.Posef) xr.Posef {
	return xr.Posef{
		Orientation: mulQuat(a.Orientation, b.Orientation),
		Position:    add(a.Position, Rotate(a.Orientation, b.Position)),
	}
}

// Inverse returns the pose that undoes p.
func Inverse(p xr.Posef) xr.Posef {
	inv := conj(p.Orientation)
	pos := Rotate(inv, p.Position)
	return xr.Posef{
		Orientation: inv,
		Position:    xr.Vector3f{X: -pos.X, Y: -pos.Y, Z: -pos.Z},
	}
}

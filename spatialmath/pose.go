// Package spatialmath defines rigid poses used to move points into a camera's frame.
package spatialmath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transform: a rotation followed by a translation. A pose named T_a_b maps
// points expressed in frame b into frame a.
type Pose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewPose returns a pose with the given translation and orientation. The orientation is
// normalized; a zero quaternion is treated as no rotation.
func NewPose(point r3.Vector, orientation quat.Number) Pose {
	return Pose{point: point, orientation: normalize(orientation)}
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{orientation: quat.Number{Real: 1}}
}

// Point returns the translation of the pose.
func (p Pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the unit quaternion of the pose.
func (p Pose) Orientation() quat.Number {
	if p.orientation == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return p.orientation
}

// Transform applies the pose to v.
func (p Pose) Transform(v r3.Vector) r3.Vector {
	return rotate(p.Orientation(), v).Add(p.point)
}

// Matrix returns the pose as a 4x4 homogeneous transform.
func (p Pose) Matrix() *mat.Dense {
	q := p.Orientation()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(4, 4, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), p.point.X,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), p.point.Y,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), p.point.Z,
		0, 0, 0, 1,
	})
}

// Inverse returns the pose mapping the other way.
func (p Pose) Inverse() Pose {
	inv := quat.Conj(p.Orientation())
	return Pose{point: rotate(inv, p.point).Mul(-1), orientation: inv}
}

// Compose returns the pose applying b first, then a.
func Compose(a, b Pose) Pose {
	return Pose{
		point:       a.Transform(b.point),
		orientation: normalize(quat.Mul(a.Orientation(), b.Orientation())),
	}
}

// PoseAlmostEqual reports whether two poses are equal within epsilon, treating q and -q as the
// same rotation.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.point, b.point, epsilon) &&
		QuaternionAlmostEqual(a.Orientation(), b.Orientation(), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage,
// q == -q, so b is flipped into a's hemisphere first.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	if a.Real*b.Real < 0 {
		b = Flip(b)
	}
	return math.Abs(a.Real-b.Real) < tol &&
		math.Abs(a.Imag-b.Imag) < tol &&
		math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// ParsePose parses "tx,ty,tz,qw,qx,qy,qz". A bare "tx,ty,tz" is a pure translation.
func ParsePose(s string) (Pose, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 && len(fields) != 7 {
		return Pose{}, errors.Errorf("pose %q must have 3 or 7 comma separated values, got %d", s, len(fields))
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Pose{}, errors.Wrapf(err, "pose value %d", i)
		}
		vals[i] = v
	}
	pt := r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}
	if len(vals) == 3 {
		return NewPose(pt, quat.Number{Real: 1}), nil
	}
	return NewPose(pt, quat.Number{Real: vals[3], Imag: vals[4], Jmag: vals[5], Kmag: vals[6]}), nil
}

// String returns the pose in the format accepted by ParsePose.
func (p Pose) String() string {
	q := p.Orientation()
	return fmt.Sprintf("%g,%g,%g,%g,%g,%g,%g", p.point.X, p.point.Y, p.point.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

func rotate(q quat.Number, v r3.Vector) r3.Vector {
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

package cameramodel

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/cammodels/scalar"
)

// ErrMatrixShape is returned when a matrix cannot be used as a 4x4 transform.
var ErrMatrixShape = errors.New("transform must be a 4x4 matrix")

// Mat4FromDense converts a 4x4 gonum matrix into a Mat4.
func Mat4FromDense[T scalar.Scalar[T]](m mat.Matrix) (Mat4[T], error) {
	var out Mat4[T]
	if m == nil {
		return out, errors.Wrap(ErrMatrixShape, "matrix is nil")
	}
	if r, c := m.Dims(); r != 4 || c != 4 {
		return out, errors.Wrapf(ErrMatrixShape, "got %dx%d", r, c)
	}
	for i := range out {
		for j := range out[i] {
			out[i][j] = scalar.New[T](m.At(i, j))
		}
	}
	return out, nil
}

// Dense returns m as a gonum matrix. Derivative parts are dropped.
func (m Mat4[T]) Dense() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := range m {
		for j := range m[i] {
			d.Set(i, j, m[i][j].Float())
		}
	}
	return d
}

// Vec3FromR3 converts an r3.Vector into a Vec3.
func Vec3FromR3[T scalar.Scalar[T]](v r3.Vector) Vec3[T] {
	return NewVec3[T](v.X, v.Y, v.Z)
}

// Vec2FromR2 converts an r2.Point into a Vec2.
func Vec2FromR2[T scalar.Scalar[T]](p r2.Point) Vec2[T] {
	return NewVec2[T](p.X, p.Y)
}

// R2 returns v as an r2.Point.
func (v Vec2[T]) R2() r2.Point {
	return r2.Point{X: v[0].Float(), Y: v[1].Float()}
}

// R3 returns the first three components of v as an r3.Vector. For finite points (w != 0) the
// components are divided by w.
func (v Vec4[T]) R3() r3.Vector {
	out := r3.Vector{X: v[0].Float(), Y: v[1].Float(), Z: v[2].Float()}
	if w := v[3].Float(); w != 0 {
		out = out.Mul(1 / w)
	}
	return out
}

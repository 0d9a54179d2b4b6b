package cameramodel

import "go.viam.com/cammodels/scalar"

// Vec2 is an image point (u, v).
type Vec2[T scalar.Scalar[T]] [2]T

// Vec3 is a 3D point.
type Vec3[T scalar.Scalar[T]] [3]T

// Vec4 is a homogeneous 3D point (x, y, z, w). Unprojected directions have w = 0.
type Vec4[T scalar.Scalar[T]] [4]T

// Mat4 is a row-major 4x4 transform.
type Mat4[T scalar.Scalar[T]] [4][4]T

// Mat42 is a row-major 4x2 matrix, used for the derivative of an unprojected point with
// respect to its image coordinates.
type Mat42[T scalar.Scalar[T]] [4][2]T

// NewVec2 returns (u, v) as a Vec2.
func NewVec2[T scalar.Scalar[T]](u, v float64) Vec2[T] {
	return Vec2[T]{scalar.New[T](u), scalar.New[T](v)}
}

// NewVec3 returns (x, y, z) as a Vec3.
func NewVec3[T scalar.Scalar[T]](x, y, z float64) Vec3[T] {
	return Vec3[T]{scalar.New[T](x), scalar.New[T](y), scalar.New[T](z)}
}

// NewVec4 returns (x, y, z, w) as a Vec4.
func NewVec4[T scalar.Scalar[T]](x, y, z, w float64) Vec4[T] {
	return Vec4[T]{scalar.New[T](x), scalar.New[T](y), scalar.New[T](z), scalar.New[T](w)}
}

// Homogeneous returns (x, y, z, 1).
func (v Vec3[T]) Homogeneous() Vec4[T] {
	return Vec4[T]{v[0], v[1], v[2], scalar.One[T]()}
}

// Floats returns the components of v as float64s.
func (v Vec2[T]) Floats() [2]float64 {
	return [2]float64{v[0].Float(), v[1].Float()}
}

// Floats returns the components of v as float64s.
func (v Vec4[T]) Floats() [4]float64 {
	return [4]float64{v[0].Float(), v[1].Float(), v[2].Float(), v[3].Float()}
}

// Identity4 returns the 4x4 identity transform.
func Identity4[T scalar.Scalar[T]]() Mat4[T] {
	var m Mat4[T]
	for i := range m {
		for j := range m[i] {
			m[i][j] = scalar.Zero[T]()
		}
		m[i][i] = scalar.One[T]()
	}
	return m
}

// MulVec4 returns m·v.
func (m Mat4[T]) MulVec4(v Vec4[T]) Vec4[T] {
	var out Vec4[T]
	for i := range m {
		acc := m[i][0].Mul(v[0])
		for j := 1; j < 4; j++ {
			acc = acc.Add(m[i][j].Mul(v[j]))
		}
		out[i] = acc
	}
	return out
}

// CastMat4 re-types every element of m as an S.
func CastMat4[S scalar.Scalar[S], T scalar.Scalar[T]](m Mat4[T]) Mat4[S] {
	var out Mat4[S]
	for i := range m {
		scalar.ConvertSlice(out[i][:], m[i][:])
	}
	return out
}

// Package scalar defines the numeric capability set camera models are written against, along
// with plain floating point and dual number implementations of it.
package scalar

import "math"

// Scalar is the set of operations a camera model needs from its numeric type. It is
// self-referential so that models can be instantiated both for plain floats and for
// derivative-carrying types such as Dual.
//
// Ordering between scalars is done on the value returned by Float.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Sqrt() T
	Sin() T
	Cos() T
	// Atan2 returns atan2(receiver, x).
	Atan2(x T) T
	Float() float64
	// FromFloat builds a new value; the receiver is ignored.
	FromFloat(v float64) T
	// Epsilon is the smallest magnitude considered distinct from zero for this precision.
	Epsilon() float64
}

// New returns v as a T.
func New[T Scalar[T]](v float64) T {
	var z T
	return z.FromFloat(v)
}

// Zero returns the additive identity of T.
func Zero[T Scalar[T]]() T {
	return New[T](0)
}

// One returns the multiplicative identity of T.
func One[T Scalar[T]]() T {
	return New[T](1)
}

// Epsilon returns the epsilon of T.
func Epsilon[T Scalar[T]]() float64 {
	var z T
	return z.Epsilon()
}

// Convert re-types v as an S. Only the value survives; derivative parts are dropped.
func Convert[S Scalar[S], T Scalar[T]](v T) S {
	return New[S](v.Float())
}

// ConvertSlice converts every element of src into dst, which must be at least as long.
func ConvertSlice[S Scalar[S], T Scalar[T]](dst []S, src []T) {
	for i, v := range src {
		dst[i] = Convert[S](v)
	}
}

// Floats returns the values of vs as float64s.
func Floats[T Scalar[T]](vs []T) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Float()
	}
	return out
}

// FromFloats builds a slice of T from float64 values.
func FromFloats[T Scalar[T]](vs []float64) []T {
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = New[T](v)
	}
	return out
}

// Float is a float64 scalar.
type Float float64

// Add returns f+o.
func (f Float) Add(o Float) Float { return f + o }

// Sub returns f-o.
func (f Float) Sub(o Float) Float { return f - o }

// Mul returns f*o.
func (f Float) Mul(o Float) Float { return f * o }

// Div returns f/o.
func (f Float) Div(o Float) Float { return f / o }

// Neg returns -f.
func (f Float) Neg() Float { return -f }

// Sqrt returns the square root of f.
func (f Float) Sqrt() Float { return Float(math.Sqrt(float64(f))) }

// Sin returns the sine of f.
func (f Float) Sin() Float { return Float(math.Sin(float64(f))) }

// Cos returns the cosine of f.
func (f Float) Cos() Float { return Float(math.Cos(float64(f))) }

// Atan2 returns atan2(f, x).
func (f Float) Atan2(x Float) Float { return Float(math.Atan2(float64(f), float64(x))) }

// Float returns f as a float64.
func (f Float) Float() float64 { return float64(f) }

// FromFloat returns v as a Float.
func (Float) FromFloat(v float64) Float { return Float(v) }

// Epsilon returns the float64 epsilon used by the camera models.
func (Float) Epsilon() float64 { return 1e-10 }

// Float32 is a float32 scalar.
type Float32 float32

// Add returns f+o.
func (f Float32) Add(o Float32) Float32 { return f + o }

// Sub returns f-o.
func (f Float32) Sub(o Float32) Float32 { return f - o }

// Mul returns f*o.
func (f Float32) Mul(o Float32) Float32 { return f * o }

// Div returns f/o.
func (f Float32) Div(o Float32) Float32 { return f / o }

// Neg returns -f.
func (f Float32) Neg() Float32 { return -f }

// Sqrt returns the square root of f.
func (f Float32) Sqrt() Float32 { return Float32(math.Sqrt(float64(f))) }

// Sin returns the sine of f.
func (f Float32) Sin() Float32 { return Float32(math.Sin(float64(f))) }

// Cos returns the cosine of f.
func (f Float32) Cos() Float32 { return Float32(math.Cos(float64(f))) }

// Atan2 returns atan2(f, x).
func (f Float32) Atan2(x Float32) Float32 {
	return Float32(math.Atan2(float64(f), float64(x)))
}

// Float returns f as a float64.
func (f Float32) Float() float64 { return float64(f) }

// FromFloat returns v rounded to a Float32.
func (Float32) FromFloat(v float64) Float32 { return Float32(v) }

// Epsilon returns the float32 epsilon used by the camera models.
func (Float32) Epsilon() float64 { return 1e-5 }

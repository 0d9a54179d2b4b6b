package cameramodel

import (
	"fmt"

	"go.viam.com/cammodels/scalar"
)

const (
	// DoubleSphereName is the canonical name of the double sphere model.
	DoubleSphereName = "ds"
	// DoubleSphereN is the number of double sphere parameters.
	DoubleSphereN = 6
)

// DoubleSphere is the double sphere camera model (Usenko et al.) with parameters
// [fx, fy, cx, cy, xi, alpha].
type DoubleSphere[T scalar.Scalar[T]] struct {
	param [DoubleSphereN]T
}

// NewDoubleSphere returns a double sphere camera with the given parameters.
func NewDoubleSphere[T scalar.Scalar[T]](param [DoubleSphereN]T) DoubleSphere[T] {
	return DoubleSphere[T]{param: param}
}

// CastDoubleSphere re-types c as a DoubleSphere[S].
func CastDoubleSphere[S scalar.Scalar[S], T scalar.Scalar[T]](c DoubleSphere[T]) DoubleSphere[S] {
	var out DoubleSphere[S]
	scalar.ConvertSlice(out.param[:], c.param[:])
	return out
}

// Name returns "ds".
func (DoubleSphere[T]) Name() string { return DoubleSphereName }

// N returns 6.
func (DoubleSphere[T]) N() int { return DoubleSphereN }

// ParamNames returns the names of the parameters in Param order.
func (DoubleSphere[T]) ParamNames() []string {
	return []string{"fx", "fy", "cx", "cy", "xi", "alpha"}
}

// SetFromInit sets [fx, fy, cx, cy] from init, xi to -0.2 and alpha to 0.5.
func (c *DoubleSphere[T]) SetFromInit(init Vec4[T]) {
	setFocalAndCenter(c.param[:], init, -0.2, 0.5)
}

// ApplyInc adds inc to the parameters.
func (c *DoubleSphere[T]) ApplyInc(inc []T) error {
	return applyInc(DoubleSphereName, c.param[:], inc)
}

// SetParam overwrites the parameters.
func (c *DoubleSphere[T]) SetParam(param []T) error {
	return setParam(DoubleSphereName, c.param[:], param)
}

// Param returns a copy of the parameters.
func (c DoubleSphere[T]) Param() []T {
	return append([]T(nil), c.param[:]...)
}

// CheckValid requires xi in [-1, 1] and alpha in [0, 1].
func (c DoubleSphere[T]) CheckValid() error {
	if err := checkFocal(DoubleSphereName, c.param[:]); err != nil {
		return err
	}
	if xi := c.param[4].Float(); xi < -1 || xi > 1 {
		return InvalidParametersError(DoubleSphereName, fmt.Sprintf("xi = %#v is outside [-1, 1]", xi))
	}
	if alpha := c.param[5].Float(); alpha < 0 || alpha > 1 {
		return InvalidParametersError(DoubleSphereName, fmt.Sprintf("alpha = %#v is outside [0, 1]", alpha))
	}
	return nil
}

// Project maps p to the image. Points beyond the model's field of view are invalid.
func (c DoubleSphere[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	xi, alpha := c.param[4], c.param[5]
	x, y, z := p[0], p[1], p[2]
	one := scalar.One[T]()
	two := scalar.New[T](2)

	r2 := x.Mul(x).Add(y.Mul(y))
	d1 := r2.Add(z.Mul(z)).Sqrt()

	w1 := alphaWeight(alpha)
	w2 := w1.Add(xi).Div(two.Mul(w1).Mul(xi).Add(xi.Mul(xi)).Add(one).Sqrt())
	valid := z.Float() > w2.Neg().Mul(d1).Float()

	k := xi.Mul(d1).Add(z)
	d2 := r2.Add(k.Mul(k)).Sqrt()
	norm := alpha.Mul(d2).Add(one.Sub(alpha).Mul(k))

	return toPixel(c.param[:], x.Div(norm), y.Div(norm)), valid
}

// Unproject returns the unit bearing vector through proj.
func (c DoubleSphere[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	return unprojectDoubleSphere(c.param[:], proj)
}

// UnprojectJacobian is Unproject plus the derivative of the bearing with respect to proj.
func (c DoubleSphere[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	var dp [DoubleSphereN]scalar.Dual[T]
	liftParams(dp[:], c.param[:])
	return unprojectJacobian(proj, func(p Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool) {
		return unprojectDoubleSphere(dp[:], p)
	})
}

func unprojectDoubleSphere[T scalar.Scalar[T]](param []T, proj Vec2[T]) (Vec4[T], bool) {
	xi, alpha := param[4], param[5]
	one := scalar.One[T]()
	twoAlphaMinusOne := scalar.New[T](2).Mul(alpha).Sub(one)

	mx, my := normalized(param, proj)
	r2 := mx.Mul(mx).Add(my.Mul(my))
	valid := !(alpha.Float() > 0.5 && r2.Float() >= one.Div(twoAlphaMinusOne).Float())

	sqrt2 := one.Sub(twoAlphaMinusOne.Mul(r2)).Sqrt()
	norm2 := alpha.Mul(sqrt2).Add(one).Sub(alpha)
	mz := one.Sub(alpha.Mul(alpha).Mul(r2)).Div(norm2)
	mz2 := mz.Mul(mz)

	norm1 := mz2.Add(r2)
	sqrt1 := mz2.Add(one.Sub(xi.Mul(xi)).Mul(r2)).Sqrt()
	k := mz.Mul(xi).Add(sqrt1).Div(norm1)

	return Vec4[T]{k.Mul(mx), k.Mul(my), k.Mul(mz).Sub(xi), scalar.Zero[T]()}, valid
}

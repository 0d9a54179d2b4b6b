package cameramodel

import (
	"fmt"

	"go.viam.com/cammodels/scalar"
)

const (
	// ExtendedUnifiedName is the canonical name of the extended unified model.
	ExtendedUnifiedName = "eucm"
	// ExtendedUnifiedN is the number of extended unified parameters.
	ExtendedUnifiedN = 6
)

// ExtendedUnified is the extended unified camera model (Khomutenko et al.) with parameters
// [fx, fy, cx, cy, alpha, beta].
type ExtendedUnified[T scalar.Scalar[T]] struct {
	param [ExtendedUnifiedN]T
}

// NewExtendedUnified returns an extended unified camera with the given parameters.
func NewExtendedUnified[T scalar.Scalar[T]](param [ExtendedUnifiedN]T) ExtendedUnified[T] {
	return ExtendedUnified[T]{param: param}
}

// CastExtendedUnified re-types c as an ExtendedUnified[S].
func CastExtendedUnified[S scalar.Scalar[S], T scalar.Scalar[T]](c ExtendedUnified[T]) ExtendedUnified[S] {
	var out ExtendedUnified[S]
	scalar.ConvertSlice(out.param[:], c.param[:])
	return out
}

// Name returns "eucm".
func (ExtendedUnified[T]) Name() string { return ExtendedUnifiedName }

// N returns 6.
func (ExtendedUnified[T]) N() int { return ExtendedUnifiedN }

// ParamNames returns the names of the parameters in Param order.
func (ExtendedUnified[T]) ParamNames() []string {
	return []string{"fx", "fy", "cx", "cy", "alpha", "beta"}
}

// SetFromInit sets [fx, fy, cx, cy] from init, alpha to 0.5 and beta to 1.
func (c *ExtendedUnified[T]) SetFromInit(init Vec4[T]) {
	setFocalAndCenter(c.param[:], init, 0.5, 1)
}

// ApplyInc adds inc to the parameters.
func (c *ExtendedUnified[T]) ApplyInc(inc []T) error {
	return applyInc(ExtendedUnifiedName, c.param[:], inc)
}

// SetParam overwrites the parameters.
func (c *ExtendedUnified[T]) SetParam(param []T) error {
	return setParam(ExtendedUnifiedName, c.param[:], param)
}

// Param returns a copy of the parameters.
func (c ExtendedUnified[T]) Param() []T {
	return append([]T(nil), c.param[:]...)
}

// CheckValid requires alpha in [0, 1] and beta > 0.
func (c ExtendedUnified[T]) CheckValid() error {
	if err := checkFocal(ExtendedUnifiedName, c.param[:]); err != nil {
		return err
	}
	if alpha := c.param[4].Float(); alpha < 0 || alpha > 1 {
		return InvalidParametersError(ExtendedUnifiedName, fmt.Sprintf("alpha = %#v is outside [0, 1]", alpha))
	}
	if beta := c.param[5].Float(); beta <= 0 {
		return InvalidParametersError(ExtendedUnifiedName, fmt.Sprintf("beta = %#v must be positive", beta))
	}
	return nil
}

// Project maps p to the image. Points beyond the model's field of view are invalid.
func (c ExtendedUnified[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	alpha, beta := c.param[4], c.param[5]
	x, y, z := p[0], p[1], p[2]
	one := scalar.One[T]()

	r2 := x.Mul(x).Add(y.Mul(y))
	rho := beta.Mul(r2).Add(z.Mul(z)).Sqrt()
	norm := alpha.Mul(rho).Add(one.Sub(alpha).Mul(z))

	w := alphaWeight(alpha)
	valid := z.Float() > w.Neg().Mul(rho).Float()

	return toPixel(c.param[:], x.Div(norm), y.Div(norm)), valid
}

// Unproject returns the unit bearing vector through proj.
func (c ExtendedUnified[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	return unprojectExtendedUnified(c.param[:], proj)
}

// UnprojectJacobian is Unproject plus the derivative of the bearing with respect to proj.
func (c ExtendedUnified[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	var dp [ExtendedUnifiedN]scalar.Dual[T]
	liftParams(dp[:], c.param[:])
	return unprojectJacobian(proj, func(p Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool) {
		return unprojectExtendedUnified(dp[:], p)
	})
}

func unprojectExtendedUnified[T scalar.Scalar[T]](param []T, proj Vec2[T]) (Vec4[T], bool) {
	alpha, beta := param[4], param[5]
	one := scalar.One[T]()

	mx, my := normalized(param, proj)
	r2 := mx.Mul(mx).Add(my.Mul(my))
	gamma := one.Sub(alpha)

	// For alpha > 0.5 the image of the model is bounded by r2 < 1 / ((alpha - gamma) * beta).
	slope := alpha.Sub(gamma).Mul(beta)
	valid := !(alpha.Float() > 0.5 && r2.Float() >= one.Div(slope).Float())

	tmp1 := one.Sub(alpha.Mul(alpha).Mul(beta).Mul(r2))
	tmpSqrt := one.Sub(slope.Mul(r2)).Sqrt()
	tmp2 := alpha.Mul(tmpSqrt).Add(gamma)
	k := tmp1.Div(tmp2)
	norm := r2.Add(k.Mul(k)).Sqrt()

	return Vec4[T]{mx.Div(norm), my.Div(norm), k.Div(norm), scalar.Zero[T]()}, valid
}

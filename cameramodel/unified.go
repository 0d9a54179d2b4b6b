package cameramodel

import (
	"fmt"

	"go.viam.com/cammodels/scalar"
)

const (
	// UnifiedName is the canonical name of the unified model.
	UnifiedName = "ucm"
	// UnifiedN is the number of unified parameters.
	UnifiedN = 5
)

// Unified is the unified camera model in the alpha formulation, with parameters
// [fx, fy, cx, cy, alpha]. It is equivalent to the xi formulation with xi = alpha / (1 - alpha)
// and focal lengths scaled by (1 - alpha).
type Unified[T scalar.Scalar[T]] struct {
	param [UnifiedN]T
}

// NewUnified returns a unified camera with the given parameters.
func NewUnified[T scalar.Scalar[T]](param [UnifiedN]T) Unified[T] {
	return Unified[T]{param: param}
}

// CastUnified re-types c as a Unified[S].
func CastUnified[S scalar.Scalar[S], T scalar.Scalar[T]](c Unified[T]) Unified[S] {
	var out Unified[S]
	scalar.ConvertSlice(out.param[:], c.param[:])
	return out
}

// Name returns "ucm".
func (Unified[T]) Name() string { return UnifiedName }

// N returns 5.
func (Unified[T]) N() int { return UnifiedN }

// ParamNames returns the names of the parameters in Param order.
func (Unified[T]) ParamNames() []string {
	return []string{"fx", "fy", "cx", "cy", "alpha"}
}

// SetFromInit sets [fx, fy, cx, cy] from init and alpha to 0.5.
func (c *Unified[T]) SetFromInit(init Vec4[T]) {
	setFocalAndCenter(c.param[:], init, 0.5)
}

// ApplyInc adds inc to the parameters.
func (c *Unified[T]) ApplyInc(inc []T) error {
	return applyInc(UnifiedName, c.param[:], inc)
}

// SetParam overwrites the parameters.
func (c *Unified[T]) SetParam(param []T) error {
	return setParam(UnifiedName, c.param[:], param)
}

// Param returns a copy of the parameters.
func (c Unified[T]) Param() []T {
	return append([]T(nil), c.param[:]...)
}

// CheckValid requires alpha in [0, 1).
func (c Unified[T]) CheckValid() error {
	if err := checkFocal(UnifiedName, c.param[:]); err != nil {
		return err
	}
	if alpha := c.param[4].Float(); alpha < 0 || alpha >= 1 {
		return InvalidParametersError(UnifiedName, fmt.Sprintf("alpha = %#v is outside [0, 1)", alpha))
	}
	return nil
}

// Project maps p to the image. Points beyond the model's field of view are invalid.
func (c Unified[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	alpha := c.param[4]
	x, y, z := p[0], p[1], p[2]
	one := scalar.One[T]()

	rho := x.Mul(x).Add(y.Mul(y)).Add(z.Mul(z)).Sqrt()
	norm := alpha.Mul(rho).Add(one.Sub(alpha).Mul(z))

	w := alphaWeight(alpha)
	valid := z.Float() > w.Neg().Mul(rho).Float()

	return toPixel(c.param[:], x.Div(norm), y.Div(norm)), valid
}

// Unproject returns the unit bearing vector through proj.
func (c Unified[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	return unprojectUnified(c.param[:], proj)
}

// UnprojectJacobian is Unproject plus the derivative of the bearing with respect to proj.
func (c Unified[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	var dp [UnifiedN]scalar.Dual[T]
	liftParams(dp[:], c.param[:])
	return unprojectJacobian(proj, func(p Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool) {
		return unprojectUnified(dp[:], p)
	})
}

func unprojectUnified[T scalar.Scalar[T]](param []T, proj Vec2[T]) (Vec4[T], bool) {
	alpha := param[4]
	one := scalar.One[T]()
	oneMinusAlpha := one.Sub(alpha)
	xi := alpha.Div(oneMinusAlpha)

	mxx, myy := normalized(param, proj)
	mx := oneMinusAlpha.Mul(mxx)
	my := oneMinusAlpha.Mul(myy)
	r2 := mx.Mul(mx).Add(my.Mul(my))

	// For xi > 1 the sphere is only hit when 1 + (1 - xi²)·r2 >= 0.
	disc := one.Add(one.Sub(xi.Mul(xi)).Mul(r2))
	valid := disc.Float() >= 0

	k := xi.Add(disc.Sqrt()).Div(one.Add(r2))
	return Vec4[T]{k.Mul(mx), k.Mul(my), k.Sub(xi), scalar.Zero[T]()}, valid
}

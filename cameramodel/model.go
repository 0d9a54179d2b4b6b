// Package cameramodel implements the camera projection models used for visual and
// visual-inertial estimation, and GenericCamera, a value type holding exactly one of them.
//
// All models are generic over a scalar.Scalar so the same code evaluates on plain floats
// and on dual numbers carrying derivatives for an optimizer.
package cameramodel

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/cammodels/scalar"
)

var (
	// ErrUnknownModel is returned when a name does not match any camera model.
	ErrUnknownModel = errors.New("unknown camera model")
	// ErrIncrementLength is returned when a parameter increment does not match the model arity.
	ErrIncrementLength = errors.New("parameter increment has the wrong length")
	// ErrParamLength is returned when a parameter vector does not match the model arity.
	ErrParamLength = errors.New("parameter vector has the wrong length")
)

// InvalidParametersError is used when a model's parameters are outside its valid range.
func InvalidParametersError(name, msg string) error {
	return errors.Wrapf(errors.New("invalid camera parameters"), "%s: %s", name, msg)
}

// Model is the capability set every camera model provides. Pointer receivers are required
// for the mutating methods.
type Model[T scalar.Scalar[T]] interface {
	Name() string
	N() int
	ParamNames() []string
	SetFromInit(init Vec4[T])
	SetParam(param []T) error
	ApplyInc(inc []T) error
	Param() []T
	CheckValid() error
	Project(p Vec4[T]) (Vec2[T], bool)
	Unproject(proj Vec2[T]) (Vec4[T], bool)
	UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool)
}

// pointModel is the part of Model the batch loops need.
type pointModel[T scalar.Scalar[T]] interface {
	Project(p Vec4[T]) (Vec2[T], bool)
	Unproject(proj Vec2[T]) (Vec4[T], bool)
}

var (
	_ Model[scalar.Float] = (*ExtendedUnified[scalar.Float])(nil)
	_ Model[scalar.Float] = (*DoubleSphere[scalar.Float])(nil)
	_ Model[scalar.Float] = (*KannalaBrandt4[scalar.Float])(nil)
	_ Model[scalar.Float] = (*Unified[scalar.Float])(nil)
	_ Model[scalar.Float] = (*Pinhole[scalar.Float])(nil)
)

// applyInc adds inc to param element-wise.
func applyInc[T scalar.Scalar[T]](name string, param, inc []T) error {
	if len(inc) != len(param) {
		return errors.Wrapf(ErrIncrementLength, "%s expects %d values, got %d", name, len(param), len(inc))
	}
	for i := range param {
		param[i] = param[i].Add(inc[i])
	}
	return nil
}

// setParam overwrites param with src.
func setParam[T scalar.Scalar[T]](name string, param, src []T) error {
	if len(src) != len(param) {
		return errors.Wrapf(ErrParamLength, "%s expects %d values, got %d", name, len(param), len(src))
	}
	copy(param, src)
	return nil
}

// setFocalAndCenter copies fx, fy, cx, cy from init and resets the remaining parameters to
// the given defaults.
func setFocalAndCenter[T scalar.Scalar[T]](param []T, init Vec4[T], defaults ...float64) {
	copy(param, init[:])
	for i, d := range defaults {
		param[4+i] = scalar.New[T](d)
	}
}

// normalized returns ((u - cx) / fx, (v - cy) / fy).
func normalized[T scalar.Scalar[T]](param []T, proj Vec2[T]) (T, T) {
	return proj[0].Sub(param[2]).Div(param[0]), proj[1].Sub(param[3]).Div(param[1])
}

// toPixel returns (fx·mx + cx, fy·my + cy).
func toPixel[T scalar.Scalar[T]](param []T, mx, my T) Vec2[T] {
	return Vec2[T]{param[0].Mul(mx).Add(param[2]), param[1].Mul(my).Add(param[3])}
}

// checkFocal validates the pinhole part shared by all models.
func checkFocal[T scalar.Scalar[T]](name string, param []T) error {
	if fx := param[0].Float(); fx <= 0 {
		return InvalidParametersError(name, fmt.Sprintf("invalid focal length fx = %#v", fx))
	}
	if fy := param[1].Float(); fy <= 0 {
		return InvalidParametersError(name, fmt.Sprintf("invalid focal length fy = %#v", fy))
	}
	return nil
}

// alphaWeight returns the validity weight w used by the unified models: (1-α)/α when α > 0.5,
// α/(1-α) otherwise.
func alphaWeight[T scalar.Scalar[T]](alpha T) T {
	one := scalar.One[T]()
	if alpha.Float() > 0.5 {
		return one.Sub(alpha).Div(alpha)
	}
	return alpha.Div(one.Sub(alpha))
}

// unprojectJacobian evaluates unproject twice on dual numbers, seeding u then v, and assembles
// the 4x2 derivative of the unprojected point with respect to the image point.
func unprojectJacobian[T scalar.Scalar[T]](
	proj Vec2[T],
	unproject func(Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool),
) (Vec4[T], Mat42[T], bool) {
	var (
		p3d Vec4[T]
		jac Mat42[T]
	)
	du, ok := unproject(Vec2[scalar.Dual[T]]{scalar.Variable(proj[0]), scalar.Constant(proj[1])})
	dv, _ := unproject(Vec2[scalar.Dual[T]]{scalar.Constant(proj[0]), scalar.Variable(proj[1])})
	for i := range p3d {
		p3d[i] = du[i].Re
		jac[i][0] = du[i].Eps
		jac[i][1] = dv[i].Eps
	}
	return p3d, jac, ok
}

// liftParams returns param as dual constants.
func liftParams[T scalar.Scalar[T]](dst []scalar.Dual[T], param []T) {
	for i, p := range param {
		dst[i] = scalar.Constant(p)
	}
}

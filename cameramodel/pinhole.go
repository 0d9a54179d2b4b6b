package cameramodel

import "go.viam.com/cammodels/scalar"

const (
	// PinholeName is the canonical name of the pinhole model.
	PinholeName = "pinhole"
	// PinholeN is the number of pinhole parameters.
	PinholeN = 4
)

// Pinhole is the distortion free perspective model with parameters [fx, fy, cx, cy].
type Pinhole[T scalar.Scalar[T]] struct {
	param [PinholeN]T
}

// NewPinhole returns a pinhole camera with the given parameters.
func NewPinhole[T scalar.Scalar[T]](param [PinholeN]T) Pinhole[T] {
	return Pinhole[T]{param: param}
}

// CastPinhole re-types c as a Pinhole[S].
func CastPinhole[S scalar.Scalar[S], T scalar.Scalar[T]](c Pinhole[T]) Pinhole[S] {
	var out Pinhole[S]
	scalar.ConvertSlice(out.param[:], c.param[:])
	return out
}

// Name returns "pinhole".
func (Pinhole[T]) Name() string { return PinholeName }

// N returns 4.
func (Pinhole[T]) N() int { return PinholeN }

// ParamNames returns the names of the parameters in Param order.
func (Pinhole[T]) ParamNames() []string { return []string{"fx", "fy", "cx", "cy"} }

// SetFromInit sets [fx, fy, cx, cy] from init.
func (c *Pinhole[T]) SetFromInit(init Vec4[T]) {
	setFocalAndCenter(c.param[:], init)
}

// ApplyInc adds inc to the parameters.
func (c *Pinhole[T]) ApplyInc(inc []T) error {
	return applyInc(PinholeName, c.param[:], inc)
}

// SetParam overwrites the parameters.
func (c *Pinhole[T]) SetParam(param []T) error {
	return setParam(PinholeName, c.param[:], param)
}

// Param returns a copy of the parameters.
func (c Pinhole[T]) Param() []T {
	return append([]T(nil), c.param[:]...)
}

// CheckValid checks the focal lengths.
func (c Pinhole[T]) CheckValid() error {
	return checkFocal(PinholeName, c.param[:])
}

// Project maps p to the image. Points closer than epsilon to the image plane, or behind it,
// are invalid.
func (c Pinhole[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	x, y, z := p[0], p[1], p[2]
	valid := z.Float() >= z.Epsilon()
	return toPixel(c.param[:], x.Div(z), y.Div(z)), valid
}

// Unproject returns the unit bearing vector through proj. Every image point is valid.
func (c Pinhole[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	return unprojectPinhole(c.param[:], proj)
}

// UnprojectJacobian is Unproject plus the derivative of the bearing with respect to proj.
func (c Pinhole[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	var dp [PinholeN]scalar.Dual[T]
	liftParams(dp[:], c.param[:])
	return unprojectJacobian(proj, func(p Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool) {
		return unprojectPinhole(dp[:], p)
	})
}

func unprojectPinhole[T scalar.Scalar[T]](param []T, proj Vec2[T]) (Vec4[T], bool) {
	one := scalar.One[T]()
	mx, my := normalized(param, proj)
	r2 := mx.Mul(mx).Add(my.Mul(my))
	normInv := one.Div(one.Add(r2).Sqrt())
	return Vec4[T]{mx.Mul(normInv), my.Mul(normInv), normInv, scalar.Zero[T]()}, true
}

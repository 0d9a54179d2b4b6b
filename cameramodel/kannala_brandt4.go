package cameramodel

import (
	"math"

	"go.viam.com/cammodels/scalar"
)

const (
	// KannalaBrandt4Name is the canonical name of the Kannala-Brandt model.
	KannalaBrandt4Name = "kb4"
	// KannalaBrandt4N is the number of Kannala-Brandt parameters.
	KannalaBrandt4N = 8

	// kannalaBrandtNewtonIterations bounds the theta solve in Unproject.
	kannalaBrandtNewtonIterations = 3
)

// KannalaBrandt4 is the Kannala-Brandt fisheye model with a 4 coefficient odd polynomial in the
// incidence angle. Parameters are [fx, fy, cx, cy, k1, k2, k3, k4].
type KannalaBrandt4[T scalar.Scalar[T]] struct {
	param [KannalaBrandt4N]T
}

// NewKannalaBrandt4 returns a Kannala-Brandt camera with the given parameters.
func NewKannalaBrandt4[T scalar.Scalar[T]](param [KannalaBrandt4N]T) KannalaBrandt4[T] {
	return KannalaBrandt4[T]{param: param}
}

// CastKannalaBrandt4 re-types c as a KannalaBrandt4[S].
func CastKannalaBrandt4[S scalar.Scalar[S], T scalar.Scalar[T]](c KannalaBrandt4[T]) KannalaBrandt4[S] {
	var out KannalaBrandt4[S]
	scalar.ConvertSlice(out.param[:], c.param[:])
	return out
}

// Name returns "kb4".
func (KannalaBrandt4[T]) Name() string { return KannalaBrandt4Name }

// N returns 8.
func (KannalaBrandt4[T]) N() int { return KannalaBrandt4N }

// ParamNames returns the names of the parameters in Param order.
func (KannalaBrandt4[T]) ParamNames() []string {
	return []string{"fx", "fy", "cx", "cy", "k1", "k2", "k3", "k4"}
}

// SetFromInit sets [fx, fy, cx, cy] from init and zeroes the distortion coefficients.
func (c *KannalaBrandt4[T]) SetFromInit(init Vec4[T]) {
	setFocalAndCenter(c.param[:], init, 0, 0, 0, 0)
}

// ApplyInc adds inc to the parameters.
func (c *KannalaBrandt4[T]) ApplyInc(inc []T) error {
	return applyInc(KannalaBrandt4Name, c.param[:], inc)
}

// SetParam overwrites the parameters.
func (c *KannalaBrandt4[T]) SetParam(param []T) error {
	return setParam(KannalaBrandt4Name, c.param[:], param)
}

// Param returns a copy of the parameters.
func (c KannalaBrandt4[T]) Param() []T {
	return append([]T(nil), c.param[:]...)
}

// CheckValid checks the focal lengths; the polynomial coefficients are unconstrained.
func (c KannalaBrandt4[T]) CheckValid() error {
	return checkFocal(KannalaBrandt4Name, c.param[:])
}

// Project maps p to the image. Points on the optical axis at or behind the center are invalid.
func (c KannalaBrandt4[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	x, y, z := p[0], p[1], p[2]
	r := x.Mul(x).Add(y.Mul(y)).Sqrt()

	if r.Float() > r.Epsilon() {
		theta := r.Atan2(z)
		rTheta := kannalaBrandtPoly(c.param[4:], theta)
		return toPixel(c.param[:], x.Mul(rTheta).Div(r), y.Mul(rTheta).Div(r)), true
	}
	valid := z.Float() >= z.Epsilon()
	return toPixel(c.param[:], x.Div(z), y.Div(z)), valid
}

// Unproject returns the unit bearing vector through proj, solving for the incidence angle with
// Newton iterations.
func (c KannalaBrandt4[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	return unprojectKannalaBrandt4(c.param[:], proj)
}

// UnprojectJacobian is Unproject plus the derivative of the bearing with respect to proj.
func (c KannalaBrandt4[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	var dp [KannalaBrandt4N]scalar.Dual[T]
	liftParams(dp[:], c.param[:])
	return unprojectJacobian(proj, func(p Vec2[scalar.Dual[T]]) (Vec4[scalar.Dual[T]], bool) {
		return unprojectKannalaBrandt4(dp[:], p)
	})
}

func unprojectKannalaBrandt4[T scalar.Scalar[T]](param []T, proj Vec2[T]) (Vec4[T], bool) {
	mx, my := normalized(param, proj)
	thetaD := mx.Mul(mx).Add(my.Mul(my)).Sqrt()

	if thetaD.Float() <= thetaD.Epsilon() {
		return Vec4[T]{mx, my, scalar.One[T](), scalar.Zero[T]()}, true
	}

	theta := solveTheta(param[4:], thetaD)
	scaling := theta.Sin().Div(thetaD)
	valid := !math.IsNaN(theta.Float()) && theta.Float() >= 0 && theta.Float() < math.Pi
	return Vec4[T]{mx.Mul(scaling), my.Mul(scaling), theta.Cos(), scalar.Zero[T]()}, valid
}

// kannalaBrandtPoly returns theta + k1·theta³ + k2·theta⁵ + k3·theta⁷ + k4·theta⁹.
func kannalaBrandtPoly[T scalar.Scalar[T]](k []T, theta T) T {
	theta2 := theta.Mul(theta)
	acc := k[3].Mul(theta2).Add(k[2])
	acc = acc.Mul(theta2).Add(k[1])
	acc = acc.Mul(theta2).Add(k[0])
	acc = acc.Mul(theta2).Add(scalar.One[T]())
	return acc.Mul(theta)
}

// kannalaBrandtPolyDerivative returns the derivative of kannalaBrandtPoly with respect to theta.
func kannalaBrandtPolyDerivative[T scalar.Scalar[T]](k []T, theta T) T {
	theta2 := theta.Mul(theta)
	acc := scalar.New[T](9).Mul(k[3]).Mul(theta2).Add(scalar.New[T](7).Mul(k[2]))
	acc = acc.Mul(theta2).Add(scalar.New[T](5).Mul(k[1]))
	acc = acc.Mul(theta2).Add(scalar.New[T](3).Mul(k[0]))
	return acc.Mul(theta2).Add(scalar.One[T]())
}

// solveTheta inverts the distortion polynomial for the distorted radius rTheta.
func solveTheta[T scalar.Scalar[T]](k []T, rTheta T) T {
	theta := rTheta
	for i := 0; i < kannalaBrandtNewtonIterations; i++ {
		f := kannalaBrandtPoly(k, theta)
		theta = theta.Add(rTheta.Sub(f).Div(kannalaBrandtPolyDerivative(k, theta)))
	}
	return theta
}

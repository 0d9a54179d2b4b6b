package scalar

// Dual is a forward-mode dual number Re + Eps·ε with ε² = 0. Eps carries the derivative of
// the value with respect to whichever input was seeded through Variable.
//
// Dual is generic over its component type so it can be nested or used at float32 precision.
type Dual[T Scalar[T]] struct {
	Re  T
	Eps T
}

// Variable returns v as the differentiation variable (derivative one).
func Variable[T Scalar[T]](v T) Dual[T] {
	return Dual[T]{Re: v, Eps: One[T]()}
}

// Constant returns v with a zero derivative.
func Constant[T Scalar[T]](v T) Dual[T] {
	return Dual[T]{Re: v, Eps: Zero[T]()}
}

// Add returns d+o.
func (d Dual[T]) Add(o Dual[T]) Dual[T] {
	return Dual[T]{Re: d.Re.Add(o.Re), Eps: d.Eps.Add(o.Eps)}
}

// Sub returns d-o.
func (d Dual[T]) Sub(o Dual[T]) Dual[T] {
	return Dual[T]{Re: d.Re.Sub(o.Re), Eps: d.Eps.Sub(o.Eps)}
}

// Mul returns d*o.
func (d Dual[T]) Mul(o Dual[T]) Dual[T] {
	return Dual[T]{
		Re:  d.Re.Mul(o.Re),
		Eps: d.Re.Mul(o.Eps).Add(d.Eps.Mul(o.Re)),
	}
}

// Div returns d/o.
func (d Dual[T]) Div(o Dual[T]) Dual[T] {
	return Dual[T]{
		Re:  d.Re.Div(o.Re),
		Eps: d.Eps.Mul(o.Re).Sub(d.Re.Mul(o.Eps)).Div(o.Re.Mul(o.Re)),
	}
}

// Neg returns -d.
func (d Dual[T]) Neg() Dual[T] {
	return Dual[T]{Re: d.Re.Neg(), Eps: d.Eps.Neg()}
}

// Sqrt returns the square root of d. The derivative is infinite at zero.
func (d Dual[T]) Sqrt() Dual[T] {
	s := d.Re.Sqrt()
	return Dual[T]{Re: s, Eps: d.Eps.Div(s.Add(s))}
}

// Sin returns the sine of d.
func (d Dual[T]) Sin() Dual[T] {
	return Dual[T]{Re: d.Re.Sin(), Eps: d.Eps.Mul(d.Re.Cos())}
}

// Cos returns the cosine of d.
func (d Dual[T]) Cos() Dual[T] {
	return Dual[T]{Re: d.Re.Cos(), Eps: d.Eps.Mul(d.Re.Sin()).Neg()}
}

// Atan2 returns atan2(d, x).
func (d Dual[T]) Atan2(x Dual[T]) Dual[T] {
	den := x.Re.Mul(x.Re).Add(d.Re.Mul(d.Re))
	return Dual[T]{
		Re:  d.Re.Atan2(x.Re),
		Eps: x.Re.Mul(d.Eps).Sub(d.Re.Mul(x.Eps)).Div(den),
	}
}

// Float returns the value part of d.
func (d Dual[T]) Float() float64 {
	return d.Re.Float()
}

// FromFloat returns v as a constant.
func (Dual[T]) FromFloat(v float64) Dual[T] {
	return Constant(New[T](v))
}

// Epsilon returns the epsilon of the component type.
func (Dual[T]) Epsilon() float64 {
	return Epsilon[T]()
}

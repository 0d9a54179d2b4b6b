package cameramodel

import "go.viam.com/cammodels/scalar"

// GenericCamera holds exactly one camera model, selected at runtime, and forwards every
// operation to it with a switch on the active kind. It is a plain value: copying it copies the
// model, and nothing is allocated to hold or dispatch to the model.
//
// The zero value holds a zero-parameter extended unified model. The active kind only changes
// through whole-value assignment.
type GenericCamera[T scalar.Scalar[T]] struct {
	kind Kind

	eucm    ExtendedUnified[T]
	ds      DoubleSphere[T]
	kb4     KannalaBrandt4[T]
	ucm     Unified[T]
	pinhole Pinhole[T]
}

// NewFromKind returns a camera holding a default constructed model of kind k. Unknown kinds
// yield the default kind.
func NewFromKind[T scalar.Scalar[T]](k Kind) GenericCamera[T] {
	if k < 0 || k >= numKinds {
		k = KindExtendedUnified
	}
	return GenericCamera[T]{kind: k}
}

// FromString returns a camera holding a default constructed model whose canonical name is
// name. When no model matches, the camera holds the default kind; use NewGenericCamera to
// detect that case.
func FromString[T scalar.Scalar[T]](name string) GenericCamera[T] {
	var res GenericCamera[T]
	for k := numKinds - 1; k >= 0; k-- {
		if Kind(k).String() == name {
			res = GenericCamera[T]{kind: Kind(k)}
		}
	}
	return res
}

// NewGenericCamera is FromString, but returns an error wrapping ErrUnknownModel when name
// does not match any model.
func NewGenericCamera[T scalar.Scalar[T]](name string) (GenericCamera[T], error) {
	k, err := ParseKind(name)
	if err != nil {
		return GenericCamera[T]{}, err
	}
	return NewFromKind[T](k), nil
}

// FromExtendedUnified wraps m.
func FromExtendedUnified[T scalar.Scalar[T]](m ExtendedUnified[T]) GenericCamera[T] {
	return GenericCamera[T]{kind: KindExtendedUnified, eucm: m}
}

// FromDoubleSphere wraps m.
func FromDoubleSphere[T scalar.Scalar[T]](m DoubleSphere[T]) GenericCamera[T] {
	return GenericCamera[T]{kind: KindDoubleSphere, ds: m}
}

// FromKannalaBrandt4 wraps m.
func FromKannalaBrandt4[T scalar.Scalar[T]](m KannalaBrandt4[T]) GenericCamera[T] {
	return GenericCamera[T]{kind: KindKannalaBrandt4, kb4: m}
}

// FromUnified wraps m.
func FromUnified[T scalar.Scalar[T]](m Unified[T]) GenericCamera[T] {
	return GenericCamera[T]{kind: KindUnified, ucm: m}
}

// FromPinhole wraps m.
func FromPinhole[T scalar.Scalar[T]](m Pinhole[T]) GenericCamera[T] {
	return GenericCamera[T]{kind: KindPinhole, pinhole: m}
}

// Cast re-types c with scalar type S. The active kind is preserved and every parameter is
// converted element-wise.
func Cast[S scalar.Scalar[S], T scalar.Scalar[T]](c GenericCamera[T]) GenericCamera[S] {
	res := GenericCamera[S]{kind: c.kind}
	switch c.kind {
	case KindExtendedUnified:
		res.eucm = CastExtendedUnified[S](c.eucm)
	case KindDoubleSphere:
		res.ds = CastDoubleSphere[S](c.ds)
	case KindKannalaBrandt4:
		res.kb4 = CastKannalaBrandt4[S](c.kb4)
	case KindUnified:
		res.ucm = CastUnified[S](c.ucm)
	case KindPinhole:
		res.pinhole = CastPinhole[S](c.pinhole)
	}
	return res
}

// Kind returns the active kind.
func (c GenericCamera[T]) Kind() Kind {
	return c.kind
}

// AsExtendedUnified returns the active model if it is an ExtendedUnified.
func (c GenericCamera[T]) AsExtendedUnified() (ExtendedUnified[T], bool) {
	return c.eucm, c.kind == KindExtendedUnified
}

// AsDoubleSphere returns the active model if it is a DoubleSphere.
func (c GenericCamera[T]) AsDoubleSphere() (DoubleSphere[T], bool) {
	return c.ds, c.kind == KindDoubleSphere
}

// AsKannalaBrandt4 returns the active model if it is a KannalaBrandt4.
func (c GenericCamera[T]) AsKannalaBrandt4() (KannalaBrandt4[T], bool) {
	return c.kb4, c.kind == KindKannalaBrandt4
}

// AsUnified returns the active model if it is a Unified.
func (c GenericCamera[T]) AsUnified() (Unified[T], bool) {
	return c.ucm, c.kind == KindUnified
}

// AsPinhole returns the active model if it is a Pinhole.
func (c GenericCamera[T]) AsPinhole() (Pinhole[T], bool) {
	return c.pinhole, c.kind == KindPinhole
}

// N returns the parameter count of the active model.
func (c GenericCamera[T]) N() int {
	return c.kind.N()
}

// Name returns the canonical name of the active model.
func (c GenericCamera[T]) Name() string {
	return c.kind.String()
}

// ParamNames returns the parameter names of the active model.
func (c GenericCamera[T]) ParamNames() []string {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.ParamNames()
	case KindKannalaBrandt4:
		return c.kb4.ParamNames()
	case KindUnified:
		return c.ucm.ParamNames()
	case KindPinhole:
		return c.pinhole.ParamNames()
	default:
		return c.eucm.ParamNames()
	}
}

// SetFromInit re-seeds the active model from [fx, fy, cx, cy].
func (c *GenericCamera[T]) SetFromInit(init Vec4[T]) {
	switch c.kind {
	case KindDoubleSphere:
		c.ds.SetFromInit(init)
	case KindKannalaBrandt4:
		c.kb4.SetFromInit(init)
	case KindUnified:
		c.ucm.SetFromInit(init)
	case KindPinhole:
		c.pinhole.SetFromInit(init)
	default:
		c.eucm.SetFromInit(init)
	}
}

// ApplyInc adds inc to the parameters of the active model. inc must have N elements; otherwise
// an error wrapping ErrIncrementLength is returned and the parameters are unchanged.
func (c *GenericCamera[T]) ApplyInc(inc []T) error {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.ApplyInc(inc)
	case KindKannalaBrandt4:
		return c.kb4.ApplyInc(inc)
	case KindUnified:
		return c.ucm.ApplyInc(inc)
	case KindPinhole:
		return c.pinhole.ApplyInc(inc)
	default:
		return c.eucm.ApplyInc(inc)
	}
}

// SetParam overwrites the parameters of the active model. param must have N elements.
func (c *GenericCamera[T]) SetParam(param []T) error {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.SetParam(param)
	case KindKannalaBrandt4:
		return c.kb4.SetParam(param)
	case KindUnified:
		return c.ucm.SetParam(param)
	case KindPinhole:
		return c.pinhole.SetParam(param)
	default:
		return c.eucm.SetParam(param)
	}
}

// Param returns a copy of the parameters of the active model.
func (c GenericCamera[T]) Param() []T {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.Param()
	case KindKannalaBrandt4:
		return c.kb4.Param()
	case KindUnified:
		return c.ucm.Param()
	case KindPinhole:
		return c.pinhole.Param()
	default:
		return c.eucm.Param()
	}
}

// CheckValid reports whether the active model's parameters are inside its valid range.
func (c GenericCamera[T]) CheckValid() error {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.CheckValid()
	case KindKannalaBrandt4:
		return c.kb4.CheckValid()
	case KindUnified:
		return c.ucm.CheckValid()
	case KindPinhole:
		return c.pinhole.CheckValid()
	default:
		return c.eucm.CheckValid()
	}
}

// Project maps a point in the camera frame to the image. Prefer ProjectPoints for more than a
// handful of points: every call pays for a dispatch.
func (c GenericCamera[T]) Project(p Vec4[T]) (Vec2[T], bool) {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.Project(p)
	case KindKannalaBrandt4:
		return c.kb4.Project(p)
	case KindUnified:
		return c.ucm.Project(p)
	case KindPinhole:
		return c.pinhole.Project(p)
	default:
		return c.eucm.Project(p)
	}
}

// Unproject maps an image point to a bearing in the camera frame. Prefer UnprojectPoints for
// more than a handful of points: every call pays for a dispatch.
func (c GenericCamera[T]) Unproject(proj Vec2[T]) (Vec4[T], bool) {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.Unproject(proj)
	case KindKannalaBrandt4:
		return c.kb4.Unproject(proj)
	case KindUnified:
		return c.ucm.Unproject(proj)
	case KindPinhole:
		return c.pinhole.Unproject(proj)
	default:
		return c.eucm.Unproject(proj)
	}
}

// UnprojectJacobian is Unproject plus the 4x2 derivative of the bearing with respect to proj.
func (c GenericCamera[T]) UnprojectJacobian(proj Vec2[T]) (Vec4[T], Mat42[T], bool) {
	switch c.kind {
	case KindDoubleSphere:
		return c.ds.UnprojectJacobian(proj)
	case KindKannalaBrandt4:
		return c.kb4.UnprojectJacobian(proj)
	case KindUnified:
		return c.ucm.UnprojectJacobian(proj)
	case KindPinhole:
		return c.pinhole.UnprojectJacobian(proj)
	default:
		return c.eucm.UnprojectJacobian(proj)
	}
}

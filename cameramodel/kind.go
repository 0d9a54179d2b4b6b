package cameramodel

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies one of the camera models a GenericCamera can hold. The zero Kind is the
// default model of a zero GenericCamera.
type Kind int

// The camera model kinds, in union order.
const (
	KindExtendedUnified Kind = iota
	KindDoubleSphere
	KindKannalaBrandt4
	KindUnified
	KindPinhole

	numKinds = iota
)

// Kinds returns every kind in union order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the canonical model name of k.
func (k Kind) String() string {
	switch k {
	case KindExtendedUnified:
		return ExtendedUnifiedName
	case KindDoubleSphere:
		return DoubleSphereName
	case KindKannalaBrandt4:
		return KannalaBrandt4Name
	case KindUnified:
		return UnifiedName
	case KindPinhole:
		return PinholeName
	default:
		return "unknown"
	}
}

// N returns the parameter count of k, or 0 for an unknown kind.
func (k Kind) N() int {
	switch k {
	case KindExtendedUnified:
		return ExtendedUnifiedN
	case KindDoubleSphere:
		return DoubleSphereN
	case KindKannalaBrandt4:
		return KannalaBrandt4N
	case KindUnified:
		return UnifiedN
	case KindPinhole:
		return PinholeN
	default:
		return 0
	}
}

// ParseKind returns the kind whose canonical name is name.
func ParseKind(name string) (Kind, error) {
	for k := numKinds - 1; k >= 0; k-- {
		if Kind(k).String() == name {
			return Kind(k), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownModel, "%q (known models: %s)", name, strings.Join(KindNames(), ", "))
}

// KindNames returns the canonical names of every kind in union order.
func KindNames() []string {
	names := make([]string, 0, numKinds)
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return names
}

// Package testutils provides camera fixtures and comparison helpers shared by tests.
package testutils

import (
	"math"

	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/scalar"
)

// RepresentativeParams returns, per kind, a parameter vector typical of the lenses the model is
// used for.
func RepresentativeParams() map[cameramodel.Kind][]float64 {
	return map[cameramodel.Kind][]float64{
		cameramodel.KindExtendedUnified: {460.76484651566468, 459.4051018049483, 365.8937161309615,
			249.33499869752445, 0.5903365915227143, 1.127468196965374},
		cameramodel.KindDoubleSphere: {0.5 * 805, 0.5 * 800, 505, 509, 0.5 * -0.150694, 0.5 * 1.48785},
		cameramodel.KindKannalaBrandt4: {379.045, 379.008, 505.512, 509.969,
			0.00693023, -0.0013828, -0.000272596, -0.000452646},
		cameramodel.KindUnified: {0.5 * 687.814, 0.5 * 687.571, 495.63, 503.08, 0.56},
		cameramodel.KindPinhole: {460, 460, 376, 240},
	}
}

// RepresentativeCamera returns a camera of kind k holding RepresentativeParams()[k].
func RepresentativeCamera[T scalar.Scalar[T]](k cameramodel.Kind) cameramodel.GenericCamera[T] {
	cam := cameramodel.NewFromKind[T](k)
	if err := cam.SetParam(scalar.FromFloats[T](RepresentativeParams()[k])); err != nil {
		panic(err)
	}
	return cam
}

// RepresentativeCameras returns one representative camera per kind, in union order.
func RepresentativeCameras[T scalar.Scalar[T]]() []cameramodel.GenericCamera[T] {
	cams := make([]cameramodel.GenericCamera[T], 0, len(cameramodel.Kinds()))
	for _, k := range cameramodel.Kinds() {
		cams = append(cams, RepresentativeCamera[T](k))
	}
	return cams
}

// GridPoints returns points on a grid in front of the camera, some of them far off axis.
func GridPoints[T scalar.Scalar[T]]() []cameramodel.Vec3[T] {
	var pts []cameramodel.Vec3[T]
	for x := -10; x <= 10; x += 2 {
		for y := -10; y <= 10; y += 2 {
			pts = append(pts, cameramodel.NewVec3[T](float64(x)/2, float64(y)/2, 5))
		}
	}
	return pts
}

// Direction returns the unit vector along the first three components of v.
func Direction[T scalar.Scalar[T]](v cameramodel.Vec4[T]) [3]float64 {
	x, y, z := v[0].Float(), v[1].Float(), v[2].Float()
	n := math.Sqrt(x*x + y*y + z*z)
	return [3]float64{x / n, y / n, z / n}
}

// DirectionsAlmostEqual reports whether a and b point the same way within tol.
func DirectionsAlmostEqual(a, b [3]float64, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

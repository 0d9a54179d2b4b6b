package cameramodel_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/scalar"
	"go.viam.com/cammodels/testutils"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		t.Run(cam.Name(), func(t *testing.T) {
			checked := 0
			for _, p := range testutils.GridPoints[scalar.Float]() {
				proj, ok := cam.Project(p.Homogeneous())
				if !ok {
					continue
				}
				back, ok := cam.Unproject(proj)
				if !ok {
					continue
				}
				checked++
				test.That(t, back[3].Float(), test.ShouldEqual, 0.)
				want := testutils.Direction(p.Homogeneous())
				test.That(t, testutils.DirectionsAlmostEqual(testutils.Direction(back), want, 1e-6), test.ShouldBeTrue)
			}
			test.That(t, checked, test.ShouldBeGreaterThan, len(testutils.GridPoints[scalar.Float]())/2)
		})
	}
}

func TestProjectRejectsPointsBehindCamera(t *testing.T) {
	behind := cameramodel.NewVec4[scalar.Float](0, 0, -1, 1)
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		_, ok := cam.Project(behind)
		test.That(t, ok, test.ShouldBeFalse)
	}

	pinhole := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindPinhole)
	_, ok := pinhole.Project(cameramodel.NewVec4[scalar.Float](1, 1, 0, 1))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestUnprojectRejectsPointsOutsideImageOfModel(t *testing.T) {
	// alpha > 0.5 bounds the image of the unified models.
	cam := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindDoubleSphere)
	_, ok := cam.Unproject(cameramodel.NewVec2[scalar.Float](1e5, 1e5))
	test.That(t, ok, test.ShouldBeFalse)

	eucm := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindExtendedUnified)
	_, ok = eucm.Unproject(cameramodel.NewVec2[scalar.Float](1e5, 1e5))
	test.That(t, ok, test.ShouldBeFalse)

	ucm := cameramodel.NewFromKind[scalar.Float](cameramodel.KindUnified)
	test.That(t, ucm.SetParam(scalar.FromFloats[scalar.Float]([]float64{300, 300, 320, 240, 0.8})), test.ShouldBeNil)
	_, ok = ucm.Unproject(cameramodel.NewVec2[scalar.Float](1e5, 1e5))
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = ucm.Unproject(cameramodel.NewVec2[scalar.Float](320, 240))
	test.That(t, ok, test.ShouldBeTrue)
}

func TestBatchMatchesSinglePoint(t *testing.T) {
	rot := mat.NewDense(4, 4, []float64{
		math.Cos(0.1), 0, math.Sin(0.1), 0.2,
		0, 1, 0, -0.1,
		-math.Sin(0.1), 0, math.Cos(0.1), 0.5,
		0, 0, 0, 1,
	})
	tcw, err := cameramodel.Mat4FromDense[scalar.Float](rot)
	test.That(t, err, test.ShouldBeNil)

	pts := append(testutils.GridPoints[scalar.Float](), cameramodel.NewVec3[scalar.Float](0, 0, -10))
	pts4 := make([]cameramodel.Vec4[scalar.Float], len(pts))
	for i, p := range pts {
		pts4[i] = p.Homogeneous()
	}

	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		t.Run(cam.Name(), func(t *testing.T) {
			proj, success := cam.ProjectPoints(pts, tcw, nil, nil)
			test.That(t, proj, test.ShouldHaveLength, len(pts))
			test.That(t, success, test.ShouldHaveLength, len(pts))
			if cam.Kind() != cameramodel.KindKannalaBrandt4 {
				// kb4 accepts every direction off the optical axis.
				test.That(t, success[len(pts)-1], test.ShouldBeFalse)
			}

			proj4, success4 := cam.ProjectHomogeneousPoints(pts4, tcw, nil, nil)
			test.That(t, proj4, test.ShouldResemble, proj)
			test.That(t, success4, test.ShouldResemble, success)

			for i, p := range pts {
				single, ok := cam.Project(tcw.MulVec4(p.Homogeneous()))
				test.That(t, success[i], test.ShouldEqual, ok)
				if ok {
					test.That(t, proj[i], test.ShouldResemble, single)
				}
			}

			p3d, unprojSuccess := cam.UnprojectPoints(proj, nil, nil)
			test.That(t, p3d, test.ShouldHaveLength, len(proj))
			for i := range proj {
				single, ok := cam.Unproject(proj[i])
				test.That(t, unprojSuccess[i], test.ShouldEqual, ok)
				if ok {
					test.That(t, p3d[i], test.ShouldResemble, single)
				}
			}
		})
	}
}

func TestBatchReusesOutputs(t *testing.T) {
	cam := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindKannalaBrandt4)
	pts := testutils.GridPoints[scalar.Float]()[:3]

	stale := cameramodel.NewVec2[scalar.Float](-7, -7)
	proj := []cameramodel.Vec2[scalar.Float]{stale, stale, stale, stale, stale}
	success := make([]bool, 1, 10)

	proj, success = cam.ProjectPoints(pts, cameramodel.Identity4[scalar.Float](), proj, success)
	test.That(t, proj, test.ShouldHaveLength, 3)
	test.That(t, cap(proj), test.ShouldEqual, 5)
	test.That(t, success, test.ShouldHaveLength, 3)
	test.That(t, cap(success), test.ShouldEqual, 10)
	for i := range proj {
		test.That(t, proj[i], test.ShouldNotResemble, stale)
	}

	empty, emptySuccess := cam.ProjectPoints(nil, cameramodel.Identity4[scalar.Float](), proj, success)
	test.That(t, empty, test.ShouldHaveLength, 0)
	test.That(t, emptySuccess, test.ShouldHaveLength, 0)
}

func TestUnprojectJacobian(t *testing.T) {
	const h = 1e-5
	pixels := []cameramodel.Vec2[scalar.Float]{
		cameramodel.NewVec2[scalar.Float](100, 120),
		cameramodel.NewVec2[scalar.Float](400, 300),
		cameramodel.NewVec2[scalar.Float](700, 650),
	}
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		t.Run(cam.Name(), func(t *testing.T) {
			for _, px := range pixels {
				p3d, jac, ok := cam.UnprojectJacobian(px)
				single, singleOK := cam.Unproject(px)
				test.That(t, ok, test.ShouldEqual, singleOK)
				if !ok {
					continue
				}
				for i := range p3d {
					test.That(t, p3d[i].Float(), test.ShouldAlmostEqual, single[i].Float(), 1e-12)
				}

				for col := 0; col < 2; col++ {
					plus, minus := px, px
					plus[col] += h
					minus[col] -= h
					up, _ := cam.Unproject(plus)
					down, _ := cam.Unproject(minus)
					for row := 0; row < 4; row++ {
						numeric := (up[row].Float() - down[row].Float()) / (2 * h)
						test.That(t, jac[row][col].Float(), test.ShouldAlmostEqual, numeric, 1e-6)
					}
				}
			}
		})
	}
}

func TestDualProjectionDerivatives(t *testing.T) {
	// Seeding the derivative on fx through an increment gives d(u)/d(fx) = mx and leaves v alone.
	p := cameramodel.NewVec3[scalar.Float](0.3, -0.2, 2)
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		dual := cameramodel.Cast[scalar.Dual[scalar.Float]](cam)
		inc := make([]scalar.Dual[scalar.Float], dual.N())
		inc[0] = scalar.Dual[scalar.Float]{Eps: 1}
		test.That(t, dual.ApplyInc(inc), test.ShouldBeNil)

		pd := cameramodel.Vec4[scalar.Dual[scalar.Float]]{
			scalar.Constant(p[0]), scalar.Constant(p[1]), scalar.Constant(p[2]), scalar.Constant[scalar.Float](1),
		}
		proj, ok := dual.Project(pd)
		test.That(t, ok, test.ShouldBeTrue)

		plain, _ := cam.Project(p.Homogeneous())
		test.That(t, proj[0].Re.Float(), test.ShouldAlmostEqual, plain[0].Float(), 1e-9)
		test.That(t, proj[1].Re.Float(), test.ShouldAlmostEqual, plain[1].Float(), 1e-9)

		mx := (plain[0].Float() - cam.Param()[2].Float()) / cam.Param()[0].Float()
		test.That(t, proj[0].Eps.Float(), test.ShouldAlmostEqual, mx, 1e-9)
		test.That(t, proj[1].Eps.Float(), test.ShouldAlmostEqual, 0., 1e-12)
	}
}

func TestConversions(t *testing.T) {
	m := cameramodel.Identity4[scalar.Float]()
	m[0][3] = 2
	dense := m.Dense()
	test.That(t, dense.At(0, 3), test.ShouldEqual, 2.)
	test.That(t, dense.At(3, 3), test.ShouldEqual, 1.)

	back, err := cameramodel.Mat4FromDense[scalar.Float](dense)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, m)

	_, err = cameramodel.Mat4FromDense[scalar.Float](mat.NewDense(3, 4, nil))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "3x4")

	_, err = cameramodel.Mat4FromDense[scalar.Float](nil)
	test.That(t, err, test.ShouldNotBeNil)

	v := cameramodel.Vec3FromR3[scalar.Float](r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, m.MulVec4(v.Homogeneous()).R3(), test.ShouldResemble, r3.Vector{X: 3, Y: 2, Z: 3})

	dir := cameramodel.NewVec4[scalar.Float](1, 2, 3, 0)
	test.That(t, dir.R3(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	px := cameramodel.NewVec2[scalar.Float](4, 5)
	test.That(t, cameramodel.Vec2FromR2[scalar.Float](px.R2()), test.ShouldResemble, px)
	test.That(t, px.Floats(), test.ShouldResemble, [2]float64{4, 5})

	cast := cameramodel.CastMat4[scalar.Float32](m)
	test.That(t, cast[0][3], test.ShouldEqual, scalar.Float32(2))
}

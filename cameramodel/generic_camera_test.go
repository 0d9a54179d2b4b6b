package cameramodel_test

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/scalar"
	"go.viam.com/cammodels/testutils"
)

func TestPinholeProjectsOpticalAxisToPrincipalPoint(t *testing.T) {
	cam := cameramodel.FromString[scalar.Float]("pinhole")
	test.That(t, cam.Kind(), test.ShouldEqual, cameramodel.KindPinhole)

	cam.SetFromInit(cameramodel.NewVec4[scalar.Float](600, 610, 320, 240))
	proj, ok := cam.Project(cameramodel.NewVec4[scalar.Float](0, 0, 1, 1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, proj[0].Float(), test.ShouldAlmostEqual, 320.)
	test.That(t, proj[1].Float(), test.ShouldAlmostEqual, 240.)

	projs, success := cam.ProjectPoints(
		[]cameramodel.Vec3[scalar.Float]{cameramodel.NewVec3[scalar.Float](0, 0, 1)},
		cameramodel.Identity4[scalar.Float](), nil, nil)
	test.That(t, success, test.ShouldResemble, []bool{true})
	test.That(t, projs[0], test.ShouldResemble, proj)
}

func TestNames(t *testing.T) {
	t.Run("name round trip", func(t *testing.T) {
		for _, k := range cameramodel.Kinds() {
			cam := cameramodel.NewFromKind[scalar.Float](k)
			test.That(t, cameramodel.FromString[scalar.Float](cam.Name()).Name(), test.ShouldEqual, cam.Name())
			test.That(t, cameramodel.FromString[scalar.Float](cam.Name()).Kind(), test.ShouldEqual, k)

			parsed, err := cameramodel.ParseKind(k.String())
			test.That(t, err, test.ShouldBeNil)
			test.That(t, parsed, test.ShouldEqual, k)
		}
	})

	t.Run("canonical names", func(t *testing.T) {
		test.That(t, cameramodel.KindNames(), test.ShouldResemble, []string{"eucm", "ds", "kb4", "ucm", "pinhole"})
	})

	t.Run("unknown name falls back to the default kind", func(t *testing.T) {
		cam := cameramodel.FromString[scalar.Float]("not_a_camera")
		test.That(t, cam.Name(), test.ShouldEqual, cameramodel.ExtendedUnifiedName)
		test.That(t, cam.Name(), test.ShouldEqual, cameramodel.GenericCamera[scalar.Float]{}.Name())
		test.That(t, cam.Param(), test.ShouldResemble, make([]scalar.Float, cameramodel.ExtendedUnifiedN))
	})

	t.Run("checked construction reports unknown names", func(t *testing.T) {
		_, err := cameramodel.NewGenericCamera[scalar.Float]("not_a_camera")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, cameramodel.ErrUnknownModel), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "not_a_camera")

		cam, err := cameramodel.NewGenericCamera[scalar.Float]("kb4")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cam.Kind(), test.ShouldEqual, cameramodel.KindKannalaBrandt4)
	})

	t.Run("out of range kinds", func(t *testing.T) {
		test.That(t, cameramodel.Kind(42).String(), test.ShouldEqual, "unknown")
		test.That(t, cameramodel.NewFromKind[scalar.Float](42).Kind(), test.ShouldEqual, cameramodel.KindExtendedUnified)
	})
}

func TestArity(t *testing.T) {
	expected := map[cameramodel.Kind]int{
		cameramodel.KindExtendedUnified: 6,
		cameramodel.KindDoubleSphere:    6,
		cameramodel.KindKannalaBrandt4:  8,
		cameramodel.KindUnified:         5,
		cameramodel.KindPinhole:         4,
	}
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		test.That(t, cam.N(), test.ShouldEqual, expected[cam.Kind()])
		test.That(t, cam.Param(), test.ShouldHaveLength, cam.N())
		test.That(t, cam.ParamNames(), test.ShouldHaveLength, cam.N())
		test.That(t, cam.N(), test.ShouldEqual, cam.N())

		cam.SetFromInit(cameramodel.NewVec4[scalar.Float](100, 100, 50, 50))
		test.That(t, cam.Param(), test.ShouldHaveLength, cam.N())
	}
}

func TestSetFromInit(t *testing.T) {
	init := cameramodel.NewVec4[scalar.Float](500, 501, 320, 240)
	defaults := map[cameramodel.Kind][]scalar.Float{
		cameramodel.KindExtendedUnified: {0.5, 1},
		cameramodel.KindDoubleSphere:    {-0.2, 0.5},
		cameramodel.KindKannalaBrandt4:  {0, 0, 0, 0},
		cameramodel.KindUnified:         {0.5},
		cameramodel.KindPinhole:         {},
	}
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		cam.SetFromInit(init)
		param := cam.Param()
		test.That(t, param[:4], test.ShouldResemble, init[:])
		test.That(t, param[4:], test.ShouldResemble, defaults[cam.Kind()])
		test.That(t, cam.CheckValid(), test.ShouldBeNil)
	}
}

func TestApplyInc(t *testing.T) {
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		original := cam.Param()

		inc := make([]scalar.Float, cam.N())
		neg := make([]scalar.Float, cam.N())
		for i := range inc {
			inc[i] = scalar.Float(0.01 * float64(i+1))
			neg[i] = -inc[i]
		}

		test.That(t, cam.ApplyInc(inc), test.ShouldBeNil)
		moved := cam.Param()
		for i := range moved {
			test.That(t, moved[i].Float(), test.ShouldAlmostEqual, original[i].Float()+inc[i].Float(), 1e-9)
		}
		test.That(t, cam.ApplyInc(neg), test.ShouldBeNil)
		for i, p := range cam.Param() {
			test.That(t, p.Float(), test.ShouldAlmostEqual, original[i].Float(), 1e-9)
		}

		err := cam.ApplyInc(make([]scalar.Float, cam.N()+1))
		test.That(t, errors.Is(err, cameramodel.ErrIncrementLength), test.ShouldBeTrue)
		test.That(t, cam.Param(), test.ShouldHaveLength, cam.N())

		err = cam.SetParam(make([]scalar.Float, cam.N()-1))
		test.That(t, errors.Is(err, cameramodel.ErrParamLength), test.ShouldBeTrue)
	}
}

func TestParamIsASnapshot(t *testing.T) {
	cam := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindDoubleSphere)
	param := cam.Param()
	param[0] = -1
	test.That(t, cam.Param()[0], test.ShouldNotEqual, scalar.Float(-1))

	before := cam.Param()
	inc := make([]scalar.Float, cam.N())
	inc[4] = 0.1
	test.That(t, cam.ApplyInc(inc), test.ShouldBeNil)
	test.That(t, before[4], test.ShouldNotEqual, cam.Param()[4])
}

func TestCopyIsIndependent(t *testing.T) {
	cam := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindUnified)
	cp := cam
	inc := make([]scalar.Float, cam.N())
	inc[0] = 10
	test.That(t, cp.ApplyInc(inc), test.ShouldBeNil)
	test.That(t, cp.Param()[0].Float(), test.ShouldAlmostEqual, cam.Param()[0].Float()+10)
}

func TestCast(t *testing.T) {
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		f32 := cameramodel.Cast[scalar.Float32](cam)
		test.That(t, f32.Kind(), test.ShouldEqual, cam.Kind())
		test.That(t, f32.Name(), test.ShouldEqual, cam.Name())

		back := cameramodel.Cast[scalar.Float](f32)
		test.That(t, back.Kind(), test.ShouldEqual, cam.Kind())
		for i, p := range back.Param() {
			want := cam.Param()[i].Float()
			test.That(t, p.Float(), test.ShouldAlmostEqual, want, 1e-6*(1+abs(want)))
		}

		dual := cameramodel.Cast[scalar.Dual[scalar.Float]](cam)
		test.That(t, dual.Kind(), test.ShouldEqual, cam.Kind())
		for i, p := range dual.Param() {
			test.That(t, p.Re, test.ShouldEqual, cam.Param()[i])
			test.That(t, p.Eps, test.ShouldEqual, scalar.Float(0))
		}
		test.That(t, cameramodel.Cast[scalar.Float](dual).Param(), test.ShouldResemble, cam.Param())
	}
}

func TestAccessors(t *testing.T) {
	param := [cameramodel.PinholeN]scalar.Float{1, 2, 3, 4}
	cam := cameramodel.FromPinhole(cameramodel.NewPinhole(param))
	pinhole, ok := cam.AsPinhole()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pinhole.Param(), test.ShouldResemble, param[:])

	_, ok = cam.AsDoubleSphere()
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = cam.AsExtendedUnified()
	test.That(t, ok, test.ShouldBeFalse)

	ds := cameramodel.FromDoubleSphere(cameramodel.NewDoubleSphere([cameramodel.DoubleSphereN]scalar.Float{}))
	test.That(t, ds.Kind(), test.ShouldEqual, cameramodel.KindDoubleSphere)
	kb := cameramodel.FromKannalaBrandt4(cameramodel.NewKannalaBrandt4([cameramodel.KannalaBrandt4N]scalar.Float{}))
	_, ok = kb.AsKannalaBrandt4()
	test.That(t, ok, test.ShouldBeTrue)
	ucm := cameramodel.FromUnified(cameramodel.NewUnified([cameramodel.UnifiedN]scalar.Float{}))
	_, ok = ucm.AsUnified()
	test.That(t, ok, test.ShouldBeTrue)
	eucm := cameramodel.FromExtendedUnified(cameramodel.NewExtendedUnified([cameramodel.ExtendedUnifiedN]scalar.Float{}))
	_, ok = eucm.AsExtendedUnified()
	test.That(t, ok, test.ShouldBeTrue)
}

func TestCheckValid(t *testing.T) {
	for _, cam := range testutils.RepresentativeCameras[scalar.Float]() {
		test.That(t, cam.CheckValid(), test.ShouldBeNil)

		bad := cam
		inc := make([]scalar.Float, cam.N())
		inc[0] = -cam.Param()[0] - 1
		test.That(t, bad.ApplyInc(inc), test.ShouldBeNil)
		err := bad.CheckValid()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "fx")
		test.That(t, err.Error(), test.ShouldContainSubstring, cam.Name())
	}

	ds := testutils.RepresentativeCamera[scalar.Float](cameramodel.KindDoubleSphere)
	inc := make([]scalar.Float, ds.N())
	inc[5] = 2
	test.That(t, ds.ApplyInc(inc), test.ShouldBeNil)
	test.That(t, ds.CheckValid().Error(), test.ShouldContainSubstring, "alpha")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

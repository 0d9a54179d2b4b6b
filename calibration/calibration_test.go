package calibration

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/logging"
	"go.viam.com/cammodels/scalar"
	"go.viam.com/cammodels/spatialmath"
	"go.viam.com/cammodels/testutils"
)

const stereoJSON = `{
    "value0": {
        "T_imu_cam": [
            {"px": -0.0160, "py": -0.0647, "pz": 0.0098, "qx": 0, "qy": 0, "qz": 0, "qw": 1},
            {"px": 0.0950, "py": -0.0639, "pz": 0.0102, "qx": 0, "qy": 0, "qz": 0.7071067811865476, "qw": 0.7071067811865476}
        ],
        "intrinsics": [
            {
                "camera_type": "ds",
                "intrinsics": {"fx": 402.5, "fy": 400, "cx": 505, "cy": 509, "xi": -0.075347, "alpha": 0.743925}
            },
            {
                "camera_type": "kb4",
                "intrinsics": {"fx": "379.045", "fy": 379.008, "cx": 505.512, "cy": 509.969,
                    "k1": 0.00693023, "k2": -0.0013828, "k3": -0.000272596, "k4": -0.000452646}
            }
        ],
        "resolution": [[1024, 1024], [1024, 1024]]
    }
}`

func TestParseCameras(t *testing.T) {
	c, err := Parse([]byte(stereoJSON), FormatJSON)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Validate(), test.ShouldBeNil)

	cams, err := c.Cameras()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cams, test.ShouldHaveLength, 2)
	test.That(t, cams[0].Kind(), test.ShouldEqual, cameramodel.KindDoubleSphere)
	test.That(t, scalar.Floats(cams[0].Param()), test.ShouldResemble, testutils.RepresentativeParams()[cameramodel.KindDoubleSphere])
	test.That(t, cams[1].Kind(), test.ShouldEqual, cameramodel.KindKannalaBrandt4)
	// numeric strings are coerced
	test.That(t, cams[1].Param()[0].Float(), test.ShouldEqual, 379.045)

	pose, err := c.Pose(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().X, test.ShouldEqual, 0.0950)
	test.That(t, pose.Orientation().Kmag, test.ShouldAlmostEqual, 0.7071067811865476)

	_, err = c.Pose(2)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = c.Camera(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPoseWithoutExtrinsics(t *testing.T) {
	c := &Calibration{Intrinsics: []CameraIntrinsics{
		IntrinsicsFromCamera(testutils.RepresentativeCamera[scalar.Float](cameramodel.KindPinhole)),
	}}
	test.That(t, c.Validate(), test.ShouldBeNil)
	pose, err := c.Pose(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, spatialmath.NewZeroPose(), 1e-12), test.ShouldBeTrue)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := &Calibration{
		TImuCam: []PoseEntry{{Qw: 1}, {}},
		Intrinsics: []CameraIntrinsics{
			{CameraType: "fisheye624", Intrinsics: map[string]interface{}{}},
			{CameraType: "pinhole", Intrinsics: map[string]interface{}{"fx": 460, "fy": 460, "cx": 376, "skew": 0}},
			{CameraType: "ucm", Intrinsics: map[string]interface{}{"fx": 300, "fy": 300, "cx": 320, "cy": 240, "alpha": 1.5}},
			{CameraType: "eucm", Intrinsics: map[string]interface{}{
				"fx": "wide", "fy": 300, "cx": 320, "cy": 240, "alpha": 0.5, "beta": 1,
			}},
		},
		Resolution: [][2]int{{640, 0}},
	}
	err := c.Validate()
	test.That(t, err, test.ShouldNotBeNil)

	errs := multierr.Errors(err)
	// count mismatches (2), zero resolution, zero quaternion, unknown model, unknown and
	// missing pinhole parameters, ucm range, unparsable eucm value
	test.That(t, errs, test.ShouldHaveLength, 9)
	msg := err.Error()
	test.That(t, msg, test.ShouldContainSubstring, "got 2 T_imu_cam entries for 4 cameras")
	test.That(t, msg, test.ShouldContainSubstring, "got 1 resolutions for 4 cameras")
	test.That(t, msg, test.ShouldContainSubstring, "640x0")
	test.That(t, msg, test.ShouldContainSubstring, "camera 1: T_imu_cam has a zero quaternion")
	test.That(t, msg, test.ShouldContainSubstring, "fisheye624")
	test.That(t, msg, test.ShouldContainSubstring, `unknown parameter "skew"`)
	test.That(t, msg, test.ShouldContainSubstring, `missing parameter "cy"`)
	test.That(t, msg, test.ShouldContainSubstring, "camera 2")
	test.That(t, msg, test.ShouldContainSubstring, `parameter "fx"`)

	_, err = c.Intrinsics[0].Camera()
	test.That(t, err, test.ShouldWrap, cameramodel.ErrUnknownModel)

	test.That(t, (&Calibration{}).Validate().Error(), test.ShouldContainSubstring, "no cameras")
}

func TestEncodeRoundTrip(t *testing.T) {
	cams := testutils.RepresentativeCameras[scalar.Float]()
	poses := make([]spatialmath.Pose, len(cams))
	for i := range poses {
		p, err := spatialmath.ParsePose("0.1,0.2,0.3,0.9,0.1,0.2,0.3")
		test.That(t, err, test.ShouldBeNil)
		poses[i] = p
	}
	c, err := FromCameras(cams, poses, nil)
	test.That(t, err, test.ShouldBeNil)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := c.Encode(format)
			test.That(t, err, test.ShouldBeNil)
			back, err := Parse(data, format)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, back.Validate(), test.ShouldBeNil)

			got, err := back.Cameras()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got, test.ShouldResemble, cams)
			for i := range poses {
				p, err := back.Pose(i)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, spatialmath.PoseAlmostEqual(p, poses[i], 1e-12), test.ShouldBeTrue)
			}
		})
	}

	_, err = FromCameras(cams, poses[:1], nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = c.Encode(Format("toml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoad(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	dir := t.TempDir()

	c, err := Parse([]byte(stereoJSON), FormatJSON)
	test.That(t, err, test.ShouldBeNil)
	yamlPath := filepath.Join(dir, "calib.yaml")
	test.That(t, c.Save(yamlPath), test.ShouldBeNil)

	loaded, err := Load(yamlPath, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Intrinsics, test.ShouldHaveLength, 2)
	test.That(t, logs.FilterMessage("loaded calibration").Len(), test.ShouldEqual, 1)

	bad := &Calibration{Intrinsics: []CameraIntrinsics{{CameraType: "ds", Intrinsics: map[string]interface{}{}}}}
	badPath := filepath.Join(dir, "bad.json")
	test.That(t, bad.Save(badPath), test.ShouldBeNil)
	_, err = Load(badPath, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid calibration")
	test.That(t, logs.FilterMessage("calibration problem").Len(), test.ShouldEqual, 6)

	_, err = Load(filepath.Join(dir, "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFormatFromPath(t *testing.T) {
	test.That(t, FormatFromPath("a/b.YML"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("calib.yaml"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("calib.json"), test.ShouldEqual, FormatJSON)
	test.That(t, FormatFromPath("calib"), test.ShouldEqual, FormatJSON)
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "T_imu_cam")
	test.That(t, string(data), test.ShouldContainSubstring, "camera_type")
	test.That(t, string(data), test.ShouldContainSubstring, "resolution")
}

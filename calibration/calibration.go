package calibration

import (
	"os"
	"slices"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/logging"
	"go.viam.com/cammodels/scalar"
	"go.viam.com/cammodels/spatialmath"
)

// Load reads and validates the calibration file at path.
func Load(path string, logger logging.Logger) (*Calibration, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calibration")
	}
	format := FormatFromPath(path)
	c, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	if err := c.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Debugw("calibration problem", "path", path, "error", e)
		}
		return nil, errors.Wrapf(err, "invalid calibration %s", path)
	}
	logger.Debugw("loaded calibration", "path", path, "format", format, "cameras", len(c.Intrinsics),
		"models", lo.Map(c.Intrinsics, func(in CameraIntrinsics, _ int) string { return in.CameraType }))
	return c, nil
}

// FromCameras builds a calibration from cameras. poses and resolution may be nil; otherwise
// they need one entry per camera.
func FromCameras(
	cams []cameramodel.GenericCamera[scalar.Float],
	poses []spatialmath.Pose,
	resolution [][2]int,
) (*Calibration, error) {
	if poses != nil && len(poses) != len(cams) {
		return nil, errors.Errorf("got %d poses for %d cameras", len(poses), len(cams))
	}
	if resolution != nil && len(resolution) != len(cams) {
		return nil, errors.Errorf("got %d resolutions for %d cameras", len(resolution), len(cams))
	}
	c := &Calibration{
		Intrinsics: lo.Map(cams, func(cam cameramodel.GenericCamera[scalar.Float], _ int) CameraIntrinsics {
			return IntrinsicsFromCamera(cam)
		}),
		Resolution: resolution,
	}
	for _, p := range poses {
		c.TImuCam = append(c.TImuCam, PoseEntryFromPose(p))
	}
	return c, nil
}

// IntrinsicsFromCamera returns the named parameters of cam.
func IntrinsicsFromCamera(cam cameramodel.GenericCamera[scalar.Float]) CameraIntrinsics {
	param := scalar.Floats(cam.Param())
	values := make(map[string]interface{}, len(param))
	for i, name := range cam.ParamNames() {
		values[name] = param[i]
	}
	return CameraIntrinsics{CameraType: cam.Name(), Intrinsics: values}
}

// Camera builds the camera described by in. Missing and unrecognized parameter names are all
// reported.
func (in CameraIntrinsics) Camera() (cameramodel.GenericCamera[scalar.Float], error) {
	cam, err := cameramodel.NewGenericCamera[scalar.Float](in.CameraType)
	if err != nil {
		return cam, err
	}
	names := cam.ParamNames()

	unknown := lo.Without(lo.Keys(in.Intrinsics), names...)
	slices.Sort(unknown)
	for _, name := range unknown {
		err = multierr.Append(err, errors.Errorf("%s: unknown parameter %q", in.CameraType, name))
	}

	param := make([]float64, len(names))
	for i, name := range names {
		raw, ok := in.Intrinsics[name]
		if !ok {
			err = multierr.Append(err, errors.Errorf("%s: missing parameter %q", in.CameraType, name))
			continue
		}
		v, castErr := cast.ToFloat64E(raw)
		if castErr != nil {
			err = multierr.Append(err, errors.Wrapf(castErr, "%s: parameter %q", in.CameraType, name))
			continue
		}
		param[i] = v
	}
	if err != nil {
		return cam, err
	}
	if err := cam.SetParam(scalar.FromFloats[scalar.Float](param)); err != nil {
		return cam, err
	}
	return cam, nil
}

// Cameras builds every camera of the calibration, in file order.
func (c *Calibration) Cameras() ([]cameramodel.GenericCamera[scalar.Float], error) {
	cams := make([]cameramodel.GenericCamera[scalar.Float], 0, len(c.Intrinsics))
	for i, in := range c.Intrinsics {
		cam, err := in.Camera()
		if err != nil {
			return nil, errors.Wrapf(err, "camera %d", i)
		}
		cams = append(cams, cam)
	}
	return cams, nil
}

// Camera builds camera i.
func (c *Calibration) Camera(i int) (cameramodel.GenericCamera[scalar.Float], error) {
	if i < 0 || i >= len(c.Intrinsics) {
		return cameramodel.GenericCamera[scalar.Float]{}, errors.Errorf("camera %d out of range, have %d", i, len(c.Intrinsics))
	}
	cam, err := c.Intrinsics[i].Camera()
	return cam, errors.Wrapf(err, "camera %d", i)
}

// Pose returns T_imu_cam of camera i. A calibration without extrinsics puts every camera at
// the imu origin.
func (c *Calibration) Pose(i int) (spatialmath.Pose, error) {
	if i < 0 || i >= len(c.Intrinsics) {
		return spatialmath.Pose{}, errors.Errorf("camera %d out of range, have %d", i, len(c.Intrinsics))
	}
	if len(c.TImuCam) == 0 {
		return spatialmath.NewZeroPose(), nil
	}
	if i >= len(c.TImuCam) {
		return spatialmath.Pose{}, errors.Errorf("no T_imu_cam for camera %d", i)
	}
	return c.TImuCam[i].Pose(), nil
}

// Pose converts the entry.
func (p PoseEntry) Pose() spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: p.Px, Y: p.Py, Z: p.Pz},
		quat.Number{Real: p.Qw, Imag: p.Qx, Jmag: p.Qy, Kmag: p.Qz},
	)
}

// PoseEntryFromPose converts p.
func PoseEntryFromPose(p spatialmath.Pose) PoseEntry {
	pt, q := p.Point(), p.Orientation()
	return PoseEntry{Px: pt.X, Py: pt.Y, Pz: pt.Z, Qx: q.Imag, Qy: q.Jmag, Qz: q.Kmag, Qw: q.Real}
}

// Validate returns every problem in the calibration combined into one error.
func (c *Calibration) Validate() error {
	var err error
	if len(c.Intrinsics) == 0 {
		err = multierr.Append(err, errors.New("calibration has no cameras"))
	}
	if n := len(c.TImuCam); n != 0 && n != len(c.Intrinsics) {
		err = multierr.Append(err, errors.Errorf("got %d T_imu_cam entries for %d cameras", n, len(c.Intrinsics)))
	}
	if n := len(c.Resolution); n != 0 && n != len(c.Intrinsics) {
		err = multierr.Append(err, errors.Errorf("got %d resolutions for %d cameras", n, len(c.Intrinsics)))
	}
	for i, res := range c.Resolution {
		if res[0] <= 0 || res[1] <= 0 {
			err = multierr.Append(err, errors.Errorf("camera %d: resolution must be positive, got %dx%d", i, res[0], res[1]))
		}
	}
	for i, p := range c.TImuCam {
		if p.Qw == 0 && p.Qx == 0 && p.Qy == 0 && p.Qz == 0 {
			err = multierr.Append(err, errors.Errorf("camera %d: T_imu_cam has a zero quaternion", i))
		}
	}
	for i, in := range c.Intrinsics {
		cam, camErr := in.Camera()
		if camErr != nil {
			for _, e := range multierr.Errors(camErr) {
				err = multierr.Append(err, errors.Wrapf(e, "camera %d", i))
			}
			continue
		}
		if validErr := cam.CheckValid(); validErr != nil {
			err = multierr.Append(err, errors.Wrapf(validErr, "camera %d", i))
		}
	}
	return err
}

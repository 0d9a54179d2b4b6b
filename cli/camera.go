package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"

	"go.viam.com/cammodels/calibration"
	"go.viam.com/cammodels/cameramodel"
	"go.viam.com/cammodels/logging"
	"go.viam.com/cammodels/scalar"
	"go.viam.com/cammodels/spatialmath"
)

var (
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(flagDebug) {
		return logging.NewDebugLogger("camtool")
	}
	return logging.NewBlankLogger("camtool")
}

// parseVector parses n comma separated numbers.
func parseVector(arg string, n int) ([]float64, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != n {
		return nil, errors.Errorf("%q: expected %d comma separated values, got %d", arg, n, len(fields))
	}
	vals := make([]float64, n)
	for i, f := range fields {
		v, err := cast.ToFloat64E(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "%q", arg)
		}
		vals[i] = v
	}
	return vals, nil
}

func loadCamera(c *cli.Context, logger logging.Logger) (*calibration.Calibration, cameramodel.GenericCamera[scalar.Float], error) {
	var cam cameramodel.GenericCamera[scalar.Float]
	cal, err := calibration.Load(c.Path(flagCalibration), logger.Sublogger("calibration"))
	if err != nil {
		return nil, cam, err
	}
	idx := c.Int(flagCamera)
	cam, err = cal.Camera(idx)
	if err != nil {
		return nil, cam, err
	}
	logger.Debugw("using camera", "index", idx, "model", cam.Name(), "params", scalar.Floats(cam.Param()))
	return cal, cam, nil
}

func printResult(w io.Writer, ok bool, format string, args ...interface{}) {
	if ok {
		fmt.Fprintf(w, format+" ok\n", args...)
		return
	}
	failColor.Fprintf(w, format+" invalid\n", args...) //nolint:errcheck
}

// ModelsAction lists every camera model in union order.
func ModelsAction(c *cli.Context) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "N", "Parameters"})
	t.AppendRows(lo.Map(cameramodel.Kinds(), func(k cameramodel.Kind, _ int) table.Row {
		names := cameramodel.NewFromKind[scalar.Float](k).ParamNames()
		return table.Row{int(k), k.String(), k.N(), strings.Join(names, " ")}
	}))
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// ProjectAction projects the 3D points given as arguments.
func ProjectAction(c *cli.Context) error {
	logger := newLogger(c)
	if c.Args().Len() == 0 {
		return errors.New("no points given, pass x,y,z arguments")
	}
	pts := make([]cameramodel.Vec3[scalar.Float], c.Args().Len())
	for i, arg := range c.Args().Slice() {
		v, err := parseVector(arg, 3)
		if err != nil {
			return err
		}
		pts[i] = cameramodel.NewVec3[scalar.Float](v[0], v[1], v[2])
	}

	tcw := cameramodel.Identity4[scalar.Float]()
	if s := c.String(flagPose); s != "" {
		pose, err := spatialmath.ParsePose(s)
		if err != nil {
			return err
		}
		if tcw, err = cameramodel.Mat4FromDense[scalar.Float](pose.Matrix()); err != nil {
			return err
		}
	}

	_, cam, err := loadCamera(c, logger)
	if err != nil {
		return err
	}
	proj, ok := cam.ProjectPoints(pts, tcw, nil, nil)
	for i, arg := range c.Args().Slice() {
		printResult(c.App.Writer, ok[i], "%s -> %.6f %.6f", arg, proj[i][0].Float(), proj[i][1].Float())
	}
	return nil
}

// UnprojectAction unprojects the pixels given as arguments to bearing vectors.
func UnprojectAction(c *cli.Context) error {
	logger := newLogger(c)
	if c.Args().Len() == 0 {
		return errors.New("no pixels given, pass u,v arguments")
	}
	pixels := make([]cameramodel.Vec2[scalar.Float], c.Args().Len())
	for i, arg := range c.Args().Slice() {
		v, err := parseVector(arg, 2)
		if err != nil {
			return err
		}
		pixels[i] = cameramodel.NewVec2[scalar.Float](v[0], v[1])
	}

	_, cam, err := loadCamera(c, logger)
	if err != nil {
		return err
	}
	p3d, ok := cam.UnprojectPoints(pixels, nil, nil)
	for i, arg := range c.Args().Slice() {
		d := p3d[i].Floats()
		printResult(c.App.Writer, ok[i], "%s -> %.6f %.6f %.6f", arg, d[0], d[1], d[2])
	}
	return nil
}

// RoundTripAction unprojects a grid of pixels covering the image, projects the bearings
// back and reports the reprojection error of the pixels that survive both steps.
func RoundTripAction(c *cli.Context) error {
	logger := newLogger(c)
	step := c.Float64(flagStep)
	if step <= 0 {
		return errors.Errorf("step must be positive, got %v", step)
	}
	cal, cam, err := loadCamera(c, logger)
	if err != nil {
		return err
	}

	param := scalar.Floats(cam.Param())
	width, height := 2*param[2], 2*param[3]
	if idx := c.Int(flagCamera); idx < len(cal.Resolution) {
		width, height = float64(cal.Resolution[idx][0]), float64(cal.Resolution[idx][1])
	} else {
		logger.Debugw("no resolution in calibration, using twice the principal point", "width", width, "height", height)
	}

	var pixels []cameramodel.Vec2[scalar.Float]
	for v := step / 2; v < height; v += step {
		for u := step / 2; u < width; u += step {
			pixels = append(pixels, cameramodel.NewVec2[scalar.Float](u, v))
		}
	}

	p3d, unprojOK := cam.UnprojectPoints(pixels, nil, nil)
	proj, projOK := cam.ProjectHomogeneousPoints(p3d, cameramodel.Identity4[scalar.Float](), nil, nil)

	var residuals stats.Float64Data
	for i := range pixels {
		if !unprojOK[i] || !projOK[i] {
			continue
		}
		du := proj[i][0].Float() - pixels[i][0].Float()
		dv := proj[i][1].Float() - pixels[i][1].Float()
		residuals = append(residuals, math.Hypot(du, dv))
	}
	if len(residuals) == 0 {
		return errors.Errorf("none of the %d grid pixels survived the round trip", len(pixels))
	}

	mean, err := residuals.Mean()
	if err != nil {
		return err
	}
	maxErr, err := residuals.Max()
	if err != nil {
		return err
	}
	p95, err := residuals.Percentile(95)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Model", "Pixels", "Valid", "Mean", "Max", "P95"})
	t.AppendRow(table.Row{
		cam.Name(), len(pixels), len(residuals),
		fmt.Sprintf("%.3g", mean), fmt.Sprintf("%.3g", maxErr), fmt.Sprintf("%.3g", p95),
	})
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// InitAction initializes a camera model from fx,fy,cx,cy and prints its parameters.
func InitAction(c *cli.Context) error {
	logger := newLogger(c)
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one fx,fy,cx,cy argument")
	}
	vals, err := parseVector(c.Args().First(), 4)
	if err != nil {
		return err
	}

	model := c.String(flagModel)
	if _, err := cameramodel.ParseKind(model); err != nil {
		warnColor.Fprintf(c.App.ErrWriter, "warning: %v, using %s\n", err, cameramodel.KindExtendedUnified) //nolint:errcheck
	}
	cam := cameramodel.FromString[scalar.Float](model)
	cam.SetFromInit(cameramodel.NewVec4[scalar.Float](vals[0], vals[1], vals[2], vals[3]))
	logger.Debugw("initialized camera", "model", cam.Name(), "init", vals)

	t := table.NewWriter()
	t.SetTitle(cam.Name())
	t.AppendHeader(table.Row{"Parameter", "Value"})
	param := scalar.Floats(cam.Param())
	for i, name := range cam.ParamNames() {
		t.AppendRow(table.Row{name, strconv.FormatFloat(param[i], 'g', -1, 64)})
	}
	fmt.Fprintln(c.App.Writer, t.Render())

	if out := c.Path(flagOutput); out != "" {
		cal, err := calibration.FromCameras([]cameramodel.GenericCamera[scalar.Float]{cam}, nil, nil)
		if err != nil {
			return err
		}
		if err := cal.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	}
	return nil
}

// ConvertAction loads a calibration and writes it back out, normalizing every value to a
// number.
func ConvertAction(c *cli.Context) error {
	logger := newLogger(c)
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one output path")
	}
	out := c.Args().First()

	cal, err := calibration.Load(c.Path(flagCalibration), logger.Sublogger("calibration"))
	if err != nil {
		return err
	}
	cams, err := cal.Cameras()
	if err != nil {
		return err
	}
	var poses []spatialmath.Pose
	if len(cal.TImuCam) > 0 {
		poses = make([]spatialmath.Pose, len(cams))
		for i := range cams {
			if poses[i], err = cal.Pose(i); err != nil {
				return err
			}
		}
	}
	converted, err := calibration.FromCameras(cams, poses, cal.Resolution)
	if err != nil {
		return err
	}
	if err := converted.Save(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d cameras to %s\n", len(cams), out)
	return nil
}

// SchemaAction prints the calibration file schema.
func SchemaAction(c *cli.Context) error {
	data, err := json.MarshalIndent(calibration.Schema(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode schema")
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}

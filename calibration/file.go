// Package calibration reads and writes multi-camera calibration files in the layout used by
// basalt: a "value0" object holding one extrinsic, one set of named intrinsics and one
// resolution per camera.
package calibration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a calibration file.
type Format string

// The supported calibration file formats.
const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

// FormatFromPath picks the format from the file extension. Anything other than .yaml or .yml
// is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// File is the top level object of a calibration file.
type File struct {
	Value0 Calibration `json:"value0" yaml:"value0"`
}

// Calibration holds the per camera entries of a calibration file. Entry i of every slice
// describes camera i.
type Calibration struct {
	TImuCam    []PoseEntry        `json:"T_imu_cam" yaml:"T_imu_cam"`
	Intrinsics []CameraIntrinsics `json:"intrinsics" yaml:"intrinsics"`
	Resolution [][2]int           `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// PoseEntry is the transform from camera to imu frame as a translation and a unit quaternion.
type PoseEntry struct {
	Px float64 `json:"px" yaml:"px"`
	Py float64 `json:"py" yaml:"py"`
	Pz float64 `json:"pz" yaml:"pz"`
	Qx float64 `json:"qx" yaml:"qx"`
	Qy float64 `json:"qy" yaml:"qy"`
	Qz float64 `json:"qz" yaml:"qz"`
	Qw float64 `json:"qw" yaml:"qw"`
}

// CameraIntrinsics names a camera model and its parameters. Parameter values may be numbers or
// numeric strings.
type CameraIntrinsics struct {
	CameraType string                 `json:"camera_type" yaml:"camera_type" jsonschema:"enum=eucm,enum=ds,enum=kb4,enum=ucm,enum=pinhole"`
	Intrinsics map[string]interface{} `json:"intrinsics" yaml:"intrinsics"`
}

// Schema returns the JSON schema of a calibration file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&File{})
}

// Parse decodes a calibration file. It does not validate the contents.
func Parse(data []byte, format Format) (*Calibration, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml calibration")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "failed to decode json calibration")
		}
	default:
		return nil, errors.Errorf("unsupported calibration format %q", format)
	}
	return &f.Value0, nil
}

// Encode serializes c as a calibration file.
func (c *Calibration) Encode(format Format) ([]byte, error) {
	f := File{Value0: *c}
	switch format {
	case FormatYAML:
		return yaml.Marshal(&f)
	case FormatJSON:
		return json.MarshalIndent(&f, "", "    ")
	default:
		return nil, errors.Errorf("unsupported calibration format %q", format)
	}
}

// Save writes c to path in the format given by its extension.
func (c *Calibration) Save(path string) error {
	data, err := c.Encode(FormatFromPath(path))
	if err != nil {
		return err
	}
	//nolint:gosec
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write %s", path)
}

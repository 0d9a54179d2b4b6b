// Package cli contains the camtool command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagDebug       = "debug"
	flagCalibration = "calibration"
	flagCamera      = "camera"
	flagPose        = "pose"
	flagStep        = "step"
	flagModel       = "model"
	flagOutput      = "output"
)

func calibrationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:     flagCalibration,
			Aliases:  []string{"c"},
			Usage:    "calibration `FILE` (json, or yaml by extension)",
			Required: true,
		},
		&cli.IntFlag{
			Name:  flagCamera,
			Usage: "index of the camera in the calibration",
		},
	}
}

var app = &cli.App{
	Name:            "camtool",
	Usage:           "project and unproject points with calibrated camera models",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "models",
			Usage:  "list the supported camera models and their parameters",
			Action: ModelsAction,
		},
		{
			Name:      "project",
			Usage:     "project 3D points into the image of a calibrated camera",
			ArgsUsage: "x,y,z [x,y,z ...]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  flagPose,
					Usage: "camera from world transform as tx,ty,tz[,qw,qx,qy,qz]",
				},
			}, calibrationFlags()...),
			Action: ProjectAction,
		},
		{
			Name:      "unproject",
			Usage:     "unproject pixels to bearing vectors",
			ArgsUsage: "u,v [u,v ...]",
			Flags:     calibrationFlags(),
			Action:    UnprojectAction,
		},
		{
			Name:  "roundtrip",
			Usage: "unproject then reproject a pixel grid and report the reprojection error",
			Flags: append([]cli.Flag{
				&cli.Float64Flag{
					Name:  flagStep,
					Usage: "grid spacing in pixels",
					Value: 16,
				},
			}, calibrationFlags()...),
			Action: RoundTripAction,
		},
		{
			Name:      "init",
			Usage:     "initialize a model from focal lengths and principal point",
			ArgsUsage: "fx,fy,cx,cy",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagModel,
					Usage:    "camera model name, see models",
					Required: true,
				},
				&cli.PathFlag{
					Name:  flagOutput,
					Usage: "also write a single camera calibration to `FILE`",
				},
			},
			Action: InitAction,
		},
		{
			Name:      "convert",
			Usage:     "rewrite a calibration, converting between json and yaml by extension",
			ArgsUsage: "<output>",
			Flags:     calibrationFlags()[:1],
			Action:    ConvertAction,
		},
		{
			Name:   "schema",
			Usage:  "print the json schema of calibration files",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

// Command isotool rasterizes lines and cube stamps, renders voxel scenes to
// PNG and converts scenes between the text, packed and glTF forms.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"fxiso/internal/buildinfo"
	"fxiso/isodsp/stamp"
	"fxiso/isodsp/voxel"
)

// defaultSize is the graph screen of the color calculators.
const defaultSize = "396x224"

func newCommand() *cli.Command {
	blockFlag := &cli.StringFlag{
		Name:  "block",
		Value: stamp.DefaultGeometry.String(),
		Usage: "cube tile size `WxH`",
	}
	sizeFlag := &cli.StringFlag{
		Name:  "size",
		Value: defaultSize,
		Usage: "screen size `WxH`",
	}
	scaleFlag := &cli.IntFlag{
		Name:  "scale",
		Value: 2,
		Usage: "integer upscale of the written PNG",
	}

	return &cli.Command{
		Name:    "isotool",
		Usage:   "rasterize lines and render isometric voxel scenes",
		Version: buildinfo.Short(),
		Commands: []*cli.Command{
			{
				Name:      "line",
				Usage:     "print the pixels of a line, one x,y pair per line",
				ArgsUsage: "X1 Y1 X2 Y2",
				Action:    lineAction,
			},
			{
				Name:  "stamp",
				Usage: "print the cube stamp as text ('#' ink, ' ' face, 't' transparent)",
				Flags: []cli.Flag{
					blockFlag,
					&cli.BoolFlag{Name: "readback", Usage: "build the stamp by reading back a drawn wireframe"},
				},
				Action: stampAction,
			},
			{
				Name:      "render",
				Usage:     "render scenes to PNG; with no SCENE the demo scene is rendered",
				ArgsUsage: "[SCENE...]",
				Flags: []cli.Flag{
					blockFlag,
					sizeFlag,
					scaleFlag,
					&cli.StringFlag{Name: "origin", Value: voxel.DefaultOrigin.String(), Usage: "screen origin `X,Y[,Z]`"},
					&cli.StringFlag{Name: "out", Value: ".", Usage: "output `DIR`"},
				},
				Action: renderAction,
			},
			{
				Name:      "pack",
				Usage:     "convert a scene to the packed .isos form",
				ArgsUsage: "IN OUT",
				Action:    packAction,
			},
			{
				Name:      "unpack",
				Usage:     "convert a scene to the text form",
				ArgsUsage: "IN OUT",
				Action:    unpackAction,
			},
			{
				Name:      "glb",
				Usage:     "export a scene as binary glTF",
				ArgsUsage: "IN OUT",
				Action:    glbAction,
			},
			{
				Name:      "script",
				Usage:     "run a plotting script on an in-memory screen and save it as PNG",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					blockFlag,
					sizeFlag,
					scaleFlag,
					&cli.StringFlag{Name: "out", Value: "script.png", Usage: "output `FILE`"},
					&cli.DurationFlag{Name: "timeout", Value: 0, Usage: "script time limit (0 uses the default)"},
				},
				Action: scriptAction,
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := cmd.Root().Writer.Write([]byte(buildinfo.String() + "\n"))
					return err
				},
			},
		},
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("isotool: ")
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

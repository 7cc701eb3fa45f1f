// scanline renders scenes offline with a software scanline renderer and
// writes them as images, or previews them in the terminal.
//
// Usage:
//
//	scanline render --scene cubes --output cubes.png
//	scanline render --scene model --model duck.glb --preview
//	scanline orbit --scene shapes --frames 90 --output frames/shapes.png
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/log"
)

var version = "dev"

var logger = log.New("scanline")

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "scanline",
		Short: "Software scanline renderer",
		Long: "scanline draws hierarchical scenes through a 3D viewing pipeline,\n" +
			"shades them with ambient, directional, point and spot lights and\n" +
			"fills them with a z-buffered scanline rasterizer.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.Debug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log timings and skipped primitives")

	root.AddCommand(newRenderCmd(), newOrbitCmd(), newScenesCmd())
	return root
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

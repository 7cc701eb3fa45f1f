package main

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type orbitOptions struct {
	renderOptions
	frames  int
	fps     int
	workers int
	turns   float64
}

// orbitAngles returns the camera angle of every frame. The camera starts
// at rest and is pulled toward turns full revolutions by a critically damped
// spring tuned to settle by the last frame.
func orbitAngles(frames, fps int, turns float64) []float64 {
	if frames <= 0 {
		return nil
	}
	target := turns * 2 * math.Pi
	duration := float64(frames) / float64(fps)
	spring := harmonica.NewSpring(harmonica.FPS(fps), 8/duration, 1.0)

	angles := make([]float64, frames)
	var pos, vel float64
	for i := range angles {
		angles[i] = pos
		pos, vel = spring.Update(pos, vel, target)
	}
	return angles
}

// framePath numbers output for frame i. A pattern with a printf verb is
// formatted directly; otherwise the number goes before the extension.
func framePath(pattern string, i int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, i)
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(pattern, ext), i, ext)
}

func newOrbitCmd() *cobra.Command {
	var opts orbitOptions

	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Render frames of the camera circling a scene",
		Long: "orbit renders one image per frame while the camera circles the\n" +
			"scene's center, easing in and out with a spring. Frames render in\n" +
			"parallel, each into its own framebuffer.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", opts.fps)
			}
			j, err := opts.job()
			if err != nil {
				return err
			}

			start := time.Now()
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(opts.workers, 1))

			for i, angle := range orbitAngles(opts.frames, opts.fps, opts.turns) {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					view := j.scene.View.Orbit(j.scene.Target, angle)
					fb, st, err := j.frame(view)
					if err != nil {
						return fmt.Errorf("frame %d: %w", i, err)
					}
					path := framePath(opts.output, i)
					if err := fb.Save(path); err != nil {
						return fmt.Errorf("frame %d: %w", i, err)
					}
					logger.Debugf("frame %d: %s, angle %.3f, %d polygons", i, path, angle, st.Polygons)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			logger.Noticef("%s: %d frames in %v", j.scene.Name, opts.frames, time.Since(start))
			return nil
		},
	}
	opts.addFlags(cmd, "frame.png")
	cmd.Flags().IntVar(&opts.frames, "frames", 36, "number of frames")
	cmd.Flags().IntVar(&opts.fps, "fps", 24, "frame rate the easing is timed for")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "frames rendered at once")
	cmd.Flags().Float64Var(&opts.turns, "turns", 1, "revolutions around the scene")
	return cmd
}

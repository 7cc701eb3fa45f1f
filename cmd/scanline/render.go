package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

// renderOptions are the flags shared by render and orbit.
type renderOptions struct {
	scene      string
	model      string
	width      int
	height     int
	shade      string
	background string
	output     string

	// render only
	preview bool
	cols    int
}

func (o *renderOptions) addFlags(cmd *cobra.Command, output string) {
	f := cmd.Flags()
	f.StringVarP(&o.scene, "scene", "s", "cubes", "built-in scene to draw, see the scenes command")
	f.StringVarP(&o.model, "model", "m", "", "glTF/GLB file for the model scene")
	f.IntVar(&o.width, "width", 0, "image width in pixels (0 keeps the scene's)")
	f.IntVar(&o.height, "height", 0, "image height in pixels (0 keeps the scene's)")
	f.StringVar(&o.shade, "shade", "", "frame, constant, flat, depth, gouraud or phong (default: the scene's)")
	f.StringVar(&o.background, "background", "#000000", "background color as hex")
	f.StringVarP(&o.output, "output", "o", output, "image file; ppm, png, bmp or tiff by extension")
}

// job is a scene resolved against the options, ready to render frames.
type job struct {
	scene      *Scene
	state      render.DrawState
	background render.Color
}

func (o *renderOptions) job() (*job, error) {
	sc, err := buildScene(o.scene, o.model)
	if err != nil {
		return nil, err
	}

	w, h := sc.View.ScreenX, sc.View.ScreenY
	if o.width > 0 {
		w = o.width
	}
	if o.height > 0 {
		h = o.height
	}
	if w != sc.View.ScreenX || h != sc.View.ScreenY {
		sc.Fit(w, h)
	}

	ds := sc.State
	if o.shade != "" {
		if ds.Shade, err = render.ParseShadeMode(o.shade); err != nil {
			return nil, err
		}
	}

	bg, err := render.ParseColor(o.background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	return &job{scene: sc, state: ds, background: bg}, nil
}

// frame renders the scene from view into a fresh framebuffer.
func (j *job) frame(view math3d.View3D) (*render.Framebuffer, scene.Stats, error) {
	cam := render.NewCamera(view)
	vtm, err := cam.ViewMatrix()
	if err != nil {
		return nil, scene.Stats{}, fmt.Errorf("view: %w", err)
	}

	fb := render.NewFramebuffer(view.ScreenX, view.ScreenY)
	fb.Clear(j.background)
	r := scene.NewRenderer(render.NewRasterizer(fb), vtm)

	ds := j.state
	ds.Viewer = cam.Viewer()
	st := r.Draw(j.scene.Root, math3d.Identity(), ds, j.scene.Lighting(view))
	return fb, st, nil
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one image of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := opts.job()
			if err != nil {
				return err
			}

			start := time.Now()
			fb, st, err := j.frame(j.scene.View)
			if err != nil {
				return err
			}
			logger.Noticef("%s: %dx%d in %v", j.scene.Name, fb.Width, fb.Height, time.Since(start))
			logger.Debugf("%s: %+v", j.scene.Name, st)

			if opts.output != "" {
				if err := fb.Save(opts.output); err != nil {
					return err
				}
			}
			if opts.preview {
				return fb.Preview(os.Stdout, opts.cols)
			}
			return nil
		},
	}
	opts.addFlags(cmd, "scanline.png")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "also print the image to the terminal")
	cmd.Flags().IntVar(&opts.cols, "cols", 80, "terminal preview width in characters")
	return cmd
}

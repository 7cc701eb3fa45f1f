package main

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/bezier"
	"github.com/taigrr/scanline/pkg/lighting"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

var errNoModel = errors.New("the model scene needs --model")

var (
	white  = render.ColorWhite
	dkGrey = render.RGB(0.1, 0.1, 0.1)
)

// Scene is a ready-to-draw module with the camera it was composed for.
type Scene struct {
	Name   string
	Root   *scene.Module
	View   math3d.View3D
	Target math3d.Vec3 // Orbit center
	State  render.DrawState
	Lights []lighting.Light // World lights in addition to the headlight
}

// Lighting returns the scene lights plus a white point light at the eye.
func (s *Scene) Lighting(view math3d.View3D) *lighting.Lighting {
	l := lighting.New(s.Lights...)
	l.Add(lighting.Point(white, view.VRP))
	return l
}

// Fit sets the output size and widens or narrows the view window so pixels
// stay square.
func (s *Scene) Fit(width, height int) {
	s.View.ScreenX = width
	s.View.ScreenY = height
	s.View.DV = s.View.DU * float64(height) / float64(width)
}

type sceneBuilder struct {
	about string
	build func(modelPath string) (*Scene, error)
}

var scenes = map[string]sceneBuilder{
	"cubes":  {"two crossed cuboids lit from the eye", func(string) (*Scene, error) { return cubesScene(), nil }},
	"shapes": {"cylinder, cone, sphere and cube", func(string) (*Scene, error) { return shapesScene(), nil }},
	"bezier": {"a shaded Bezier patch with its boundary curves", func(string) (*Scene, error) { return bezierScene(), nil }},
	"model":  {"a glTF/GLB model given with --model", modelScene},
}

func sceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func buildScene(name, modelPath string) (*Scene, error) {
	b, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (want one of %s)", name, strings.Join(sceneNames(), ", "))
	}
	return b.build(modelPath)
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sceneNames() {
				cmd.Printf("%-8s %s\n", name, scenes[name].about)
			}
		},
	}
}

func gouraudState() render.DrawState {
	ds := render.NewDrawState()
	ds.Shade = render.ShadeGouraud
	return ds
}

func solidColor(m *scene.Module, body render.Color) {
	m.Color(body)
	m.BodyColor(body)
	m.SurfaceColor(dkGrey)
}

// cubesScene is a vertical and a horizontal cuboid seen from above and to
// the side.
func cubesScene() *Scene {
	root := scene.New("cubes")

	vertical := scene.New("vertical")
	vertical.Scale(1, 5.5, 1)
	solidColor(vertical, white)
	vertical.Cube(true)
	root.AddModule(vertical)

	horizontal := scene.New("horizontal")
	horizontal.Scale(6.5, 1, 1)
	horizontal.Translate(-3.75, -2.2, 0)
	solidColor(horizontal, white)
	horizontal.Cube(true)
	root.AddModule(horizontal)

	return &Scene{
		Name: "cubes",
		Root: root,
		View: math3d.View3D{
			VRP: math3d.P3(10.05, 10.75, -14.9),
			VPN: math3d.V3(-10.05, -10.75, 14.9),
			VUP: math3d.V3(0, 1, 0),
			D:   2, DU: 1.6, DV: 0.9,
			B:       30,
			ScreenX: 800, ScreenY: 450,
		},
		State: gouraudState(),
	}
}

func shapesScene() *Scene {
	root := scene.New("shapes")

	place := func(name string, body render.Color, sx, sy, sz, tx, ty, tz float64, add func(m *scene.Module)) {
		m := scene.New(name)
		m.Scale(sx, sy, sz)
		m.Translate(tx, ty, tz)
		solidColor(m, body)
		m.SurfaceCoeff(8)
		add(m)
		root.AddModule(m)
	}
	place("cylinder", render.ColorGreen, 1, 2, 1, -3, 0, 0, func(m *scene.Module) { m.Cylinder(20) })
	place("cone", render.ColorRed, 1, 2, 1, 0, 0, 0, func(m *scene.Module) { m.Cone(20) })
	place("sphere", render.ColorBlue, 1.5, 1.5, 1.5, 3, 0, 0, func(m *scene.Module) { m.Sphere(15, 15) })
	place("cube", render.ColorGreen, 1, 1, 1, 0, 2.5, 0, func(m *scene.Module) { m.Cube(true) })

	return &Scene{
		Name: "shapes",
		Root: root,
		View: math3d.View3D{
			VRP: math3d.P3(5, 5, -7),
			VPN: math3d.V3(-5, -5, 7),
			VUP: math3d.V3(0, 1, 0),
			D:   2, DU: 1.6, DV: 0.9,
			B:       15,
			ScreenX: 640, ScreenY: 360,
		},
		Target: math3d.V3(0, 1, 0),
		State:  gouraudState(),
		Lights: []lighting.Light{
			lighting.Ambient(render.RGB(0.15, 0.15, 0.15)),
			lighting.Spot(render.RGB(0.6, 0.6, 0.5), math3d.P3(0, 8, 0), math3d.V3(0, -1, 0), math.Pi/6, 4),
		},
	}
}

// wave holds the control point heights of the Bezier scene's patch.
var wave = [4][4]float64{
	{0, 0.5, 0.5, 0},
	{0.5, 1.5, 1.5, 0.5},
	{0, -1, -1, 0},
	{0, 0.5, 0.5, 0},
}

func bezierScene() *Scene {
	var p [16]math3d.Vec4
	for i := range 4 {
		for j := range 4 {
			p[i*4+j] = math3d.P3(-2+4*float64(i)/3, wave[i][j], -2+4*float64(j)/3)
		}
	}
	patch := bezier.NewSurface(p)

	root := scene.New("bezier")
	root.BodyColor(render.RGB(0.9, 0.6, 0.2))
	root.SurfaceColor(render.RGB(0.4, 0.4, 0.4))
	root.SurfaceCoeff(20)
	root.BezierSurface(patch, 3, true)

	// Boundary curves float just above the patch.
	edges := scene.New("edges")
	edges.Translate(0, 0.05, 0)
	edges.Color(render.ColorYellow)
	for _, c := range []bezier.Curve{patch.Row(0), patch.Row(3), patch.Column(0), patch.Column(3)} {
		edges.BezierCurve(c, 4)
	}
	root.AddModule(edges)

	return &Scene{
		Name: "bezier",
		Root: root,
		View: math3d.View3D{
			VRP: math3d.P3(0, 4, -6),
			VPN: math3d.V3(0, -4, 6),
			VUP: math3d.V3(0, 1, 0),
			D:   2, DU: 1.6, DV: 0.9,
			B:       20,
			ScreenX: 640, ScreenY: 360,
		},
		State: gouraudState(),
		Lights: []lighting.Light{
			lighting.Ambient(render.RGB(0.1, 0.1, 0.1)),
			lighting.Direct(render.RGB(0.5, 0.5, 0.5), math3d.V3(1, 2, -1)),
		},
	}
}

// modelScene shows a glTF model scaled to about two units, turned to face
// the camera.
func modelScene(path string) (*Scene, error) {
	if path == "" {
		return nil, errNoModel
	}
	mod, err := models.LoadModule(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	root := scene.New("model")
	root.SurfaceColor(render.RGB(0.5, 0.5, 0.5))
	root.SurfaceCoeff(16)
	root.Scale(2, 2, 2)
	root.RotateY(math.Pi)
	root.AddModule(mod)

	return &Scene{
		Name: "model",
		Root: root,
		View: math3d.View3D{
			VRP: math3d.P3(0, 0, -5),
			VPN: math3d.V3(0, 0, 1),
			VUP: math3d.V3(0, 1, 0),
			D:   2, DU: 1, DV: 1,
			B:       100,
			ScreenX: 500, ScreenY: 500,
		},
		State:  gouraudState(),
		Lights: []lighting.Light{lighting.Ambient(render.RGB(0.2, 0.2, 0.2))},
	}, nil
}

// Command meshview opens a window that previews the shapes of a recipe, or
// the meshes of an OBJ/glTF file, spinning about the vertical axis.
//
// Keys: Left/Right switch shape, Space pauses, Z toggles wireframe,
// N cycles lit/normal/UV shading, Up/Down tilt the camera, Esc or Q quits.
// Scroll zooms.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mesh-generator/core"
	"mesh-generator/gpu"
	"mesh-generator/internal/config"
	"mesh-generator/internal/logger"
	"mesh-generator/internal/opengl"
	"mesh-generator/internal/recipe"
	meshio "mesh-generator/io"
	"mesh-generator/math"
	"mesh-generator/mesh"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	shape := flag.String("shape", "", "Name of the recipe shape to show first")
	file := flag.String("file", "", "Preview an .obj, .gltf or .glb file instead of the recipe")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	meshes, err := loadMeshes(cfg, *file)
	if err != nil {
		logger.Fatal("failed to load meshes", zap.Error(err))
	}

	start := 0
	if *shape != "" {
		start = -1
		for i, m := range meshes {
			if m.Name == *shape {
				start = i
			}
		}
		if start < 0 {
			logger.Fatal("no such shape", zap.String("shape", *shape))
		}
	}

	if err := run(meshes, start); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func loadMeshes(cfg *config.Config, file string) ([]mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case "":
		return recipe.BuildAll(context.Background(), cfg.Shapes, cfg.Output.Workers)
	case ".obj":
		return meshio.LoadOBJ(file)
	case ".gltf", ".glb":
		return meshio.LoadGLTF(file)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(file))
	}
}

// viewer holds the per-window preview state.
type viewer struct {
	window   *core.Window
	renderer *opengl.Renderer
	meshes   []mesh.Mesh

	index   int
	current *opengl.GPUMesh
	camera  orbit

	angle  float32
	paused bool
	mode   opengl.ShadeMode
}

func run(meshes []mesh.Mesh, start int) error {
	wc := core.DefaultWindowConfig()
	window, err := core.NewWindow(wc)
	if err != nil {
		return err
	}
	defer window.Destroy()

	r, err := opengl.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Destroy()
	logger.Info("OpenGL ready", zap.String("version", r.Version()))

	v := &viewer{window: window, renderer: r, meshes: meshes}
	if err := v.show(start); err != nil {
		return err
	}
	defer func() { v.current.Delete() }()

	window.SetScrollCallback(func(_, yoff float64) {
		v.camera.zoom(yoff)
	})

	keys := newKeyEdges(window)
	last := window.Time()
	for !window.ShouldClose() {
		window.PollEvents()
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(core.KeyEscape) || window.IsKeyPressed(core.KeyQ) {
			break
		}
		if keys.pressed(core.KeySpace) {
			v.paused = !v.paused
		}
		if keys.pressed(core.KeyZ) {
			r.SetWireframe(!r.IsWireframe())
		}
		if keys.pressed(core.KeyN) {
			v.mode = (v.mode + 1) % 3
		}
		if keys.pressed(core.KeyRight) {
			if err := v.show(v.index + 1); err != nil {
				return err
			}
		}
		if keys.pressed(core.KeyLeft) {
			if err := v.show(v.index - 1); err != nil {
				return err
			}
		}

		if window.IsKeyPressed(core.KeyUp) {
			v.camera.tilt(dt)
		}
		if window.IsKeyPressed(core.KeyDown) {
			v.camera.tilt(-dt)
		}

		if !v.paused {
			v.angle += dt * 0.8
		}
		v.draw()
		window.SwapBuffers()
	}
	return nil
}

// show uploads mesh i (wrapping around) and frames the camera on it.
func (v *viewer) show(i int) error {
	n := len(v.meshes)
	i = ((i % n) + n) % n
	m := v.meshes[i]

	b, err := gpu.Pack(m)
	if err != nil {
		return fmt.Errorf("shape %q: %w", m.Name, err)
	}
	uploaded, err := opengl.Upload(b)
	if err != nil {
		return fmt.Errorf("shape %q: %w", m.Name, err)
	}

	if v.current != nil {
		v.current.Delete()
	}
	v.current = uploaded
	v.index = i
	v.camera = frame(b.Bounds)

	v.window.SetTitle(fmt.Sprintf("meshview | %s | %d verts, %d tris, %s indices",
		m.Name, m.VertexCount(), m.TriangleCount(), b.Format))
	logger.Debug("showing shape",
		zap.String("shape", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Stringer("indexFormat", b.Format),
	)
	return nil
}

var lightDir = math.Vec3{X: -0.4, Y: -1, Z: -0.6}.Normalize()

func (v *viewer) draw() {
	w, h := v.window.GetFramebufferSize()
	if w == 0 || h == 0 {
		return
	}
	v.renderer.SetViewport(w, h)

	model, view, proj := v.camera.matrices(v.angle, float32(w)/float32(h))
	mvp := model.Mul(view).Mul(proj)

	v.renderer.BeginFrame(core.ColorSlate, lightDir, v.mode)
	v.renderer.DrawMesh(v.current, mvp, model, core.ColorClay)
}

// keyEdges reports key presses once per press rather than once per frame.
type keyEdges struct {
	window *core.Window
	down   map[int]bool
}

func newKeyEdges(w *core.Window) *keyEdges {
	return &keyEdges{window: w, down: make(map[int]bool)}
}

func (k *keyEdges) pressed(key int) bool {
	isDown := k.window.IsKeyPressed(key)
	was := k.down[key]
	k.down[key] = isDown
	return isDown && !was
}

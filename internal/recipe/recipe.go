// Package recipe turns configured shape descriptions into meshes.
package recipe

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mesh-generator/internal/config"
	"mesh-generator/internal/logger"
	"mesh-generator/math"
	"mesh-generator/mesh"
)

// Build runs the generator named by s.Kind. The mesh takes s.Name when one
// is given and keeps the generator's default name otherwise.
func Build(s config.ShapeConfig) (mesh.Mesh, error) {
	var (
		m   mesh.Mesh
		err error
	)

	switch s.Kind {
	case config.KindBox:
		m = mesh.Box(math.Vec3{X: s.Size[0], Y: s.Size[1], Z: s.Size[2]})
	case config.KindSphere:
		m, err = mesh.Sphere(s.Radius, s.LatSegments, s.LonSegments)
	case config.KindCylinder:
		m, err = mesh.Cylinder(s.Radius, s.Height, s.RadialSegments, s.HeightSegments, s.IsCapped())
	case config.KindLathe:
		m, err = mesh.Lathe(toVec2s(s.Profile), s.Segments)
	case config.KindExtrude:
		m, err = mesh.Extrude(toVec2s(s.Polygon), s.Height, s.IsCapped())
	default:
		return mesh.Mesh{}, fmt.Errorf("unknown shape kind %q: %w", s.Kind, config.ErrInvalidConfig)
	}
	if err != nil {
		return mesh.Mesh{}, err
	}

	if s.Name != "" {
		m.Name = s.Name
	}
	return m, nil
}

// BuildAll builds every shape with at most workers builds in flight (one
// per CPU when workers <= 0). Results keep the order of shapes; unnamed
// shapes are named by ShapeConfig.Label. The first failure cancels the
// remaining builds and is returned.
func BuildAll(ctx context.Context, shapes []config.ShapeConfig, workers int) ([]mesh.Mesh, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := logger.Named("recipe")

	results := make([]mesh.Mesh, len(shapes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range shapes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			label := s.Label(i)
			start := time.Now()
			m, err := Build(s)
			if err != nil {
				return fmt.Errorf("shape %q: %w", label, err)
			}
			if s.Name == "" {
				m.Name = label
			}
			results[i] = m

			log.Debug("built shape",
				zap.String("shape", label),
				zap.String("kind", s.Kind),
				zap.Int("vertices", m.VertexCount()),
				zap.Int("triangles", m.TriangleCount()),
				zap.Duration("took", time.Since(start)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func toVec2s(points [][2]float32) []math.Vec2 {
	out := make([]math.Vec2, len(points))
	for i, p := range points {
		out[i] = math.Vec2{X: p[0], Y: p[1]}
	}
	return out
}

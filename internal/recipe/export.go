package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mesh-generator/internal/config"
	"mesh-generator/internal/logger"
	meshio "mesh-generator/io"
	"mesh-generator/mesh"
)

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"

// combinedName is the base name of files holding every shape.
const combinedName = "meshes"

// Run builds every shape in cfg and exports the results. It returns the
// manifest describing what was written.
func Run(ctx context.Context, cfg *config.Config) (*meshio.Manifest, error) {
	start := time.Now()
	meshes, err := BuildAll(ctx, cfg.Shapes, cfg.Output.Workers)
	if err != nil {
		return nil, err
	}

	files, err := Export(cfg.Output, meshes)
	if err != nil {
		return nil, err
	}

	mf := meshio.NewManifest(filepath.Base(cfg.Output.Dir))
	for i, m := range meshes {
		mf.AddMesh(cfg.Shapes[i].Kind, m)
	}
	mf.Files = files

	if cfg.Output.Manifest {
		path := filepath.Join(cfg.Output.Dir, ManifestFile)
		if err := meshio.SaveManifest(path, mf); err != nil {
			return nil, err
		}
	}

	logger.Info("export complete",
		zap.Int("shapes", len(meshes)),
		zap.Int("files", len(files)),
		zap.String("dir", cfg.Output.Dir),
		zap.Duration("took", time.Since(start)),
	)
	return mf, nil
}

// Export writes meshes into out.Dir in every configured format, either as
// one file per mesh named after it or, when out.Combined is set, as a
// single "meshes.<format>" file per format. It returns the written paths
// relative to out.Dir.
func Export(out config.OutputConfig, meshes []mesh.Mesh) ([]string, error) {
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	for _, format := range out.Formats {
		if out.Combined {
			name := combinedName + "." + format
			if err := exportFile(filepath.Join(out.Dir, name), format, meshes...); err != nil {
				return nil, err
			}
			files = append(files, name)
			continue
		}

		for _, m := range meshes {
			name := m.Name + "." + format
			if err := exportFile(filepath.Join(out.Dir, name), format, m); err != nil {
				return nil, err
			}
			files = append(files, name)
		}
	}
	return files, nil
}

func exportFile(path, format string, meshes ...mesh.Mesh) error {
	var err error
	switch format {
	case config.FormatOBJ:
		err = meshio.ExportOBJ(path, meshes...)
	case config.FormatGLTF:
		err = meshio.ExportGLTF(path, false, meshes...)
	case config.FormatGLB:
		err = meshio.ExportGLTF(path, true, meshes...)
	case config.FormatSTL:
		err = meshio.ExportSTL(path, meshes...)
	default:
		err = fmt.Errorf("unknown export format %q: %w", format, config.ErrInvalidConfig)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", filepath.Base(path), err)
	}

	logger.Debug("wrote file", zap.String("path", path), zap.Int("meshes", len(meshes)))
	return nil
}

// Package release assembles a target's build output into a distributable
// binary or developer release layout.
package release

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/adapters/tools"
	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure Packager implements usecases.Packager.
var _ usecases.Packager = (*Packager)(nil)

// Packager implements usecases.Packager by copying each reachable project's
// linked artifact (and, for a dev release, its published headers and any
// static/shared import libraries) into OutputDir/Release/<target>.
type Packager struct{}

// NewPackager returns a Packager.
func NewPackager() *Packager {
	return &Packager{}
}

// PackageRelease implements usecases.Packager.
func (p *Packager) PackageRelease(ctx context.Context, projects *entities.ProjectList, target, outDir string, dev bool) error {
	start := target
	if start == "" {
		start = entities.RootName
	}

	var names []string
	if _, err := projects.Graph().Iterate(start, entities.BottomUp|entities.Minimal, func(name string, depth int) bool {
		names = append(names, name)
		return true
	}); err != nil {
		return err
	}

	releaseDir := filepath.Join(outDir, "Release", target)
	binDir := filepath.Join(releaseDir, "Bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating release bin directory")
	}

	args := &entities.Args{OutputDir: outDir}
	for _, name := range names {
		if name == entities.RootName {
			continue
		}
		proj, ok := projects.Get(name)
		if !ok {
			return entities.New(entities.KindNotFound, "project %q not found", name)
		}
		if proj.Type == entities.TypeGroup || proj.Type == entities.TypeFileCopy {
			continue
		}

		binPath := tools.BinaryPathFor(args, proj)
		dst := filepath.Join(binDir, filepath.Base(binPath))
		if err := copyFile(binPath, dst); err != nil {
			return entities.Wrap(entities.KindCopyFailed, err, "packaging %s", proj.Name)
		}

		if dev && (proj.Type == entities.TypeStaticLib || proj.Type == entities.TypeSharedLib || proj.Type == entities.TypeSharedObj) {
			libDir := filepath.Join(releaseDir, "Lib")
			if err := os.MkdirAll(libDir, 0o755); err != nil {
				return entities.Wrap(entities.KindCreateError, err, "creating release lib directory")
			}
			if err := copyFile(binPath, filepath.Join(libDir, filepath.Base(binPath))); err != nil {
				return entities.Wrap(entities.KindCopyFailed, err, "packaging import library for %s", proj.Name)
			}
		}
	}

	if dev {
		if err := copyTree(filepath.Join(outDir, "Inc"), filepath.Join(releaseDir, "Inc")); err != nil {
			return entities.Wrap(entities.KindCopyFailed, err, "packaging headers")
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// copyTree recursively copies every regular file under src to dst,
// preserving the relative directory structure. A missing src is not an
// error: some output trees (e.g. a headers-free project set) never create
// one.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
}

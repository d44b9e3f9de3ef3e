package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure ProjectScanner implements usecases.SourceScanner.
var _ usecases.SourceScanner = (*ProjectScanner)(nil)

// ProjectScanner rescans a project's own directory (non-recursive: spec §3
// "a project's source files are the .Cpp/.Hpp files directly in its
// directory") and repopulates its tracked file lists.
type ProjectScanner struct{}

// NewProjectScanner returns a SourceScanner backed by a plain directory read.
func NewProjectScanner() *ProjectScanner {
	return &ProjectScanner{}
}

// ScanProject implements usecases.SourceScanner. srcDir is the project's own
// already-resolved source directory (callers join it from RootDir and
// project.Directory themselves, since they need that same joined path for
// other passes too), not a parent to join project.Directory onto.
func (s *ProjectScanner) ScanProject(ctx context.Context, project *entities.Project, srcDir string) error {
	dir := srcDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		return entities.Wrap(entities.KindNotFound, err, "scanning project directory %s", dir)
	}

	var cppFiles, hppFiles []entities.SourceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return entities.Wrap(entities.KindNotFound, err, "reading file info for %s", entry.Name())
		}
		sf := entities.SourceFile{
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".cpp":
			cppFiles = append(cppFiles, sf)
		case ".hpp":
			hppFiles = append(hppFiles, sf)
		}
	}

	project.CppFiles = cppFiles
	project.HppFiles = hppFiles
	return nil
}

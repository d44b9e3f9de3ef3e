package usecases

import (
	"context"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// MakeRes compiles message and resource sources for every project
// reachable from args.Target, standalone from a full Build (spec §4.7
// action `MakeRes`, §4.6).
type MakeRes struct {
	loader    ProjectLoader
	resources ResourceCompiler
	progress  ProgressReporter
}

// NewMakeRes creates a new MakeRes use case.
func NewMakeRes(loader ProjectLoader, resources ResourceCompiler, progress ProgressReporter) *MakeRes {
	return &MakeRes{loader: loader, resources: resources, progress: progress}
}

// Execute parses projectFilePath and compiles resources for every project
// reachable from args.Target.
func (uc *MakeRes) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
	pl, err := uc.loader.LoadProjectList(ctx, projectFilePath, args)
	if err != nil {
		return err
	}

	names, err := resolveTargets(pl, args.Target, args.NoRecurse)
	if err != nil {
		return err
	}
	projects, err := resolveProjects(pl, names)
	if err != nil {
		return err
	}

	for i, p := range projects {
		uc.progress.ReportProgress("resources", i+1, len(projects), p.Name)
		srcDir := filepath.Join(args.RootDir, p.Directory)
		if _, err := compileProjectResources(ctx, uc.resources, p, srcDir, args.OutputDir); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	uc.progress.ReportSuccess("resources compiled")
	return nil
}

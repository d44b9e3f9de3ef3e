package usecases

import (
	"context"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// IDLGen generates client/server glue sources from every IDL entry
// declared by projects reachable from args.Target, standalone from a full
// Build (spec §4.7 action `IDLGen`, dispatch bullet 2).
type IDLGen struct {
	loader   ProjectLoader
	tools    ToolsDriver
	progress ProgressReporter
}

// NewIDLGen creates a new IDLGen use case.
func NewIDLGen(loader ProjectLoader, tools ToolsDriver, progress ProgressReporter) *IDLGen {
	return &IDLGen{loader: loader, tools: tools, progress: progress}
}

// Execute parses projectFilePath and runs IDL generation for every project
// reachable from args.Target.
func (uc *IDLGen) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
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
		uc.progress.ReportProgress("idlgen", i+1, len(projects), p.Name)
		if err := runIDLForProject(ctx, uc.tools, p, args); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	uc.progress.ReportSuccess("IDL generation complete")
	return nil
}

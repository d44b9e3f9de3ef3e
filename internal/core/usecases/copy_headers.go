package usecases

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// CopyHeaders publishes the public headers of every project reachable from
// args.Target into the shared output include tree, without running any of
// Build's other passes (spec §4.7 action `CopyHeaders`).
type CopyHeaders struct {
	loader   ProjectLoader
	headers  HeaderCopier
	progress ProgressReporter
}

// NewCopyHeaders creates a new CopyHeaders use case.
func NewCopyHeaders(loader ProjectLoader, headers HeaderCopier, progress ProgressReporter) *CopyHeaders {
	return &CopyHeaders{loader: loader, headers: headers, progress: progress}
}

// Execute parses projectFilePath and copies headers for every project
// reachable from args.Target.
func (uc *CopyHeaders) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
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

	total := 0
	outDir := filepath.Join(args.OutputDir, "Inc")
	for i, p := range projects {
		uc.progress.ReportProgress("headers", i+1, len(projects), p.Name)
		srcDir := filepath.Join(args.RootDir, p.Directory)
		copied, err := uc.headers.CopyHeaders(ctx, p, srcDir, outDir, args.Force)
		if err != nil {
			uc.progress.ReportError(err)
			return err
		}
		total += copied
	}

	uc.progress.ReportSuccess(fmt.Sprintf("%d headers copied", total))
	return nil
}

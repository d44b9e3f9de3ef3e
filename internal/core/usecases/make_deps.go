package usecases

import (
	"context"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// MakeDeps runs the same pre-passes as Build (resources, IDL, file-list
// refresh, header copy, file copies) but dispatches to the dependency
// analyser instead of the compiler/linker, writing a fresh .Depend file
// per project (spec §4.7 bullets 1-5, dispatch step for MakeDeps).
type MakeDeps struct {
	loader    ProjectLoader
	resources ResourceCompiler
	scanner   SourceScanner
	headers   HeaderCopier
	tools     ToolsDriver
	depend    DependAnalyser
	progress  ProgressReporter
}

// NewMakeDeps creates a new MakeDeps use case with the given port adapters.
func NewMakeDeps(
	loader ProjectLoader,
	resources ResourceCompiler,
	scanner SourceScanner,
	headers HeaderCopier,
	tools ToolsDriver,
	depend DependAnalyser,
	progress ProgressReporter,
) *MakeDeps {
	return &MakeDeps{
		loader:    loader,
		resources: resources,
		scanner:   scanner,
		headers:   headers,
		tools:     tools,
		depend:    depend,
		progress:  progress,
	}
}

// Execute parses projectFilePath and regenerates the .Depend file for
// every project reachable from args.Target.
func (uc *MakeDeps) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
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

	srcRoot := args.RootDir
	outDir := args.OutputDir
	includeDirs := append([]string{filepath.Join(outDir, "Inc")}, pl.ExtIncludePaths...)

	for i, p := range projects {
		srcDir := filepath.Join(srcRoot, p.Directory)

		uc.progress.ReportProgress("resources", i+1, len(projects), p.Name)
		if _, err := compileProjectResources(ctx, uc.resources, p, srcDir, outDir); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		uc.progress.ReportProgress("idlgen", i+1, len(projects), p.Name)
		if err := runIDLForProject(ctx, uc.tools, p, args); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		uc.progress.ReportProgress("scan", i+1, len(projects), p.Name)
		if err := uc.scanner.ScanProject(ctx, p, srcDir); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		uc.progress.ReportProgress("headers", i+1, len(projects), p.Name)
		if _, err := uc.headers.CopyHeaders(ctx, p, srcDir, filepath.Join(outDir, "Inc"), args.Force); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		uc.progress.ReportProgress("filecopies", i+1, len(projects), p.Name)
		if err := runFileCopies(p, srcDir, args.Force); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		uc.progress.ReportProgress("depend", i+1, len(projects), p.Name)
		projIncludeDirs := append(append([]string(nil), includeDirs...), srcDir)
		dependPath := filepath.Join(outDir, "Depends", p.Name+".Depend")
		if err := uc.depend.WriteDependFile(ctx, p, projIncludeDirs, dependPath); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	uc.progress.ReportSuccess("dependency files regenerated")
	return nil
}

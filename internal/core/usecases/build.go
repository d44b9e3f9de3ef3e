package usecases

import (
	"context"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// Build orchestrates a full build of one target and everything it depends
// on, in the order spec §4.7's action dispatch lists: resources, IDL
// generation, file-list refresh, header copy, file copies, then the
// compile/link pass itself, bottom-up.
type Build struct {
	loader       ProjectLoader
	resources    ResourceCompiler
	scanner      SourceScanner
	headers      HeaderCopier
	depend       DependAnalyser
	tools        ToolsDriver
	progress     ProgressReporter
	dependDirOut string
}

// NewBuild creates a new Build use case with the given port adapters.
func NewBuild(
	loader ProjectLoader,
	resources ResourceCompiler,
	scanner SourceScanner,
	headers HeaderCopier,
	depend DependAnalyser,
	tools ToolsDriver,
	progress ProgressReporter,
) *Build {
	return &Build{
		loader:    loader,
		resources: resources,
		scanner:   scanner,
		headers:   headers,
		depend:    depend,
		tools:     tools,
		progress:  progress,
	}
}

// Execute parses projectFilePath, resolves args.Target, and runs the full
// build pipeline over the reachable project set.
func (uc *Build) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
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
	if len(projects) == 0 {
		uc.progress.ReportInfo("nothing to build")
		return nil
	}

	srcRoot := args.RootDir
	outDir := args.OutputDir

	for i, p := range projects {
		uc.progress.ReportProgress("resources", i+1, len(projects), p.Name)
		srcDir := filepath.Join(srcRoot, p.Directory)
		if _, err := compileProjectResources(ctx, uc.resources, p, srcDir, outDir); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	for i, p := range projects {
		uc.progress.ReportProgress("idlgen", i+1, len(projects), p.Name)
		if err := runIDLForProject(ctx, uc.tools, p, args); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	for i, p := range projects {
		uc.progress.ReportProgress("scan", i+1, len(projects), p.Name)
		srcDir := filepath.Join(srcRoot, p.Directory)
		if err := uc.scanner.ScanProject(ctx, p, srcDir); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	for i, p := range projects {
		uc.progress.ReportProgress("headers", i+1, len(projects), p.Name)
		srcDir := filepath.Join(srcRoot, p.Directory)
		if _, err := uc.headers.CopyHeaders(ctx, p, srcDir, filepath.Join(outDir, "Inc"), args.Force); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	for i, p := range projects {
		uc.progress.ReportProgress("filecopies", i+1, len(projects), p.Name)
		srcDir := filepath.Join(srcRoot, p.Directory)
		if err := runFileCopies(p, srcDir, args.Force); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	includeDirs := append([]string{filepath.Join(outDir, "Inc")}, pl.ExtIncludePaths...)
	for i, p := range projects {
		uc.progress.ReportProgress("build", i+1, len(projects), p.Name)
		srcDir := filepath.Join(srcRoot, p.Directory)

		var objects []string
		for _, cpp := range p.SortedCppFiles() {
			srcFile := filepath.Join(srcDir, cpp.Name)
			if err := uc.tools.Compile(ctx, p, srcFile, args); err != nil {
				uc.progress.ReportError(err)
				return err
			}
			objects = append(objects, srcFile)
		}
		if p.Type == entities.TypeGroup {
			continue // a Group produces no binary of its own
		}
		if err := uc.tools.Link(ctx, p, objects, args); err != nil {
			uc.progress.ReportError(err)
			return err
		}

		projIncludeDirs := append(append([]string(nil), includeDirs...), srcDir)
		dependPath := filepath.Join(outDir, "Depends", p.Name+".Depend")
		if err := uc.depend.WriteDependFile(ctx, p, projIncludeDirs, dependPath); err != nil {
			uc.progress.ReportError(err)
			return err
		}
	}

	uc.progress.ReportSuccess("build complete")
	return nil
}

package usecases

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// idlCompilerProject is the well-known name of the IDL-compiler project a
// Bootstrap build primes first, grounded on the original driver's
// Bootstrap() sequence (`MakeResources(L"CIDIDL")`, `CopyHeaders(L"CIDIDL")`,
// `MakeDepends(L"CIDIDL")`, `Build(L"CIDIDL")`).
const idlCompilerProject = "CIDIDL"

// Bootstrap runs the three-pass sequence the original driver uses on a
// clean output tree (spec §4.7 "Bootstrap"):
//
//  1. create output directories and build just the IDL-compiler project;
//  2. reset the project list and reparse;
//  3. generate IDL sources for all projects, rerun resource compilation,
//     re-refresh file lists, redo headers and dependencies, then full build.
type Bootstrap struct {
	loader    ProjectLoader
	resources ResourceCompiler
	scanner   SourceScanner
	headers   HeaderCopier
	depend    DependAnalyser
	tools     ToolsDriver
	build     *Build
	progress  ProgressReporter
}

// NewBootstrap creates a new Bootstrap use case with the given port
// adapters and the already-constructed Build use case it delegates its
// final full-build pass to.
func NewBootstrap(
	loader ProjectLoader,
	resources ResourceCompiler,
	scanner SourceScanner,
	headers HeaderCopier,
	depend DependAnalyser,
	tools ToolsDriver,
	build *Build,
	progress ProgressReporter,
) *Bootstrap {
	return &Bootstrap{
		loader:    loader,
		resources: resources,
		scanner:   scanner,
		headers:   headers,
		depend:    depend,
		tools:     tools,
		build:     build,
		progress:  progress,
	}
}

// Execute runs the three-pass bootstrap sequence against projectFilePath.
func (uc *Bootstrap) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
	uc.progress.ReportInfo("bootstrap: pass 1 (IDL compiler)")
	if err := uc.makeTargetDirs(args.OutputDir); err != nil {
		return err
	}

	pl, err := uc.loader.LoadProjectList(ctx, projectFilePath, args)
	if err != nil {
		return err
	}

	idlProj, ok := pl.Get(idlCompilerProject)
	if !ok {
		return entities.New(entities.KindNotFound, "bootstrap requires project %q", idlCompilerProject)
	}

	idlSrcDir := filepath.Join(args.RootDir, idlProj.Directory)
	if _, err := compileProjectResources(ctx, uc.resources, idlProj, idlSrcDir, args.OutputDir); err != nil {
		return err
	}
	if err := uc.scanner.ScanProject(ctx, idlProj, idlSrcDir); err != nil {
		return err
	}
	if _, err := uc.headers.CopyHeaders(ctx, idlProj, idlSrcDir, filepath.Join(args.OutputDir, "Inc"), args.Force); err != nil {
		return err
	}
	includeDirs := []string{filepath.Join(args.OutputDir, "Inc"), idlSrcDir}
	dependPath := filepath.Join(args.OutputDir, "Depends", idlProj.Name+".Depend")
	if err := uc.depend.WriteDependFile(ctx, idlProj, includeDirs, dependPath); err != nil {
		return err
	}
	var objects []string
	for _, cpp := range idlProj.SortedCppFiles() {
		srcFile := filepath.Join(idlSrcDir, cpp.Name)
		if err := uc.tools.Compile(ctx, idlProj, srcFile, args); err != nil {
			return err
		}
		objects = append(objects, srcFile)
	}
	if err := uc.tools.Link(ctx, idlProj, objects, args); err != nil {
		return err
	}

	uc.progress.ReportInfo("bootstrap: pass 2 (reparse)")
	allArgs := *args
	allArgs.Target = entities.RootName
	pl, err = uc.loader.LoadProjectList(ctx, projectFilePath, &allArgs)
	if err != nil {
		return err
	}

	uc.progress.ReportInfo("bootstrap: pass 3 (full build)")
	names, err := buildOrder(pl, entities.RootName)
	if err != nil {
		return err
	}
	projects, err := resolveProjects(pl, names)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if err := runIDLForProject(ctx, uc.tools, p, &allArgs); err != nil {
			return err
		}
	}

	return uc.build.Execute(ctx, projectFilePath, &allArgs)
}

func (uc *Bootstrap) makeTargetDirs(outDir string) error {
	for _, sub := range []string{"Inc", "Bin", "Obj", "Depends"} {
		if err := os.MkdirAll(filepath.Join(outDir, sub), 0o755); err != nil {
			return entities.Wrap(entities.KindCreateError, err, "creating output directory %s", sub)
		}
	}
	return nil
}

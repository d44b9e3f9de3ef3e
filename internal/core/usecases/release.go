package usecases

import (
	"context"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// Release runs a full Build of args.Target's closure and then packages the
// result into a release layout, covering both `MakeBinRelease` (binaries
// and runtime assets only) and `MakeDevRelease` (also headers and import
// libraries) per spec §4.7.
//
// Args.Validate requires a Target for both release actions, and
// config.FinalizeArgs leaves it unchanged when /Lang is given. An empty
// Target is still accepted here and packages the synthetic "all" root, the
// same way resolveTargets treats an empty Target as "all".
type Release struct {
	build     *Build
	loader    ProjectLoader
	packager  Packager
	progress  ProgressReporter
	devLayout bool
}

// NewRelease creates a new Release use case. devLayout selects
// MakeDevRelease's headers-and-import-libraries layout over
// MakeBinRelease's binaries-only layout.
func NewRelease(build *Build, loader ProjectLoader, packager Packager, progress ProgressReporter, devLayout bool) *Release {
	return &Release{build: build, loader: loader, packager: packager, progress: progress, devLayout: devLayout}
}

// Execute builds projectFilePath's reachable set and assembles the release
// archive layout under args.OutputDir.
func (uc *Release) Execute(ctx context.Context, projectFilePath string, args *entities.Args) error {
	if err := uc.build.Execute(ctx, projectFilePath, args); err != nil {
		return err
	}

	pl, err := uc.loader.LoadProjectList(ctx, projectFilePath, args)
	if err != nil {
		return err
	}

	target := args.Target
	if target == "" {
		target = entities.RootName
	}

	uc.progress.ReportProgress("release", 1, 1, target)
	if err := uc.packager.PackageRelease(ctx, pl, target, args.OutputDir, uc.devLayout); err != nil {
		uc.progress.ReportError(err)
		return err
	}

	uc.progress.ReportSuccess("release packaged")
	return nil
}

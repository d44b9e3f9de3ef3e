package usecases

import (
	"context"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ProjectSettings is the resolved, display-ready view of one project's
// configuration that ShowProjSettings reports (spec §4.7 dispatch step:
// "ShowProjSettings dumps one project's resolved configuration").
// Rendering (the default human table, or the supplemental TOON encoding)
// is left to the caller.
type ProjectSettings struct {
	Name            string
	Directory       string
	Type            string
	Display         string
	Dependencies    []string
	ExtLibs         []string
	ExtIncludes     []string
	Defines         []entities.KV
	PlatformOptions []entities.KV
	IDLEntryCount   int
	CppFileCount    int
	HppFileCount    int
	HasMessageFile  bool
	HasResFile      bool
}

// ShowProjSettings resolves one named project's configuration, merging the
// wildcard and platform-specific PlatformOptions the way Project.Macro and
// Project.PlatformOptionsFor already do.
type ShowProjSettings struct {
	loader   ProjectLoader
	progress ProgressReporter
}

// NewShowProjSettings creates a new ShowProjSettings use case.
func NewShowProjSettings(loader ProjectLoader, progress ProgressReporter) *ShowProjSettings {
	return &ShowProjSettings{loader: loader, progress: progress}
}

// Execute parses projectFilePath and returns the resolved settings for
// args.Target, which Args.Validate already requires to be non-empty.
func (uc *ShowProjSettings) Execute(ctx context.Context, projectFilePath, platform string, args *entities.Args) (*ProjectSettings, error) {
	pl, err := uc.loader.LoadProjectList(ctx, projectFilePath, args)
	if err != nil {
		return nil, err
	}

	p, ok := pl.Get(args.Target)
	if !ok {
		err := entities.New(entities.KindNotFound, "project %q not found", args.Target)
		uc.progress.ReportError(err)
		return nil, err
	}

	settings := &ProjectSettings{
		Name:            p.Name,
		Directory:       p.Directory,
		Type:            string(p.Type),
		Display:         string(p.Display),
		Dependencies:    p.Dependencies,
		ExtLibs:         p.ExtLibs,
		ExtIncludes:     p.ExtIncludes,
		Defines:         p.Defines,
		PlatformOptions: p.PlatformOptionsFor(platform),
		IDLEntryCount:   len(p.IDLEntries),
		CppFileCount:    len(p.CppFiles),
		HppFileCount:    len(p.HppFiles),
		HasMessageFile:  p.Flags.HasMessageFile,
		HasResFile:      p.Flags.HasResFile,
	}
	uc.progress.ReportSuccess("resolved settings for " + p.Name)
	return settings, nil
}

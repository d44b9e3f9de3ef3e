package usecases

import (
	"context"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ShowProjDeps renders a target's dependency tree top-down, each project
// visited as many times as it is depended on (non-minimal traversal),
// matching spec §4.7 dispatch step: "ShowProjDeps walks top-down in
// non-minimal mode dumping the tree".
type ShowProjDeps struct {
	loader   ProjectLoader
	progress ProgressReporter
}

// NewShowProjDeps creates a new ShowProjDeps use case.
func NewShowProjDeps(loader ProjectLoader, progress ProgressReporter) *ShowProjDeps {
	return &ShowProjDeps{loader: loader, progress: progress}
}

// Execute parses projectFilePath and returns the indented dependency tree
// text for args.Target (or every project, starting from the synthetic
// root, if no target was given).
func (uc *ShowProjDeps) Execute(ctx context.Context, projectFilePath string, args *entities.Args) (string, error) {
	pl, err := uc.loader.LoadProjectList(ctx, projectFilePath, args)
	if err != nil {
		return "", err
	}

	start := args.Target
	if start == "" {
		start = entities.RootName
	}

	var b strings.Builder
	_, err = pl.Graph().Iterate(start, entities.TopDown, func(name string, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(name)
		b.WriteString("\n")
		return true
	})
	if err != nil {
		uc.progress.ReportError(err)
		return "", err
	}

	tree := b.String()
	uc.progress.ReportInfo(tree)
	return tree, nil
}

package usecases

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// resolveTargets expands a /Target value into the ordered set of project
// names the action dispatch loop processes, per spec §4.7's "for each
// target (groups in /NoRecurse mode expand to their declared dependencies)".
//
// An empty or "all" target walks every project bottom-up from the
// synthetic root. A Group target under /NoRecurse is expanded to its own
// declared dependencies in declaration order, rather than the full
// transitive closure, so a single level of grouping can be processed
// without recursing into each dependency's own dependents.
func resolveTargets(pl *entities.ProjectList, target string, noRecurse bool) ([]string, error) {
	if target == "" || strings.EqualFold(target, entities.RootName) {
		return buildOrder(pl, entities.RootName)
	}
	proj, ok := pl.Get(target)
	if !ok {
		return nil, entities.New(entities.KindNotFound, "target project %q not found", target)
	}
	if proj.Type == entities.TypeGroup && noRecurse {
		return append([]string(nil), proj.Dependencies...), nil
	}
	return buildOrder(pl, target)
}

// buildOrder returns every project reachable from start, dependencies
// before dependents, visited at most once (spec §5 "strictly deterministic
// ... Project iteration follows the declared dependency order").
func buildOrder(pl *entities.ProjectList, start string) ([]string, error) {
	var names []string
	_, err := pl.Graph().Iterate(start, entities.BottomUp|entities.Minimal, func(name string, depth int) bool {
		names = append(names, name)
		return true
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// resolveProjects maps a name list (as returned by resolveTargets) back to
// their *entities.Project values, skipping the synthetic root if present.
func resolveProjects(pl *entities.ProjectList, names []string) ([]*entities.Project, error) {
	out := make([]*entities.Project, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(name, entities.RootName) {
			continue
		}
		p, ok := pl.Get(name)
		if !ok {
			return nil, entities.New(entities.KindNotFound, "project %q not found", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// compileProjectResources runs the resource compiler (spec §4.6) for one
// project in msgIDs-accumulating order: messages first (since a .CIDRC
// SYMBOL= entry may reuse a message's numeric id), then the dialog/menu
// resources themselves. A project with neither Flags.HasMessageFile nor
// Flags.HasResFile is a no-op.
func compileProjectResources(ctx context.Context, rc ResourceCompiler, project *entities.Project, srcDir, outDir string) (map[string]int, error) {
	var msgIDs map[string]int
	if project.Flags.HasMessageFile {
		ids, err := rc.CompileMessages(ctx, project, srcDir, outDir)
		if err != nil {
			return nil, entities.Wrap(entities.KindBuildError, err, "compiling messages for %q", project.Name)
		}
		msgIDs = ids
	}
	if project.Flags.HasResFile {
		if err := rc.CompileResources(ctx, project, srcDir, outDir, msgIDs); err != nil {
			return nil, entities.Wrap(entities.KindBuildError, err, "compiling resources for %q", project.Name)
		}
	}
	return msgIDs, nil
}

// runIDLForProject invokes RunIDL for every IDL entry a project declares
// (spec §4.7 bullet 2: "the orchestrator builds the argument list and
// delegates to the tools driver").
func runIDLForProject(ctx context.Context, driver ToolsDriver, project *entities.Project, args *entities.Args) error {
	for _, entry := range project.IDLEntries {
		if err := driver.RunIDL(ctx, project, entry, args); err != nil {
			return entities.Wrap(entities.KindBuildError, err, "IDL generation for %q (%s)", project.Name, entry.SourceFile)
		}
	}
	return nil
}

// runFileCopies executes a project's FILECOPIES blocks (spec §3, §4.7
// bullet 5), copying each declared source into its target directory.
// Destinations up to date with their source (mtime not older) are skipped
// unless force is set.
func runFileCopies(project *entities.Project, srcDir string, force bool) error {
	for _, block := range project.FileCopies {
		if err := os.MkdirAll(block.TargetPath, 0o755); err != nil {
			return entities.Wrap(entities.KindCreateError, err, "creating file-copy target %s", block.TargetPath)
		}
		for _, name := range block.Sources {
			src := filepath.Join(srcDir, name)
			dst := filepath.Join(block.TargetPath, name)
			if !force && upToDate(src, dst) {
				continue
			}
			if err := copyFile(src, dst); err != nil {
				return entities.Wrap(entities.KindCopyFailed, err, "copying %s to %s", src, dst)
			}
		}
	}
	return nil
}

// upToDate reports whether dst exists and is not older than src.
func upToDate(src, dst string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return !dstInfo.ModTime().Before(srcInfo.ModTime())
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Package ui adapts the shared internal/ui terminal styling into the
// driver's ProgressReporter port and the ShowProjSettings table rendering.
package ui

import (
	"fmt"

	"github.com/cidbuild/cidbuild/internal/core/usecases"
	sharedui "github.com/cidbuild/cidbuild/internal/ui"
)

// Ensure Reporter implements usecases.ProgressReporter.
var _ usecases.ProgressReporter = (*Reporter)(nil)

// Reporter implements usecases.ProgressReporter atop the shared lipgloss
// Output, one progress line per project per build step (spec §4.7's
// step-by-step reporting requirement).
type Reporter struct {
	out *sharedui.Output
}

// NewReporter creates a Reporter writing through out.
func NewReporter(out *sharedui.Output) *Reporter {
	return &Reporter{out: out}
}

// ReportProgress implements usecases.ProgressReporter.
func (r *Reporter) ReportProgress(step string, current, total int, message string) {
	r.out.Progress(current, total, fmt.Sprintf("[%s] %s", step, message))
}

// ReportError implements usecases.ProgressReporter.
func (r *Reporter) ReportError(err error) {
	r.out.Error(err.Error())
}

// ReportSuccess implements usecases.ProgressReporter.
func (r *Reporter) ReportSuccess(message string) {
	r.out.Success(message)
}

// ReportInfo implements usecases.ProgressReporter.
func (r *Reporter) ReportInfo(message string) {
	r.out.Info(message)
}

// RenderDepsTree prints ShowProjDeps's pre-indented tree text inside a
// bordered box, the way the teacher's cmd layer boxes multi-line output.
func RenderDepsTree(out *sharedui.Output, tree string) {
	out.Box(tree)
}

// RenderProjSettings prints one project's resolved configuration as a
// key/value listing followed by a defines/platform-options table.
func RenderProjSettings(out *sharedui.Output, s *usecases.ProjectSettings) {
	out.Title(s.Name)
	out.KeyValue("Directory", s.Directory)
	out.KeyValue("Type", s.Type)
	out.KeyValue("Display", s.Display)
	out.KeyValue("Dependencies", fmt.Sprintf("%d", len(s.Dependencies)))
	out.KeyValue("CppFiles", fmt.Sprintf("%d", s.CppFileCount))
	out.KeyValue("HppFiles", fmt.Sprintf("%d", s.HppFileCount))
	out.KeyValue("IDLEntries", fmt.Sprintf("%d", s.IDLEntryCount))
	out.KeyValue("HasMessageFile", fmt.Sprintf("%t", s.HasMessageFile))
	out.KeyValue("HasResFile", fmt.Sprintf("%t", s.HasResFile))
	out.Newline()

	if len(s.Dependencies) > 0 {
		out.Subtitle("Dependencies")
		out.List(s.Dependencies)
		out.Newline()
	}
	if len(s.ExtLibs) > 0 {
		out.Subtitle("External libraries")
		out.List(s.ExtLibs)
		out.Newline()
	}
	if len(s.ExtIncludes) > 0 {
		out.Subtitle("External include paths")
		out.List(s.ExtIncludes)
		out.Newline()
	}

	if len(s.Defines) > 0 {
		rows := make([][]string, len(s.Defines))
		for i, kv := range s.Defines {
			rows[i] = []string{kv.Key, kv.Value}
		}
		out.Subtitle("Defines")
		out.Table([]string{"Key", "Value"}, rows)
		out.Newline()
	}

	if len(s.PlatformOptions) > 0 {
		rows := make([][]string, len(s.PlatformOptions))
		for i, kv := range s.PlatformOptions {
			rows[i] = []string{kv.Key, kv.Value}
		}
		out.Subtitle("Platform options")
		out.Table([]string{"Key", "Value"}, rows)
	}
}

package entities

import "strings"

// ProjectList owns every Project parsed from an ALLPROJECTS file together
// with the dependency Graph built from their DEPENDENCIES= lists. Names are
// looked up case-insensitively, matching Graph's own comparison rule.
type ProjectList struct {
	projects []*Project
	byName   map[string]int // lower-cased name -> index into projects
	graph    *Graph

	// ALLPROJECTS-level lists (spec §4.4), shared by every project.
	ExtLibs         []string
	ExtLibPaths     []string
	ExtIncludePaths []string
	IDLMappings     []string // literal "/Mapping=key=value" entries
}

// NewProjectList returns an empty list with only the synthetic "all" node
// present in its graph.
func NewProjectList() *ProjectList {
	return &ProjectList{
		byName: make(map[string]int),
		graph:  NewGraph(),
	}
}

// Add registers p, adding it to the graph. Returns AlreadyExists if a
// project with the same name (case-insensitively) is already present.
func (pl *ProjectList) Add(p *Project) error {
	key := strings.ToLower(p.Name)
	if _, ok := pl.byName[key]; ok {
		return New(KindAlreadyExists, "project %q already defined", p.Name)
	}
	idx, err := pl.graph.AddNode(p.Name)
	if err != nil {
		return err
	}
	p.GraphIndex = idx
	pl.byName[key] = len(pl.projects)
	pl.projects = append(pl.projects, p)
	return nil
}

// Get returns the project named name, case-insensitively.
func (pl *ProjectList) Get(name string) (*Project, bool) {
	idx, ok := pl.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return pl.projects[idx], true
}

// All returns every project in declaration order.
func (pl *ProjectList) All() []*Project {
	return pl.projects
}

// Count returns the number of real projects (excluding the synthetic root).
func (pl *ProjectList) Count() int {
	return len(pl.projects)
}

// Graph exposes the underlying dependency graph, e.g. for Iterate calls.
func (pl *ProjectList) Graph() *Graph {
	return pl.graph
}

// LinkDependencies walks every project's Dependencies list and adds the
// corresponding graph edges. Call this once every project has been Added,
// since a DEPENDENCIES= entry may name a project declared later in the file
// (spec §4.3: dependency order is independent of declaration order).
func (pl *ProjectList) LinkDependencies() error {
	for _, p := range pl.projects {
		for _, dep := range p.Dependencies {
			if strings.EqualFold(dep, RootName) {
				continue // "all" is implicit; an explicit edge would be redundant
			}
			if _, ok := pl.Get(dep); !ok {
				return New(KindDependError, "project %q depends on undeclared project %q", p.Name, dep)
			}
			if err := pl.graph.AddEdge(p.Name, dep); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckCycles wraps Graph.DetectCycles, translating any report into a
// DependError naming the offending project(s).
func (pl *ProjectList) CheckCycles() error {
	found, reports := pl.graph.DetectCycles()
	if !found {
		return nil
	}
	r := reports[0]
	if r.Self {
		return New(KindDependError, "project %q depends on itself", r.A)
	}
	return New(KindDependError, "circular dependency between %q and %q", r.A, r.B)
}

// FilterByPlatform returns the subset of projects whose IncludedOnPlatform
// reports true for platform.
func (pl *ProjectList) FilterByPlatform(platform string) []*Project {
	var out []*Project
	for _, p := range pl.projects {
		if p.IncludedOnPlatform(platform) {
			out = append(out, p)
		}
	}
	return out
}

package entities

import "strings"

// MaxNodes bounds the dependency graph's adjacency matrix. The design only
// requires this to be a compile-time constant at least as large as the
// largest realistic project count; 256 matches the reference driver.
const MaxNodes = 256

// RootName is the synthetic "all" node every real project implicitly
// depends on, and which iteration callbacks never see directly.
const RootName = "all"

// IterMode is a bitset controlling Graph.Iterate.
type IterMode int

const (
	// TopDown invokes the callback before descending into dependents.
	TopDown IterMode = 0
	// BottomUp invokes the callback after descending into dependents.
	BottomUp IterMode = 1 << iota
	// Minimal visits each node at most once across the whole traversal.
	Minimal
	// SkipTarget omits the callback for the start node itself.
	SkipTarget
)

// VisitFunc is the traversal callback: name and depth of the current node.
// Returning false aborts the traversal.
type VisitFunc func(name string, depth int) bool

// Graph is a directed dependency graph with a fixed-size boolean adjacency
// matrix and a synthetic root (node 0, "all") that depends on every other
// node added after it. edge[target][dependent] == true means "target
// depends on dependent" — dependent must be built before target.
type Graph struct {
	names [MaxNodes]string
	count int
	edge  [MaxNodes][MaxNodes]bool
}

// NewGraph returns a graph with only the "all" root present.
func NewGraph() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear resets the graph to its initial state: only node 0, "all".
func (g *Graph) Clear() {
	*g = Graph{}
	g.names[0] = RootName
	g.count = 1
}

// AddNode appends a new node and returns its index. Names are compared
// case-insensitively; a duplicate returns AlreadyExists. Every existing
// node gets an edge from the root meaning "all depends on it" (§3: "edge[0][i]
// = true for all i >= 1 after a node is added").
func (g *Graph) AddNode(name string) (int, error) {
	if name == "" {
		return -1, New(KindBadParams, "node name cannot be empty")
	}
	if g.count >= MaxNodes {
		return -1, New(KindFull, "graph is full (max %d nodes)", MaxNodes)
	}
	if _, ok := g.indexOf(name); ok {
		return -1, New(KindAlreadyExists, "node %q already exists", name)
	}
	idx := g.count
	g.names[idx] = name
	g.count++
	g.edge[0][idx] = true
	return idx, nil
}

// IndexOf returns the index of name, or ok=false if absent.
func (g *Graph) IndexOf(name string) (int, bool) {
	return g.indexOf(name)
}

func (g *Graph) indexOf(name string) (int, bool) {
	for i := 0; i < g.count; i++ {
		if strings.EqualFold(g.names[i], name) {
			return i, true
		}
	}
	return -1, false
}

// NameAt returns the name stored at idx, or "" if out of range.
func (g *Graph) NameAt(idx int) string {
	if idx < 0 || idx >= g.count {
		return ""
	}
	return g.names[idx]
}

// Count returns the number of nodes, including the synthetic root.
func (g *Graph) Count() int {
	return g.count
}

// AddEdge records that target depends on dependent. Both must already
// exist; the operation is idempotent.
func (g *Graph) AddEdge(target, dependent string) error {
	ti, ok := g.indexOf(target)
	if !ok {
		return New(KindNotFound, "target project %q not found", target)
	}
	di, ok := g.indexOf(dependent)
	if !ok {
		return New(KindNotFound, "dependent project %q not found", dependent)
	}
	g.edge[ti][di] = true
	return nil
}

// HasEdge reports whether target depends on dependent.
func (g *Graph) HasEdge(target, dependent string) bool {
	ti, ok := g.indexOf(target)
	if !ok {
		return false
	}
	di, ok := g.indexOf(dependent)
	if !ok {
		return false
	}
	return g.edge[ti][di]
}

// HasAnyDependents reports whether any node depends on node (other than
// the synthetic root's blanket edges).
func (g *Graph) HasAnyDependents(node string) bool {
	ni, ok := g.indexOf(node)
	if !ok {
		return false
	}
	for i := 1; i < g.count; i++ {
		if i != ni && g.edge[i][ni] {
			return true
		}
	}
	return false
}

// CycleReport describes one detected cycle.
type CycleReport struct {
	Self bool   // true for a self-dependency (i == j)
	A, B string // the two node names involved
}

// DetectCycles scans every pair (i, j), i <= j, for edge[i][j] && edge[j][i]
// and reports each as a self-dependency (i==j) or a circular pair. O(N^2)
// and sufficient given the traversal policy disallows multi-edge cycles
// once this check passes (spec §4.3).
func (g *Graph) DetectCycles() (bool, []CycleReport) {
	var reports []CycleReport
	for i := 0; i < g.count; i++ {
		for j := i; j < g.count; j++ {
			if g.edge[i][j] && g.edge[j][i] {
				reports = append(reports, CycleReport{Self: i == j, A: g.names[i], B: g.names[j]})
			}
		}
	}
	return len(reports) > 0, reports
}

// Iterate walks the graph from startName per mode. The root is always
// excluded from callbacks; its direct children are reported at depth 1. A
// non-root start node is depth 0 itself, unless SkipTarget is set (then its dependents
// continue from depth 0 too since the root-relative depth numbering only
// applies when starting from the root).
func (g *Graph) Iterate(startName string, mode IterMode, fn VisitFunc) (bool, error) {
	startIdx, ok := g.indexOf(startName)
	if !ok {
		return false, New(KindNotFound, "project %q not found", startName)
	}

	var visited [MaxNodes]bool
	minimal := mode&Minimal != 0
	bottomUp := mode&BottomUp != 0
	skipTarget := mode&SkipTarget != 0

	if startIdx == 0 {
		// Starting from the synthetic root: its direct dependents become
		// depth-1 entries (the root itself is depth 0 and never visited),
		// walked from the most recently added project backward so that a
		// project reached indirectly through another project's dependency
		// chain is credited to that deeper path under Minimal mode.
		cont := true
		for i := g.count - 1; i >= 1 && cont; i-- {
			if g.edge[0][i] {
				cont = g.visit(i, 1, mode, minimal, bottomUp, &visited, fn)
			}
		}
		return cont, nil
	}

	depth := 0
	if skipTarget {
		// Descend into the start node's dependents without invoking the
		// callback for the start node itself.
		cont := true
		for i := 0; i < g.count && cont; i++ {
			if i != startIdx && g.edge[startIdx][i] {
				cont = g.visit(i, depth, mode, minimal, bottomUp, &visited, fn)
			}
		}
		return cont, nil
	}

	cont := g.visit(startIdx, depth, mode, minimal, bottomUp, &visited, fn)
	return cont, nil
}

func (g *Graph) visit(idx, depth int, mode IterMode, minimal, bottomUp bool, visited *[MaxNodes]bool, fn VisitFunc) bool {
	if idx == 0 {
		return true // the root itself is never reported
	}
	if minimal && visited[idx] {
		return true
	}
	visited[idx] = true

	descend := func() bool {
		cont := true
		for i := 0; i < g.count && cont; i++ {
			if i != idx && g.edge[idx][i] {
				cont = g.visit(i, depth+1, mode, minimal, bottomUp, visited, fn)
			}
		}
		return cont
	}

	if bottomUp {
		if !descend() {
			return false
		}
		return fn(g.names[idx], depth)
	}

	if !fn(g.names[idx], depth) {
		return false
	}
	return descend()
}

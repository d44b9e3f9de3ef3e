// Package depend implements the miniature C/C++ preprocessor used to
// compute each project's per-.cpp transitive header closure.
package depend

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// includeRef names one #include target together with the bracket kind it
// was written with, since the two resolve through different search paths
// (spec §4.5: "angle-bracket includes are resolved only through the
// include-path list").
type includeRef struct {
	name  string
	angle bool
}

// headerInfo is a process-lifetime cache entry for one resolved header
// (spec §4.5): its resolved path, its direct includes, and whether it has
// already been scanned for its own #include directives (a cache-hit guard,
// not a traversal guard — per-.cpp cycle avoidance is the caller's job).
type headerInfo struct {
	resolvedPath string
	includes     []includeRef
	searched     bool
}

// Analyser computes transitive #include closures for a project's .cpp
// files. Its header cache persists across every project analysed in one
// orchestrator run (spec §5 "process-wide cache... read-write from one
// task, so no locking is needed").
type Analyser struct {
	cache map[string]*headerInfo
}

// NewAnalyser returns an Analyser with an empty header cache.
func NewAnalyser() *Analyser {
	return &Analyser{cache: make(map[string]*headerInfo)}
}

// IncludePaths configures where #include "file" and #include <file> are
// resolved, in search order (spec §4.5: cwd first, then project include
// paths, then output public/private include dirs and platform subdirs).
type IncludePaths struct {
	Dirs []string
}

// Closure computes the sorted, de-duplicated transitive set of headers
// reachable from cppFile, given defines seeded from project-local macros
// and platform-fixed defines. defines is read-only: a private copy seeds
// every header scan in this analysis so that one file's #define/#undef
// directives never leak into another header's gating.
func (a *Analyser) Closure(cppFile string, defines map[string]bool, paths IncludePaths) ([]string, error) {
	seed := make(map[string]bool, len(defines))
	for k, v := range defines {
		seed[k] = v
	}

	visited := make(map[string]bool)
	var out []string

	var walk func(ref includeRef, fromDir string) error
	walk = func(ref includeRef, fromDir string) error {
		info, err := a.resolve(ref, fromDir, paths, seed)
		if err != nil {
			return err
		}
		nextDir := filepath.Dir(info.resolvedPath)
		for _, inc := range info.includes {
			if visited[inc.name] {
				continue // already expanded for this .cpp: cycle or diamond include
			}
			visited[inc.name] = true
			out = append(out, inc.name)
			if err := walk(inc, nextDir); err != nil {
				return err
			}
		}
		return nil
	}

	// cppFile is already a full path, so it is resolved as given rather than
	// joined onto a search directory.
	if err := walk(includeRef{name: cppFile}, ""); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// resolve returns the cached headerInfo for ref, parsing it (honouring
// #define/#ifdef conditionals, seeded from defines) on first encounter.
func (a *Analyser) resolve(ref includeRef, fromDir string, paths IncludePaths, defines map[string]bool) (*headerInfo, error) {
	if info, ok := a.cache[ref.name]; ok {
		return info, nil
	}

	resolved, err := resolvePath(ref.name, fromDir, paths, ref.angle)
	if err != nil {
		return nil, err
	}

	includes, err := scanIncludes(resolved, defines)
	if err != nil {
		return nil, err
	}

	info := &headerInfo{resolvedPath: resolved, includes: includes, searched: true}
	a.cache[ref.name] = info
	return info, nil
}

// resolvePath implements spec §4.5's search order: current directory
// first, then explicit include paths, in order. Angle-bracket includes
// skip the current-directory probe and resolve only through paths.Dirs.
func resolvePath(name, fromDir string, paths IncludePaths, angle bool) (string, error) {
	if !angle {
		if candidate := filepath.Join(fromDir, name); fileExists(candidate) {
			return candidate, nil
		}
	}
	for _, dir := range paths.Dirs {
		if candidate := filepath.Join(dir, name); fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", entities.New(entities.KindNotFound, "header %q not found in search path", name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// scanIncludes runs the miniature preprocessor over path: it honours
// #define/#undef/#ifdef/#ifndef/#if defined/#else/#endif conditional
// gating and collects every #include seen while the conditional stack top
// is active. Macro expansion is disabled for the duration (spec §4.5).
// seed pre-populates the defined-token set (project-local macros and
// platform-fixed defines) without being mutated itself.
func scanIncludes(path string, seed map[string]bool) ([]includeRef, error) {
	spool, err := parser.NewSpooler(path, true)
	if err != nil {
		return nil, err
	}
	spool.DisableMacroExpansion()

	defined := make(map[string]bool, len(seed))
	for k, v := range seed {
		defined[k] = v
	}
	var condStack []bool
	var includes []includeRef

	active := func() bool {
		for _, v := range condStack {
			if !v {
				return false
			}
		}
		return true
	}

	for {
		line, ok, rerr := spool.ReadLine()
		if rerr != nil {
			return nil, rerr
		}
		if !ok {
			break
		}
		if !strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#define "):
			if active() {
				defined[firstToken(line, "#define")] = true
			}
		case strings.HasPrefix(line, "#undef "):
			if active() {
				delete(defined, firstToken(line, "#undef"))
			}
		case strings.HasPrefix(line, "#ifdef "):
			condStack = append(condStack, defined[firstToken(line, "#ifdef")])
		case strings.HasPrefix(line, "#ifndef "):
			condStack = append(condStack, !defined[firstToken(line, "#ifndef")])
		case strings.HasPrefix(line, "#if defined"):
			name := strings.TrimSuffix(strings.TrimPrefix(firstToken(line, "#if"), "defined("), ")")
			condStack = append(condStack, defined[name])
		case line == "#else":
			if len(condStack) > 0 {
				condStack[len(condStack)-1] = !condStack[len(condStack)-1]
			}
		case line == "#endif":
			if len(condStack) > 0 {
				condStack = condStack[:len(condStack)-1]
			}
		case strings.HasPrefix(line, "#include "):
			if active() {
				if name, angle, ok := parseIncludeName(line); ok {
					includes = append(includes, includeRef{name: name, angle: angle})
				}
			}
		}
	}
	return includes, nil
}

func firstToken(line, prefix string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parseIncludeName extracts the filename from #include "file" or
// #include <file>, and reports which bracket kind was used: angle is true
// for <file>, false for "file".
func parseIncludeName(line string) (name string, angle bool, ok bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	if len(rest) < 2 {
		return "", false, false
	}
	switch rest[0] {
	case '"':
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], false, true
	case '<':
		end := strings.IndexByte(rest[1:], '>')
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], true, true
	default:
		return "", false, false
	}
}

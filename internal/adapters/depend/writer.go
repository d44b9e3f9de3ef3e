package depend

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// CppClosure pairs a .cpp source with its computed header closure.
type CppClosure struct {
	CppFile string
	Headers []string
}

// WriteDependFile emits a .Depend file at path: one section per .cpp,
// listing its transitive header closure (spec §4.5). Sections are sorted by
// .cpp name, case-insensitively, before writing, so the file is
// deterministic whatever order closures arrive in (spec §5's
// "directory-enumeration order sorted deterministically").
func WriteDependFile(path string, closures []CppClosure) error {
	sorted := append([]CppClosure(nil), closures...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].CppFile) < strings.ToLower(sorted[j].CppFile)
	})

	var b strings.Builder
	for _, c := range sorted {
		fmt.Fprintf(&b, "%s:\n", c.CppFile)
		for _, h := range c.Headers {
			fmt.Fprintf(&b, "  %s\n", h)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "writing %s", path)
	}
	return nil
}

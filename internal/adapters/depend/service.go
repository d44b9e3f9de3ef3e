package depend

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure Service implements usecases.DependAnalyser.
var _ usecases.DependAnalyser = (*Service)(nil)

// platformFixedDefines maps a platform identifier (parser.DetectedPlatform's
// vocabulary) to the preprocessor token its own sources gate themselves on,
// following the CID-prefixed naming original_source's kept files use for
// platform/endianness conditionals (CIDLIB_LITTLEENDIAN, CIDBUILD_BIGENDIAN).
var platformFixedDefines = map[string]string{
	"Win32": "CID_WIN32",
	"Linux": "CID_LINUX",
	"MacOS": "CID_MACOS",
}

// Service wires Analyser.Closure and WriteDependFile into the
// usecases.DependAnalyser port: one include closure per .cpp file the
// project declares, written to a single .Depend file.
type Service struct {
	analyser *Analyser
	platform string
}

// NewService returns a DependAnalyser backed by a fresh Analyser, seeding
// every closure with the detected host platform's fixed define. The
// Analyser's header-info cache is process-wide per spec §5, so one Service
// should be shared across the whole orchestrator run rather than
// reconstructed per project.
func NewService() *Service {
	return NewServiceForPlatform(parser.DetectedPlatform())
}

// NewServiceForPlatform returns a DependAnalyser seeding closures with an
// explicitly named platform's fixed define (e.g. a release action
// cross-targeting another OS).
func NewServiceForPlatform(platform string) *Service {
	return &Service{analyser: NewAnalyser(), platform: platform}
}

// WriteDependFile implements usecases.DependAnalyser.
func (s *Service) WriteDependFile(ctx context.Context, project *entities.Project, includeDirs []string, outPath string) error {
	defines := make(map[string]bool, len(project.Defines)+1)
	for _, kv := range project.Defines {
		defines[kv.Key] = true
	}
	if fixed, ok := platformFixedDefines[s.platform]; ok {
		defines[fixed] = true
	}
	paths := IncludePaths{Dirs: includeDirs}

	closures := make([]CppClosure, 0, len(project.CppFiles))
	for _, cpp := range project.SortedCppFiles() {
		cppPath := filepath.Join(includeDirs[len(includeDirs)-1], cpp.Name)
		headers, err := s.analyser.Closure(cppPath, defines, paths)
		if err != nil {
			return err
		}
		closures = append(closures, CppClosure{CppFile: cpp.Name, Headers: headers})
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating directory for %s", outPath)
	}
	return WriteDependFile(outPath, closures)
}

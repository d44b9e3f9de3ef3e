package parser

import (
	"context"
	"os"
	"runtime"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure Service implements usecases.ProjectLoader.
var _ usecases.ProjectLoader = (*Service)(nil)

// hostPlatform maps runtime.GOOS to the platform identifier the project
// file's PROJECT=name [incl, excl] gating and $(PlatformDir) macro expect
// (spec §4.1, §4.2). Only the platforms the examples actually build for are
// named; an unrecognised GOOS falls back to its raw GOOS string so a build
// on an unlisted platform still gets a stable, if unmatched, identifier.
var hostPlatform = map[string]string{
	"windows": "Win32",
	"linux":   "Linux",
	"darwin":  "MacOS",
}

// Service wraps ParseProjectFile into the usecases.ProjectLoader port,
// resolving the host platform identifier once at construction.
type Service struct {
	platform string
}

// NewService returns a ProjectLoader that applies each project's platform
// include/exclude lists for the current runtime.GOOS. NewServiceForPlatform lets a caller override
// the detected platform (e.g. a release action cross-targeting another OS).
func NewService() *Service {
	return NewServiceForPlatform(platformFor(runtime.GOOS))
}

// NewServiceForPlatform returns a ProjectLoader that filters for an
// explicitly named platform identifier.
func NewServiceForPlatform(platform string) *Service {
	return &Service{platform: platform}
}

// DetectedPlatform returns the platform identifier for the current
// runtime.GOOS, the same value NewService resolves internally. Callers that
// need the platform string outside a ProjectLoader (e.g. to pick a
// driver-defaults section, or to resolve PlatformOptions for display) use
// this instead of duplicating the GOOS mapping.
func DetectedPlatform() string {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) string {
	if p, ok := hostPlatform[goos]; ok {
		return p
	}
	return goos
}

// LoadProjectList implements usecases.ProjectLoader.
func (s *Service) LoadProjectList(ctx context.Context, projectFilePath string, args *entities.Args) (*entities.ProjectList, error) {
	opts := ProjectFileOptions{
		Platform:    s.platform,
		Mode:        args.Mode.String(),
		CIDSrcDir:   args.CIDLibSrcDir,
		PlatformDir: s.platform,
		SrcRoot:     args.RootDir,
		OutDir:      args.OutputDir,
		LookupEnv:   os.LookupEnv,
	}
	return ParseProjectFile(projectFilePath, opts)
}

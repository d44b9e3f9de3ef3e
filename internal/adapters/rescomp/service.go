package rescomp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure Service implements usecases.ResourceCompiler.
var _ usecases.ResourceCompiler = (*Service)(nil)

// Service wires the package's parse/write functions into the
// usecases.ResourceCompiler port, resolving each project's .MsgText/.CIDRC
// source paths and generated-artifact output paths by convention: a
// project's message-text source is <srcDir>/<Name>.MsgText, its binary
// catalogue and header land in <outDir>/MsgFiles and <outDir>/Inc, and
// correspondingly for .CIDRC/resource output under <outDir>/Res.
type Service struct{}

// NewService returns a ResourceCompiler backed by this package's parse and
// write functions.
func NewService() *Service {
	return &Service{}
}

// CompileMessages implements usecases.ResourceCompiler.
func (s *Service) CompileMessages(ctx context.Context, project *entities.Project, srcDir, outDir string) (map[string]int, error) {
	srcPath := filepath.Join(srcDir, project.Name+".MsgText")
	cat, err := ParseMsgText(srcPath)
	if err != nil {
		return nil, err
	}

	catPath := filepath.Join(outDir, "MsgFiles", project.Name+".MsgFile")
	if err := ensureDir(catPath); err != nil {
		return nil, err
	}
	if err := WriteCatalogue(catPath, cat); err != nil {
		return nil, err
	}

	hdrPath := filepath.Join(outDir, "Inc", project.Name+"_MessageIds.hpp")
	if err := ensureDir(hdrPath); err != nil {
		return nil, err
	}
	ns := "k" + project.Name + "MsgIds"
	if err := WriteGeneratedHeader(hdrPath, ns, cat.Records); err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(cat.Records))
	for _, rec := range cat.Records {
		ids[rec.Name] = rec.ID
	}
	return ids, nil
}

// CompileResources implements usecases.ResourceCompiler.
func (s *Service) CompileResources(ctx context.Context, project *entities.Project, srcDir, outDir string, msgIDs map[string]int) error {
	srcPath := filepath.Join(srcDir, project.Name+".CIDRC")
	res, err := ParseCIDRC(srcPath, msgIDs)
	if err != nil {
		return err
	}

	resPath := filepath.Join(outDir, "Res", project.Name+".CIDRes")
	if err := ensureDir(resPath); err != nil {
		return err
	}
	if err := WriteResourceFile(resPath, res); err != nil {
		return err
	}

	hdrPath := filepath.Join(outDir, "Inc", project.Name+"_ResourceIds.hpp")
	if err := ensureDir(hdrPath); err != nil {
		return err
	}
	ns := "k" + project.Name + "ResIds"
	return WriteResourceSymbolHeader(hdrPath, ns, res.Symbols)
}

// ensureDir creates the parent directory of path, since the package's
// write functions assume it already exists.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating directory for %s", path)
	}
	return nil
}

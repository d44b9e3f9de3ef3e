package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure HeaderPublisher implements usecases.HeaderCopier.
var _ usecases.HeaderCopier = (*HeaderPublisher)(nil)

// HeaderPublisher copies a project's declared public headers into the
// shared output include tree (spec §4.7 bullet 4), skipping a destination
// that is already at least as new as its source unless force is set.
type HeaderPublisher struct{}

// NewHeaderPublisher returns a HeaderCopier backed by plain file copies.
func NewHeaderPublisher() *HeaderPublisher {
	return &HeaderPublisher{}
}

// CopyHeaders implements usecases.HeaderCopier.
func (h *HeaderPublisher) CopyHeaders(ctx context.Context, project *entities.Project, srcDir, outDir string, force bool) (int, error) {
	if len(project.HppFiles) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, entities.Wrap(entities.KindCreateError, err, "creating header output dir %s", outDir)
	}

	copied := 0
	for _, hdr := range project.HppFiles {
		src := filepath.Join(srcDir, hdr.Name)
		dst := filepath.Join(outDir, hdr.Name)
		if !force && upToDate(src, dst) {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return copied, entities.Wrap(entities.KindCopyFailed, err, "copying header %s to %s", src, dst)
		}
		copied++
	}
	return copied, nil
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

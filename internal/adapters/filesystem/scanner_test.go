package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func TestProjectScanner_ScanProject_SplitsCppAndHppByExtension(t *testing.T) {
	root := t.TempDir()
	projDir := filepath.Join(root, "Foo")
	require.NoError(t, os.MkdirAll(projDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "Foo.cpp"), []byte("//"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "Foo.hpp"), []byte("//"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "Foo.MsgText"), []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(projDir, "SubDir"), 0o755))

	proj := &entities.Project{Name: "Foo", Directory: "Foo"}
	scanner := NewProjectScanner()

	err := scanner.ScanProject(context.Background(), proj, projDir)
	require.NoError(t, err)

	require.Len(t, proj.CppFiles, 1)
	assert.Equal(t, "Foo.cpp", proj.CppFiles[0].Name)
	require.Len(t, proj.HppFiles, 1)
	assert.Equal(t, "Foo.hpp", proj.HppFiles[0].Name)
}

func TestProjectScanner_ScanProject_MissingDirectoryFails(t *testing.T) {
	root := t.TempDir()
	proj := &entities.Project{Name: "Foo", Directory: "DoesNotExist"}
	scanner := NewProjectScanner()

	err := scanner.ScanProject(context.Background(), proj, filepath.Join(root, proj.Directory))
	require.Error(t, err)
}

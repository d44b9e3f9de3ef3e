package tools

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// fakeTool writes a shell script that records its argv to a file, so tests
// can assert on exactly what ExecDriver invoked it with without touching a
// real compiler.
func fakeTool(t *testing.T, dir, name string) (path, recordPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake shell tool requires a POSIX shell")
	}
	recordPath = filepath.Join(dir, name+".args")
	path = filepath.Join(dir, name)
	script := "#!/bin/sh\necho \"$@\" > " + recordPath + "\nexit 0\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, recordPath
}

func TestExecDriver_Compile_InvokesConfiguredCompiler(t *testing.T) {
	dir := t.TempDir()
	compiler, record := fakeTool(t, dir, "cc")

	proj, err := entities.NewProject("Foo")
	require.NoError(t, err)
	proj.Defines = []entities.KV{{Key: "FOO", Value: "1"}}

	args := &entities.Args{OutputDir: filepath.Join(dir, "Out"), Mode: entities.ModeDev}
	d := NewExecDriver(Options{CompilerPath: compiler, LinkerPath: compiler})

	srcFile := filepath.Join(dir, "Foo", "Foo.cpp")
	err = d.Compile(context.Background(), proj, srcFile, args)
	require.NoError(t, err)

	out, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Contains(t, string(out), "-DFOO=1")
	assert.Contains(t, string(out), ObjectPathFor(args, proj, srcFile))

	_, statErr := os.Stat(filepath.Dir(ObjectPathFor(args, proj, srcFile)))
	require.NoError(t, statErr)
}

func TestExecDriver_Compile_MissingToolFails(t *testing.T) {
	d := NewExecDriver(Options{})
	d.compilerPath = ""

	proj, err := entities.NewProject("Foo")
	require.NoError(t, err)
	args := &entities.Args{OutputDir: t.TempDir()}

	err = d.Compile(context.Background(), proj, "Foo.cpp", args)
	require.Error(t, err)
}

func TestExecDriver_Link_StaticLibUsesSiblingArchiver(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake shell tool requires a POSIX shell")
	}
	dir := t.TempDir()
	compiler, _ := fakeTool(t, dir, "cc")
	_, archiveRecord := fakeTool(t, dir, "ar")

	proj, err := entities.NewProject("Foo")
	require.NoError(t, err)
	proj.Type = entities.TypeStaticLib

	args := &entities.Args{OutputDir: filepath.Join(dir, "Out")}
	d := NewExecDriver(Options{CompilerPath: compiler, LinkerPath: compiler})

	err = d.Link(context.Background(), proj, []string{filepath.Join(dir, "Foo", "Foo.cpp")}, args)
	require.NoError(t, err)

	out, err := os.ReadFile(archiveRecord)
	require.NoError(t, err)
	assert.Contains(t, string(out), "rcs")
	assert.Contains(t, string(out), "libFoo.a")
}

func TestObjectPathFor(t *testing.T) {
	proj, err := entities.NewProject("Foo")
	require.NoError(t, err)
	args := &entities.Args{OutputDir: "/out"}

	got := ObjectPathFor(args, proj, "/src/Foo/Bar.cpp")
	assert.Equal(t, filepath.Join("/out", "Obj", "Foo", "Bar.o"), got)
}

func TestBinaryPathFor(t *testing.T) {
	args := &entities.Args{OutputDir: "/out"}

	exe, _ := entities.NewProject("Foo")
	assert.Equal(t, filepath.Join("/out", "Bin", "Foo"), BinaryPathFor(args, exe))

	lib, _ := entities.NewProject("Bar")
	lib.Type = entities.TypeStaticLib
	assert.Equal(t, filepath.Join("/out", "Bin", "libBar.a"), BinaryPathFor(args, lib))

	shared, _ := entities.NewProject("Baz")
	shared.Type = entities.TypeSharedLib
	assert.Equal(t, filepath.Join("/out", "Bin", "libBaz.so"), BinaryPathFor(args, shared))
}

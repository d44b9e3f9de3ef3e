package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func TestRelease_Execute_BuildsThenPackagesNamedTarget(t *testing.T) {
	pl := entities.NewProjectList()
	mustAddProject(t, pl, "Foo")
	require.NoError(t, pl.LinkDependencies())

	loader := &fakeProjectLoader{list: pl}
	progress := &fakeProgress{}
	build := NewBuild(loader, &fakeResourceCompiler{}, &fakeScanner{}, &fakeHeaderCopier{}, &fakeDependAnalyser{}, &fakeToolsDriver{}, progress)
	packager := &fakePackager{}
	release := NewRelease(build, loader, packager, progress, false)

	args := &entities.Args{RootDir: "/src", OutputDir: "/out", MajVer: 1, Target: "Foo", Action: entities.ActionMakeBinRelease}
	require.NoError(t, release.Execute(context.Background(), "ignored.Projects", args))
	assert.Equal(t, "Foo", packager.packagedTarget)
}

func TestRelease_Execute_EmptyTargetPackagesAll(t *testing.T) {
	pl := entities.NewProjectList()
	mustAddProject(t, pl, "Foo")
	require.NoError(t, pl.LinkDependencies())

	loader := &fakeProjectLoader{list: pl}
	progress := &fakeProgress{}
	build := NewBuild(loader, &fakeResourceCompiler{}, &fakeScanner{}, &fakeHeaderCopier{}, &fakeDependAnalyser{}, &fakeToolsDriver{}, progress)
	packager := &fakePackager{}
	release := NewRelease(build, loader, packager, progress, true)

	// An empty Target resolves to the synthetic "all" root.
	args := &entities.Args{RootDir: "/src", OutputDir: "/out", MajVer: 1, Target: "", Action: entities.ActionMakeDevRelease}
	require.NoError(t, release.Execute(context.Background(), "ignored.Projects", args))
	assert.Equal(t, entities.RootName, packager.packagedTarget)
}

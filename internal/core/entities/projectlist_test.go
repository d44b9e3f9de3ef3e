package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddProject(t *testing.T, pl *ProjectList, name string, deps ...string) *Project {
	t.Helper()
	p, err := NewProject(name)
	require.NoError(t, err)
	p.Dependencies = deps
	require.NoError(t, pl.Add(p))
	return p
}

func TestProjectList_AddRejectsDuplicateCaseInsensitive(t *testing.T) {
	pl := NewProjectList()
	mustAddProject(t, pl, "Foo")

	p2, _ := NewProject("foo")
	err := pl.Add(p2)
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindAlreadyExists, kind)
}

func TestProjectList_LinkDependencies_ScenarioA(t *testing.T) {
	pl := NewProjectList()
	mustAddProject(t, pl, "A")
	mustAddProject(t, pl, "B", "A")

	require.NoError(t, pl.LinkDependencies())
	require.NoError(t, pl.CheckCycles())

	var got []struct {
		Name  string
		Depth int
	}
	_, err := pl.Graph().Iterate(RootName, BottomUp|Minimal, func(name string, depth int) bool {
		got = append(got, struct {
			Name  string
			Depth int
		}{name, depth})
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 2, got[0].Depth)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, 1, got[1].Depth)
}

func TestProjectList_LinkDependencies_UndeclaredDependency(t *testing.T) {
	pl := NewProjectList()
	mustAddProject(t, pl, "A", "Ghost")

	err := pl.LinkDependencies()
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindDependError, kind)
}

func TestProjectList_CheckCycles_SelfDependency(t *testing.T) {
	pl := NewProjectList()
	mustAddProject(t, pl, "A", "A")

	require.NoError(t, pl.LinkDependencies())
	err := pl.CheckCycles()
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindDependError, kind)
}

func TestProjectList_FilterByPlatform(t *testing.T) {
	pl := NewProjectList()
	win := mustAddProject(t, pl, "WinOnly")
	win.PlatformIncl = []string{"Win32"}
	mustAddProject(t, pl, "Everywhere")

	filtered := pl.FilterByPlatform("Win32")
	require.Len(t, filtered, 2)

	filtered = pl.FilterByPlatform("Linux")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Everywhere", filtered[0].Name)
}

func TestProjectList_AllDependenciesIgnoresImplicitAll(t *testing.T) {
	pl := NewProjectList()
	mustAddProject(t, pl, "A", RootName)
	require.NoError(t, pl.LinkDependencies())
	require.NoError(t, pl.CheckCycles())
}

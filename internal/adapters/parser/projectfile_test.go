package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "AllProjects.Projects")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Scenario A (spec §8): two projects, B depends on A.
func TestParseProjectFile_ScenarioA(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
END ALLPROJECTS
PROJECT=A
SETTINGS=
TYPE=Group
END SETTINGS
END PROJECT
PROJECT=B
SETTINGS=
TYPE=Group
END SETTINGS
DEPENDS=
A
END DEPENDS
END PROJECT
`)
	pl, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Win32", Mode: "Dev"})
	require.NoError(t, err)
	require.Equal(t, 2, pl.Count())

	var got []struct {
		Name  string
		Depth int
	}
	_, err = pl.Graph().Iterate(entities.RootName, entities.BottomUp|entities.Minimal, func(name string, depth int) bool {
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

// Scenario D (spec §8): A and B mutually depend on each other -> DependError.
func TestParseProjectFile_ScenarioD_Cycle(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
END ALLPROJECTS
PROJECT=A
DEPENDS=
B
END DEPENDS
END PROJECT
PROJECT=B
DEPENDS=
A
END DEPENDS
END PROJECT
`)
	_, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Win32", Mode: "Dev"})
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindDependError, kind)
}

// Boundary scenario 9: a project that depends on itself fails with
// DependError rather than hanging.
func TestParseProjectFile_SelfDependency(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
END ALLPROJECTS
PROJECT=A
DEPENDS=
A
END DEPENDS
END PROJECT
`)
	_, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Win32", Mode: "Dev"})
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindDependError, kind)
}

func TestParseProjectFile_PlatformGating(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
END ALLPROJECTS
PROJECT=WinOnly [Win32, ]
SETTINGS=
TYPE=Group
END SETTINGS
END PROJECT
PROJECT=Everywhere
SETTINGS=
TYPE=Group
END SETTINGS
END PROJECT
`)
	pl, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Linux", Mode: "Dev"})
	require.NoError(t, err)
	require.Equal(t, 1, pl.Count())
	_, ok := pl.Get("WinOnly")
	assert.False(t, ok)
	_, ok = pl.Get("Everywhere")
	assert.True(t, ok)
}

func TestParseProjectFile_FullProjectBody(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
EXTLIBS=
Foo Bar
END EXTLIBS
MACROS=
Greeting=hello
END MACROS
END ALLPROJECTS
PROJECT=Widgets
SETTINGS=
TYPE=SharedLib
MSGFILE=Yes
DIRECTORY=WidgetsDir
END SETTINGS
DEFINES=
FEATURE_X=1
END DEFINES
EXTLIBS=
Baz
END EXTLIBS
INCLUDEPATHS=
/usr/include/widgets
END INCLUDEPATHS
CUSTCMDS=
echo building $(Greeting)
END CUSTCMDS
FILECOPIES Bin/Debug=
readme.txt
END FILECOPIES
IDLFILE=
SRCFILE=Widgets.CIDIDL
GEN=CLIENT,SERVER
END IDLFILE
END PROJECT
`)
	pl, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Win32", Mode: "Dev"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Foo", "Bar"}, pl.ExtLibs)

	p, ok := pl.Get("Widgets")
	require.True(t, ok)
	assert.Equal(t, entities.TypeSharedLib, p.Type)
	assert.True(t, p.Flags.HasMessageFile)
	assert.Equal(t, "WidgetsDir", p.Directory)
	v, ok := p.Macro("FEATURE_X")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"Baz"}, p.ExtLibs)
	assert.Equal(t, []string{"/usr/include/widgets"}, p.ExtIncludes)
	require.Len(t, p.CustCmds, 1)
	assert.Equal(t, "echo building hello", p.CustCmds[0])
	require.Len(t, p.FileCopies, 1)
	assert.Equal(t, "Bin/Debug", p.FileCopies[0].TargetPath)
	assert.Equal(t, []string{"readme.txt"}, p.FileCopies[0].Sources)
	require.Len(t, p.IDLEntries, 1)
	assert.True(t, p.IDLEntries[0].GenClient)
	assert.True(t, p.IDLEntries[0].GenServer)
	assert.False(t, p.IDLEntries[0].GenGlobals)
}

func TestParseProjectFile_IDLFileRequiresNameExtForGlobals(t *testing.T) {
	path := writeProjectFile(t, `
ALLPROJECTS=
END ALLPROJECTS
PROJECT=Widgets
IDLFILE=
SRCFILE=Widgets.CIDIDL
GEN=GLOBALS
END IDLFILE
END PROJECT
`)
	_, err := ParseProjectFile(path, ProjectFileOptions{Platform: "Win32", Mode: "Dev"})
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindFileFormat, kind)
}

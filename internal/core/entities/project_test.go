package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject_DefaultsDirectoryToName(t *testing.T) {
	p, err := NewProject("CIDLib_Core")
	require.NoError(t, err)
	assert.Equal(t, "CIDLib_Core", p.Directory)
	assert.Equal(t, TypeExecutable, p.Type)
	assert.Equal(t, -1, p.GraphIndex)
}

func TestNewProject_RejectsBadName(t *testing.T) {
	_, err := NewProject("1Bad")
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindBadParams, kind)
}

func TestProject_IncludedOnPlatform(t *testing.T) {
	p, _ := NewProject("Foo")

	// no lists: included everywhere.
	assert.True(t, p.IncludedOnPlatform("Win32"))

	p.PlatformIncl = []string{"Win32", "Win64"}
	assert.True(t, p.IncludedOnPlatform("win32"))
	assert.False(t, p.IncludedOnPlatform("Linux"))

	p.PlatformIncl = nil
	p.PlatformExcl = []string{"Linux"}
	assert.False(t, p.IncludedOnPlatform("Linux"))
	assert.True(t, p.IncludedOnPlatform("Win32"))
}

func TestProject_Macro_LastWins(t *testing.T) {
	p, _ := NewProject("Foo")
	p.Defines = []KV{{Key: "X", Value: "1"}, {Key: "X", Value: "2"}}
	v, ok := p.Macro("X")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = p.Macro("Y")
	assert.False(t, ok)
}

func TestProject_PlatformOptionsFor_MergesWildcardFirst(t *testing.T) {
	p, _ := NewProject("Foo")
	p.PlatformOptions = map[string][]KV{
		"":      {{Key: "Opt", Value: "common"}},
		"Win32": {{Key: "Opt", Value: "win32"}},
	}
	opts := p.PlatformOptionsFor("Win32")
	require.Len(t, opts, 2)
	assert.Equal(t, "common", opts[0].Value)
	assert.Equal(t, "win32", opts[1].Value)
}

func TestProject_SortedCppFiles(t *testing.T) {
	p, _ := NewProject("Foo")
	p.CppFiles = []SourceFile{{Name: "Zeta.cpp"}, {Name: "alpha.cpp"}, {Name: "Beta.cpp"}}
	sorted := p.SortedCppFiles()
	require.Len(t, sorted, 3)
	assert.Equal(t, "alpha.cpp", sorted[0].Name)
	assert.Equal(t, "Beta.cpp", sorted[1].Name)
	assert.Equal(t, "Zeta.cpp", sorted[2].Name)
}

func TestIDLEntry_Validate_RequiresNameExtForGlobals(t *testing.T) {
	e := IDLEntry{SourceFile: "Foo.CIDIDL", GenGlobals: true}
	err := e.Validate(10)
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindFileFormat, kind)

	e.NameExt = "FooGlobals"
	assert.NoError(t, e.Validate(10))
}

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildMode(t *testing.T) {
	cases := map[string]BuildMode{"Dev": ModeDev, "Develop": ModeDev, "Prod": ModeProd, "Production": ModeProd}
	for in, want := range cases {
		got, err := ParseBuildMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseBuildMode("Release")
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindBadParams, kind)
}

func TestParseAction_AcceptsShortReleaseSpellings(t *testing.T) {
	got, err := ParseAction("MakeBinRel")
	require.NoError(t, err)
	assert.Equal(t, ActionMakeBinRelease, got)

	got, err = ParseAction("MakeDevRel")
	require.NoError(t, err)
	assert.Equal(t, ActionMakeDevRelease, got)

	_, err = ParseAction("Nonsense")
	require.Error(t, err)
}

func TestArgs_Validate_RequiresRootDirAndVersion(t *testing.T) {
	a := &Args{}
	err := a.Validate()
	require.Error(t, err)

	a.RootDir = "/src"
	err = a.Validate()
	require.Error(t, err)

	a.MajVer = 1
	require.NoError(t, a.Validate())
}

func TestArgs_Validate_ShowProjSettingsRequiresTarget(t *testing.T) {
	a := &Args{RootDir: "/src", MajVer: 1, Action: ActionShowProjSettings}
	err := a.Validate()
	require.Error(t, err)

	a.Target = "MyProj"
	require.NoError(t, a.Validate())
}

func TestArgs_Validate_ReleaseActionsRequireTarget(t *testing.T) {
	a := &Args{RootDir: "/src", MajVer: 1, Action: ActionMakeBinRelease}
	require.Error(t, a.Validate())

	a.Target = "MyProj"
	require.NoError(t, a.Validate())
}

func TestArgs_EffectiveLang_IsIndependentOfLangField(t *testing.T) {
	a := &Args{Lang: "fr"}
	assert.Equal(t, "en", a.EffectiveLang())
}

func TestArgs_FormatVersion(t *testing.T) {
	a := &Args{MajVer: 4, MinVer: 7, Revn: 2}
	assert.Equal(t, "4.7.2", a.FormatVersion())
}

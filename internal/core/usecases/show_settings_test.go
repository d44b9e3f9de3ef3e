package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func TestShowProjSettings_Execute_MergesWildcardAndPlatformOptions(t *testing.T) {
	pl := entities.NewProjectList()
	p := mustAddProject(t, pl, "Foo")
	p.PlatformOptions = map[string][]entities.KV{
		"":      {{Key: "Opt1", Value: "v1"}},
		"linux": {{Key: "Opt2", Value: "v2"}},
	}
	require.NoError(t, pl.LinkDependencies())

	uc := NewShowProjSettings(&fakeProjectLoader{list: pl}, &fakeProgress{})
	settings, err := uc.Execute(context.Background(), "ignored.Projects", "linux", &entities.Args{Target: "Foo"})
	require.NoError(t, err)
	assert.Equal(t, "Foo", settings.Name)
	require.Len(t, settings.PlatformOptions, 2)
	assert.Equal(t, "Opt1", settings.PlatformOptions[0].Key)
	assert.Equal(t, "Opt2", settings.PlatformOptions[1].Key)
}

func TestShowProjSettings_Execute_UnknownTargetReportsError(t *testing.T) {
	pl := entities.NewProjectList()
	progress := &fakeProgress{}
	uc := NewShowProjSettings(&fakeProjectLoader{list: pl}, progress)

	_, err := uc.Execute(context.Background(), "ignored.Projects", "linux", &entities.Args{Target: "Missing"})
	require.Error(t, err)
	assert.Len(t, progress.errs, 1)
}

package encoding

import (
	"fmt"
	"testing"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

func BenchmarkTOONvsJSON(b *testing.B) {
	settings := createTestSettings(15)
	enc := NewEncoder()

	b.Run("JSON_Encoding", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = enc.EncodeJSON(settings)
		}
	})

	b.Run("TOON_Encoding", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = enc.EncodeTOON(settings)
		}
	})
}

func TestTokenEfficiencyMetrics(t *testing.T) {
	settings := createTestSettings(15)
	enc := NewEncoder()

	jsonData, _ := enc.EncodeJSON(settings)
	toonData, _ := enc.EncodeTOON(settings)

	jsonTokens := estimateTokenCount(string(jsonData))
	toonTokens := estimateTokenCount(string(toonData))
	savings := float64(jsonTokens-toonTokens) / float64(jsonTokens) * 100

	t.Logf("JSON tokens: %d", jsonTokens)
	t.Logf("TOON tokens: %d", toonTokens)
	t.Logf("Token savings: %.1f%%", savings)

	if savings < 0 {
		t.Errorf("expected TOON not to be larger than JSON, got %.1f%% savings", savings)
	}
}

func TestTabularArrayTokenEfficiency(t *testing.T) {
	extLibs := []struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}{
		{"cidlib", "/usr/lib/libcidlib.so"},
		{"cidkernel", "/usr/lib/libcidkernel.so"},
		{"pthread", "/usr/lib/libpthread.so"},
	}

	enc := NewEncoder()
	jsonData, _ := enc.EncodeJSON(extLibs)
	toonData, _ := enc.EncodeTOON(extLibs)

	jsonTokens := estimateTokenCount(string(jsonData))
	toonTokens := estimateTokenCount(string(toonData))
	savings := float64(jsonTokens-toonTokens) / float64(jsonTokens) * 100

	t.Logf("JSON tokens: %d, TOON tokens: %d, savings: %.1f%%", jsonTokens, toonTokens, savings)

	if toonTokens > jsonTokens {
		t.Errorf("expected TOON array encoding to be at least as compact as JSON: TOON=%d JSON=%d", toonTokens, jsonTokens)
	}
}

// estimateTokenCount approximates token count (4 chars ≈ 1 token).
func estimateTokenCount(s string) int {
	return (len(s) + 3) / 4
}

// createTestSettings builds a ProjectSettings with n defines and dependencies,
// mirroring what ShowProjSettings resolves for a project with a sizeable
// configuration.
func createTestSettings(n int) *usecases.ProjectSettings {
	settings := &usecases.ProjectSettings{
		Name:      "TestProject",
		Directory: "TestProject",
		Type:      string(entities.TypeExecutable),
		Display:   string(entities.DisplayConsole),
	}
	for i := 0; i < n; i++ {
		settings.Dependencies = append(settings.Dependencies, fmt.Sprintf("Lib%d", i))
		settings.Defines = append(settings.Defines, entities.KV{
			Key:   fmt.Sprintf("FLAG_%d", i),
			Value: fmt.Sprintf("%d", i),
		})
	}
	return settings
}

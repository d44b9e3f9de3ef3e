package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func writeUTF16(t *testing.T, dir, name string, endian unicode.Endianness, bom [2]byte, text string) string {
	t.Helper()
	enc := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder()
	body, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	full := append([]byte{bom[0], bom[1]}, body...)
	require.NoError(t, os.WriteFile(path, full, 0o644))
	return path
}

// Boundary scenario 10 (spec §8): LE and BE files with the same logical
// text yield identical spooler outputs.
func TestSpooler_UTF16_LEAndBE_Identical(t *testing.T) {
	dir := t.TempDir()
	text := "PROJECT=Foo\r\nEND PROJECT\r\n"

	lePath := writeUTF16(t, dir, "le.txt", unicode.LittleEndian, [2]byte{0xFF, 0xFE}, text)
	bePath := writeUTF16(t, dir, "be.txt", unicode.BigEndian, [2]byte{0xFE, 0xFF}, text)

	leLines := readAll(t, lePath)
	beLines := readAll(t, bePath)
	assert.Equal(t, leLines, beLines)
	assert.Equal(t, []string{"PROJECT=Foo", "END PROJECT"}, leLines)
}

func readAll(t *testing.T, path string) []string {
	t.Helper()
	s, err := NewSpooler(path, true)
	require.NoError(t, err)
	var lines []string
	for {
		line, ok, err := s.ReadLine()
		require.NoError(t, err)
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

func TestSpooler_SkipsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("; a comment\nFOO=bar\n\n  \nBAZ=qux\n"), 0o644))

	lines := readAll(t, path)
	assert.Equal(t, []string{"FOO=bar", "BAZ=qux"}, lines)
}

func TestSpooler_MacroExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macro.txt")
	require.NoError(t, os.WriteFile(path, []byte("value=$(X) world\n"), 0o644))

	r := entities.NewMacroResolver("", "Dev", "", "", "", nil)
	r.AddMacro("X", "hello")
	s, err := NewSpooler(path, true, WithMacroResolver(r))
	require.NoError(t, err)

	line, ok, err := s.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value=hello world", line)
}

func TestSpooler_DisableMacroExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.txt")
	require.NoError(t, os.WriteFile(path, []byte("#include $(X)\n"), 0o644))

	r := entities.NewMacroResolver("", "Dev", "", "", "", nil)
	s, err := NewSpooler(path, true, WithMacroResolver(r))
	require.NoError(t, err)
	s.DisableMacroExpansion()

	line, ok, err := s.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#include $(X)", line)
}

func TestSpooler_LineNumberTracksStrippedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "numbered.txt")
	require.NoError(t, os.WriteFile(path, []byte("; comment\nFIRST=1\nSECOND=2\n"), 0o644))

	s, err := NewSpooler(path, true)
	require.NoError(t, err)

	_, ok, err := s.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, s.CurrentLineNumber())

	_, ok, err = s.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, s.CurrentLineNumber())
}

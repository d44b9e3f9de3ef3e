package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// fakeLineSource feeds a canned sequence of lines, for testing BlockParser
// without touching the filesystem.
type fakeLineSource struct {
	lines []string
	idx   int
}

func (f *fakeLineSource) ReadLine() (string, bool, error) {
	if f.idx >= len(f.lines) {
		return "", false, nil
	}
	line := f.lines[f.idx]
	f.idx++
	return line, true, nil
}

func (f *fakeLineSource) CurrentLineNumber() int { return f.idx }

var infoFields = []entities.FieldDescriptor{
	{Name: "SYMBOL", Required: true, Min: 1, Max: 1, Type: entities.FieldCppName},
	{Name: "AREA", Required: true, Min: 1, Max: 1, Type: entities.FieldCardinal},
	{Name: "THEME", Required: false, Min: 0, Max: 1, Type: entities.FieldAlpha},
}

// Round-trip property (spec §8 item 5): every declared field present at
// declared arity and type parses successfully with matching recorded values.
func TestBlockParser_RoundTrip(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"SYMBOL=ridMain",
		"AREA=0 0 200 100",
		"THEME=MainWnd",
		"END INFO",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	require.NoError(t, bp.Parse(src))

	assert.Equal(t, []string{"ridMain"}, bp.Values("SYMBOL"))
	assert.Equal(t, []string{"0", "0", "200", "100"}, bp.Values("AREA"))
	assert.Equal(t, []string{"MainWnd"}, bp.Values("THEME"))
}

func TestBlockParser_MissingRequiredField(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"AREA=0 0 200 100",
		"END INFO",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	err := bp.Parse(src)
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindFileFormat, kind)
}

func TestBlockParser_TooManyOccurrences(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"SYMBOL=ridMain",
		"AREA=0 0 200 100",
		"SYMBOL=ridOther",
		"END INFO",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	err := bp.Parse(src)
	require.Error(t, err)
}

func TestBlockParser_UnrecognizedField(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"SYMBOL=ridMain",
		"AREA=0 0 200 100",
		"BOGUS=1",
		"END INFO",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	err := bp.Parse(src)
	require.Error(t, err)
}

func TestBlockParser_TypeMismatch(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"SYMBOL=1Bad",
		"AREA=0 0 200 100",
		"END INFO",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	err := bp.Parse(src)
	require.Error(t, err)
}

func TestBlockParser_UnterminatedBlock(t *testing.T) {
	src := &fakeLineSource{lines: []string{
		"SYMBOL=ridMain",
		"AREA=0 0 200 100",
	}}
	bp := NewBlockParser(infoFields, "END INFO")
	err := bp.Parse(src)
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindUnexpectedEOF, kind)
}

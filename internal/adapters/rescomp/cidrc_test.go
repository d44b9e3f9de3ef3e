package rescomp

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

func writeCIDRC(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.CIDRC")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Scenario E (spec §8): a dialog with one PUSHBUTTON child round-trips
// through the text parser and the binary resource file.
func TestParseCIDRC_ScenarioE(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridMain 1000
AREA=0 0 200 100
THEME=MainWnd
END INFO
PUSHBUTTON=
SYMBOL=bnOK IdOk
AREA=60 70 80 20
TEXTSYM=midOK
END PUSHBUTTON
END DIALOG
`)
	msgIDs := map[string]int{"midOK": 5001}

	res, err := ParseCIDRC(path, msgIDs)
	require.NoError(t, err)
	require.Len(t, res.Dialogs, 1)

	d := res.Dialogs[0]
	assert.Equal(t, 1000, d.DialogResID)
	assert.Equal(t, entities.Area{X: 0, Y: 0, CX: 200, CY: 100}, d.Area)
	assert.Equal(t, entities.ThemeMainWnd, d.Theme)
	require.Len(t, d.Children, 1)

	child := d.Children[0]
	assert.Equal(t, 1, child.ItemResourceID) // IdOk maps to 1
	assert.Equal(t, entities.Area{X: 60, Y: 70, CX: 80, CY: 20}, child.Area)
	assert.Equal(t, 5001, child.TextMsgID)
	assert.Equal(t, "PUSHBUTTON", child.WidgetType)

	dir := t.TempDir()
	binPath := filepath.Join(dir, "Foo.CIDRes")
	require.NoError(t, WriteResourceFile(binPath, res))

	raw, err := os.ReadFile(binPath)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 8+16)

	version := binary.LittleEndian.Uint32(raw[0:4])
	count := binary.LittleEndian.Uint32(raw[4:8])
	assert.Equal(t, uint32(1), version)
	assert.Equal(t, uint32(1), count)

	idxID := binary.LittleEndian.Uint32(raw[8:12])
	idxType := binary.LittleEndian.Uint32(raw[12:16])
	idxOffset := binary.LittleEndian.Uint32(raw[16:20])
	idxSize := binary.LittleEndian.Uint32(raw[20:24])
	assert.Equal(t, uint32(1000), idxID)
	assert.Equal(t, uint32(entities.ResDialog), idxType)
	assert.Equal(t, uint32(24), idxOffset)
	assert.Equal(t, uint32(len(raw))-idxOffset, idxSize)

	payload := raw[idxOffset:]
	childCount := binary.LittleEndian.Uint32(payload[32:36])
	assert.Equal(t, uint32(1), childCount)

	childResID := binary.LittleEndian.Uint32(payload[36:40])
	assert.Equal(t, uint32(1), childResID)
}

func TestParseCIDRC_RejectsDuplicateResourceID(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridA 1000
AREA=0 0 10 10
THEME=None
END INFO
END DIALOG
DIALOG=
INFO=
SYMBOL=ridB 1000
AREA=0 0 10 10
THEME=None
END INFO
END DIALOG
`)
	_, err := ParseCIDRC(path, nil)
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindAlreadyExists, kind)
}

func TestParseCIDRC_RejectsDuplicateWidgetID(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridA 1000
AREA=0 0 10 10
THEME=None
END INFO
PUSHBUTTON=
SYMBOL=bnA 5
AREA=0 0 1 1
END PUSHBUTTON
PUSHBUTTON=
SYMBOL=bnB 5
AREA=0 0 1 1
END PUSHBUTTON
END DIALOG
`)
	_, err := ParseCIDRC(path, nil)
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindAlreadyExists, kind)
}

func TestParseCIDRC_RejectsMultipleInitFocus(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridA 1000
AREA=0 0 10 10
THEME=None
END INFO
PUSHBUTTON=
SYMBOL=bnA 5
AREA=0 0 1 1
FLAGS=InitFocus
END PUSHBUTTON
PUSHBUTTON=
SYMBOL=bnB 6
AREA=0 0 1 1
FLAGS=InitFocus
END PUSHBUTTON
END DIALOG
`)
	_, err := ParseCIDRC(path, nil)
	require.Error(t, err)
}

func TestParseCIDRC_UnresolvedTextSymFails(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridA 1000
AREA=0 0 10 10
THEME=None
TEXTSYM=midMissing
END INFO
END DIALOG
`)
	_, err := ParseCIDRC(path, map[string]int{})
	require.Error(t, err)
	kind, _ := entities.KindOf(err)
	assert.Equal(t, entities.KindNotFound, kind)
}

func TestParseCIDRC_MenuNesting(t *testing.T) {
	path := writeCIDRC(t, `MENU=
INFO=
SYMBOL=mnuMain 2000
END INFO
ITEM=
SYMBOL=micOpen 10
TEXTSYM=midOpen
END ITEM
SEPARATOR
SUBMENU=
INFO=
SYMBOL=mnuFile 11
TEXTSYM=midFile
END INFO
ITEM=
SYMBOL=micClose 12
TEXTSYM=midClose
END ITEM
END SUBMENU
END MENU
`)
	msgIDs := map[string]int{"midOpen": 100, "midFile": 101, "midClose": 102}

	res, err := ParseCIDRC(path, msgIDs)
	require.NoError(t, err)
	require.Len(t, res.Menus, 1)

	m := res.Menus[0]
	assert.Equal(t, 2000, m.ResID)
	require.Len(t, m.Items, 3)
	assert.Equal(t, entities.MenuActionItem, m.Items[0].Kind)
	assert.Equal(t, 100, m.Items[0].TextMsgID)
	assert.Equal(t, entities.MenuDecoration, m.Items[1].Kind)

	sub := m.Items[2]
	assert.Equal(t, entities.MenuSubMenu, sub.Kind)
	assert.Equal(t, 101, sub.TextMsgID)
	require.Len(t, sub.Children, 1)
	assert.Equal(t, 102, sub.Children[0].TextMsgID)
	assert.Equal(t, 1, sub.SubItemCount)
}

func TestParseCIDRC_CollectsSymbols(t *testing.T) {
	path := writeCIDRC(t, `DIALOG=
INFO=
SYMBOL=ridMain 1000
AREA=0 0 200 100
THEME=MainWnd
END INFO
PUSHBUTTON=
SYMBOL=bnOK IdOk
AREA=60 70 80 20
END PUSHBUTTON
END DIALOG
MENU=
INFO=
SYMBOL=mnuMain 2000
END INFO
ITEM=
SYMBOL=micOpen 10
END ITEM
END MENU
`)
	res, err := ParseCIDRC(path, nil)
	require.NoError(t, err)

	assert.Contains(t, res.Symbols, ResourceSymbol{Name: "ridMain", ID: 1000})
	assert.Contains(t, res.Symbols, ResourceSymbol{Name: "bnOK", ID: 1})
	assert.Contains(t, res.Symbols, ResourceSymbol{Name: "mnuMain", ID: 2000})
	assert.Contains(t, res.Symbols, ResourceSymbol{Name: "micOpen", ID: 10})
}

func TestIsWidgetType(t *testing.T) {
	assert.True(t, IsWidgetType("PUSHBUTTON"))
	assert.True(t, IsWidgetType("ENTRYFLD"))
	assert.False(t, IsWidgetType("NOTAWIDGET"))
}

package rescomp

import (
	"bytes"
	"encoding/binary"
	"os"
	"strconv"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// resourceFormatVersion tags the on-disk layout WriteResourceFile emits.
const resourceFormatVersion = 1

// WriteResourceFile emits the compiled binary resource file for res (spec
// §4.6.2): a {formatVersion, resourceCount} header, an index entry per
// resource ({id, typeTag, fileOffsetBytes, sizeBytes}), then the payloads
// back to back in the same order as the index.
func WriteResourceFile(path string, res *ParsedResources) error {
	type entry struct {
		id      int
		typ     entities.ResType
		payload []byte
	}

	var entries []entry
	for _, d := range res.Dialogs {
		entries = append(entries, entry{id: d.DialogResID, typ: entities.ResDialog, payload: encodeDialog(d)})
	}
	for i := range res.Menus {
		payload, err := encodeMenu(&res.Menus[i])
		if err != nil {
			return err
		}
		entries = append(entries, entry{id: res.Menus[i].ResID, typ: entities.ResMenu, payload: payload})
	}

	headerSize := uint32(8 + len(entries)*16)
	offset := headerSize

	var out bytes.Buffer
	writeU32(&out, resourceFormatVersion)
	writeU32(&out, uint32(len(entries)))
	for _, e := range entries {
		writeU32(&out, uint32(e.id))
		writeU32(&out, uint32(e.typ))
		writeU32(&out, offset)
		writeU32(&out, uint32(len(e.payload)))
		offset += uint32(len(e.payload))
	}
	for _, e := range entries {
		out.Write(e.payload)
	}

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "writing %s", path)
	}
	return nil
}

// encodeDialog emits a partially-filled descriptor, then each child record,
// then seeks back (via a byte-slice patch, since the whole record is built
// in memory) to fill in the real child count.
func encodeDialog(d entities.DialogRecord) []byte {
	var buf bytes.Buffer
	writeU32(&buf, uint32(d.DialogResID))
	writeI32(&buf, int32(d.Area.X))
	writeI32(&buf, int32(d.Area.Y))
	writeU32(&buf, uint32(d.Area.CX))
	writeU32(&buf, uint32(d.Area.CY))
	writeU32(&buf, uint32(d.TitleMsgID))
	writeU32(&buf, uint32(d.Theme))
	writeU32(&buf, uint32(d.Flags))

	countOffset := buf.Len()
	writeU32(&buf, 0)

	for _, c := range d.Children {
		encodeDialogItem(&buf, c)
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[countOffset:], uint32(len(d.Children)))
	return out
}

func encodeDialogItem(buf *bytes.Buffer, c entities.DialogItemRecord) {
	writeU32(buf, uint32(c.ItemResourceID))
	writeI32(buf, int32(c.Area.X))
	writeI32(buf, int32(c.Area.Y))
	writeU32(buf, uint32(c.Area.CX))
	writeU32(buf, uint32(c.Area.CY))
	writeU32(buf, uint32(c.TextMsgID))
	writeU32(buf, uint32(c.FlyoverMsgID))
	writeU32(buf, uint32(c.CueMsgID))
	writeU32(buf, uint32(c.Anchor))
	writeU32(buf, uint32(c.Flags))
	writeWideString(buf, c.Hints)
	writeWideString(buf, c.ItemType)
	writeWideString(buf, c.Image)
}

// encodeMenu mirrors encodeDialog's patch-the-count idiom, and additionally
// patches each item's NextSiblingOffset once its (and its subtree's) bytes
// are known, for a linear runtime walk (spec §3 "Menu item record"). Output
// accumulates in a buffer that is checked against entities.ScratchBufferSize
// before each item is written; reaching that size aborts with KindFull
// (spec §4.6.2).
func encodeMenu(m *entities.MenuRecord) ([]byte, error) {
	var buf bytes.Buffer
	writeU32(&buf, uint32(m.ResID))
	countOffset := buf.Len()
	writeU32(&buf, 0)
	if err := encodeMenuItems(&buf, m.Items); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[countOffset:], uint32(len(m.Items)))
	return out, nil
}

func encodeMenuItems(buf *bytes.Buffer, items []entities.MenuItemRecord) error {
	for i := range items {
		if buf.Len() >= entities.ScratchBufferSize {
			return entities.New(entities.KindFull, "menu scratch buffer overflowed %d bytes", entities.ScratchBufferSize)
		}

		itemStart := buf.Len()
		writeU32(buf, uint32(items[i].Kind))
		writeU32(buf, uint32(items[i].CommandID))
		writeU32(buf, uint32(items[i].TextMsgID))
		writeU32(buf, uint32(items[i].SubItemCount))

		nextOffsetPos := buf.Len()
		writeU32(buf, 0)

		if items[i].Kind == entities.MenuSubMenu {
			if err := encodeMenuItems(buf, items[i].Children); err != nil {
				return err
			}
		}

		out := buf.Bytes()
		nextOffset := buf.Len() - itemStart
		binary.LittleEndian.PutUint32(out[nextOffsetPos:], uint32(nextOffset))
		items[i].NextSiblingOffset = nextOffset
	}
	return nil
}

// WriteResourceSymbolHeader emits a C++ header of `constexpr
// tCIDLib::TResId name = id;` lines for every SYMBOL= declaration collected
// while parsing a .CIDRC source, inside namespace ns (spec §4.6.2 "Generated
// header"). Unchanged content skips the rewrite, mirroring WriteGeneratedHeader.
func WriteResourceSymbolHeader(path, ns string, syms []ResourceSymbol) error {
	var b strings.Builder
	b.WriteString("// Machine-generated. Do not edit.\n#pragma once\n\nnamespace ")
	b.WriteString(ns)
	b.WriteString("\n{\n")
	for _, sym := range syms {
		b.WriteString("    constexpr tCIDLib::TResId ")
		b.WriteString(sym.Name)
		b.WriteString(" = ")
		b.WriteString(strconv.Itoa(sym.ID))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	return writeIfDifferent(path, []byte(b.String()))
}

func writeWideString(buf *bytes.Buffer, s string) {
	units := utf16Units(s)
	units = append(units, 0)
	writeU16(buf, uint16(len(units)))
	for _, u := range units {
		writeU16(buf, u)
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeI32(buf *bytes.Buffer, v int32) {
	writeU32(buf, uint32(v))
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

// Package rescomp implements the two message/resource compilation
// pipelines driven off a project's .MsgText and .CIDRC source files.
package rescomp

import (
	"bytes"
	"encoding/binary"
	"os"
	"strconv"
	"strings"

	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ParseMsgText reads a .MsgText source and returns the fully-validated
// catalogue (spec §4.6.1): a CTRL= header naming the two generated
// namespaces, followed by zero or more MESSAGES=/ERRORS=/COMMON= blocks.
func ParseMsgText(path string) (*entities.MessageCatalogue, error) {
	s, err := parser.NewSpooler(path, true)
	if err != nil {
		return nil, err
	}

	var errPref, msgPref string
	var cat *entities.MessageCatalogue

	for {
		line, ok, rerr := s.ReadLine()
		if rerr != nil {
			return nil, rerr
		}
		if !ok {
			break
		}
		switch {
		case line == "CTRL=":
			errPref, msgPref, err = parseCtrl(s)
			if err != nil {
				return nil, err
			}
			cat = entities.NewMessageCatalogue(errPref, msgPref)
		case line == "MESSAGES=":
			if cat == nil {
				return nil, entities.New(entities.KindFileFormat, "MESSAGES block before CTRL=")
			}
			if err := parseEntries(s, "END MESSAGES", entities.CategoryMsg, cat); err != nil {
				return nil, err
			}
		case line == "ERRORS=":
			if cat == nil {
				return nil, entities.New(entities.KindFileFormat, "ERRORS block before CTRL=")
			}
			if err := parseEntries(s, "END ERRORS", entities.CategoryErr, cat); err != nil {
				return nil, err
			}
		case line == "COMMON=":
			if cat == nil {
				return nil, entities.New(entities.KindFileFormat, "COMMON block before CTRL=")
			}
			if err := parseEntries(s, "END COMMON", entities.CategoryCommon, cat); err != nil {
				return nil, err
			}
		default:
			return nil, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized top-level line %q", line)
		}
	}
	if cat == nil {
		return nil, entities.New(entities.KindFileFormat, "%s has no CTRL= block", path)
	}
	return cat, nil
}

func parseCtrl(s *parser.Spooler) (errPref, msgPref string, err error) {
	for {
		line, ok, rerr := s.ReadLine()
		if rerr != nil {
			return "", "", rerr
		}
		if !ok {
			return "", "", entities.New(entities.KindUnexpectedEOF, "unterminated CTRL block")
		}
		if line == "END CTRL" {
			return errPref, msgPref, nil
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			return "", "", entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "expected key=value in CTRL, got %q", line)
		}
		switch strings.TrimSpace(key) {
		case "ErrPref":
			errPref = strings.TrimSpace(val)
		case "MsgPref":
			msgPref = strings.TrimSpace(val)
		default:
			return "", "", entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized CTRL key %q", key)
		}
	}
}

// parseEntries reads "NAME ID text" lines (one per message, with quoting,
// continuation, and escape handling) until terminator.
func parseEntries(s *parser.Spooler, terminator string, category entities.MessageCategory, cat *entities.MessageCatalogue) error {
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", terminator)
		}
		if line == terminator {
			return nil
		}

		for strings.HasSuffix(line, `\`) {
			line = strings.TrimSuffix(line, `\`)
			cont, contOk, cerr := s.ReadLine()
			if cerr != nil {
				return cerr
			}
			if !contOk {
				return entities.New(entities.KindUnexpectedEOF, "continuation line missing before %q", terminator)
			}
			line += cont
		}

		name, id, text, err := parseEntryLine(line, s.CurrentLineNumber())
		if err != nil {
			return err
		}
		if err := cat.Add(entities.MessageRecord{Name: name, Category: category, ID: id, Text: text}, s.CurrentLineNumber()); err != nil {
			return err
		}
	}
}

func parseEntryLine(line string, lineNo int) (name string, id int, text string, err error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", 0, "", entities.NewAtLine(entities.KindFileFormat, lineNo, "expected NAME ID text, got %q", line)
	}
	name = parts[0]
	idStr := parts[1]
	id, convErr := strconv.Atoi(idStr)
	if convErr != nil {
		return "", 0, "", entities.NewAtLine(entities.KindFileFormat, lineNo, "%q is not a valid message id", idStr)
	}

	rest := strings.TrimPrefix(line, name)
	rest = strings.TrimPrefix(strings.TrimSpace(rest), idStr)
	rest = strings.TrimSpace(rest)
	rest = unquote(rest)
	text = unescape(rest)
	return name, id, text, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// catalogueIndexRecord is the on-disk {id, textOffsetBytes, textCharCount}
// record of spec §6.4, packed little-endian.
type catalogueIndexRecord struct {
	ID         uint32
	TextOffset uint32
	TextChars  uint16
}

// WriteCatalogue emits the binary message catalogue at path per spec §6.4:
// a record count, then one packed index record per message (in Records
// order), then the concatenated NUL-terminated wide-character texts.
//
// Wide characters are represented as UTF-16 code units to match the
// TCard2-sized "textCharsIncludingNul" field the format specifies.
func WriteCatalogue(path string, cat *entities.MessageCatalogue) error {
	var body bytes.Buffer
	records := make([]catalogueIndexRecord, 0, len(cat.Records))
	offset := uint32(0)

	for _, rec := range cat.Records {
		units := utf16Units(rec.Text)
		units = append(units, 0) // NUL terminator
		records = append(records, catalogueIndexRecord{
			ID:         uint32(rec.ID),
			TextOffset: offset,
			TextChars:  uint16(len(units)),
		})
		for _, u := range units {
			if err := binary.Write(&body, binary.LittleEndian, u); err != nil {
				return entities.Wrap(entities.KindCreateError, err, "encoding message %q", rec.Name)
			}
		}
		offset += uint32(len(units) * 2)
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, uint32(len(records))); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "writing record count")
	}
	for _, r := range records {
		if err := binary.Write(&out, binary.LittleEndian, r); err != nil {
			return entities.Wrap(entities.KindCreateError, err, "writing index record")
		}
	}
	out.Write(body.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "writing %s", path)
	}
	return nil
}

func utf16Units(s string) []uint16 {
	var out []uint16
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, uint16(r))
			continue
		}
		r -= 0x10000
		out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
	}
	return out
}

// WriteGeneratedHeader emits a C++ header of `const tCIDLib::TMsgId name =
// id;` lines for every entry of records, inside namespace ns. The file is
// written to a temp path and renamed over path only if its content differs
// from what's already there (spec §7's "atomic replace only if content
// differs").
func WriteGeneratedHeader(path, ns string, records []entities.MessageRecord) error {
	var b strings.Builder
	b.WriteString("// Machine-generated. Do not edit.\n#pragma once\n\nnamespace ")
	b.WriteString(ns)
	b.WriteString("\n{\n")
	for _, r := range records {
		b.WriteString("    const tCIDLib::TMsgId ")
		b.WriteString(r.Name)
		b.WriteString(" = ")
		b.WriteString(strconv.Itoa(r.ID))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	return writeIfDifferent(path, []byte(b.String()))
}

// writeIfDifferent compares new content against the existing file (if any)
// and only replaces it when they differ, so downstream builds are not
// triggered by a no-op regeneration (spec §7, §4.6.1).
func writeIfDifferent(path string, content []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "renaming %s to %s", tmp, path)
	}
	return nil
}

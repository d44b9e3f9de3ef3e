// Package parser implements the line spooler and block parser that every
// textual source file (project file, .MsgText, .CIDRC) is read through.
package parser

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// Spooler reads a source file line by line, transcoding UTF-16 (LE or BE,
// BOM-detected) or the platform default narrow encoding to UTF-8, stripping
// CR/LF, and optionally macro-expanding and whitespace-trimming each line
// (spec §4.1).
type Spooler struct {
	scanner         *bufio.Scanner
	lineNo          int
	stripWhitespace bool
	expandMacros    bool
	resolver        *entities.MacroResolver
}

// Option configures a Spooler at construction time.
type Option func(*Spooler)

// WithMacroResolver enables $(NAME) expansion using r. Without this option
// expansion is a no-op, matching the dependency analyser's need to disable
// it entirely (spec §4.5).
func WithMacroResolver(r *entities.MacroResolver) Option {
	return func(s *Spooler) {
		s.resolver = r
		s.expandMacros = r != nil
	}
}

// NewSpooler opens path, decodes its full contents per §4.1's encoding
// rules, and returns a Spooler ready for ReadLine. stripWhitespace controls
// whether leading/trailing whitespace is trimmed and blank/comment lines
// are skipped.
func NewSpooler(path string, stripWhitespace bool, opts ...Option) (*Spooler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, entities.Wrap(entities.KindOpenError, err, "opening %s", path)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, entities.Wrap(entities.KindReadError, err, "decoding %s", path)
	}
	text = normalizeNewlines(text)

	s := &Spooler{
		scanner:         bufio.NewScanner(strings.NewReader(text)),
		stripWhitespace: stripWhitespace,
	}
	s.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// decode sniffs a UTF-16 BOM at offset 0 and transcodes accordingly;
// otherwise treats raw as already being in a UTF-8-compatible narrow
// encoding, which covers the ASCII source files the build driver consumes
// in practice.
func decode(raw []byte) (string, error) {
	switch {
	case len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE:
		return transcodeUTF16(raw[2:], unicode.LittleEndian)
	case len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF:
		return transcodeUTF16(raw[2:], unicode.BigEndian)
	default:
		return string(raw), nil
	}
}

func transcodeUTF16(body []byte, endian unicode.Endianness) (string, error) {
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// normalizeNewlines delivers CRLF and bare CR as a single LF, per §4.1.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// ReadLine returns the next line with macro expansion (if enabled) and
// whitespace stripping (if enabled) applied, or ok=false at EOF.
func (s *Spooler) ReadLine() (line string, ok bool, err error) {
	for {
		if !s.scanner.Scan() {
			if scanErr := s.scanner.Err(); scanErr != nil {
				return "", false, entities.Wrap(entities.KindReadError, scanErr, "reading line %d", s.lineNo+1)
			}
			return "", false, nil
		}
		s.lineNo++
		raw := s.scanner.Text()

		if s.stripWhitespace {
			raw = strings.TrimSpace(raw)
			if raw == "" || strings.HasPrefix(raw, ";") {
				continue
			}
		}

		if s.expandMacros {
			expanded, expErr := entities.Expand(raw, s.resolver)
			if expErr != nil {
				if be, isBE := expErr.(*entities.BuildError); isBE {
					be.Line = s.lineNo
				}
				return "", false, expErr
			}
			raw = expanded
		}
		return raw, true, nil
	}
}

// CurrentLineNumber returns the 1-based line number of the line most
// recently returned by ReadLine.
func (s *Spooler) CurrentLineNumber() int {
	return s.lineNo
}

// DisableMacroExpansion turns off $(NAME) substitution, used by the
// dependency analyser so that source-level $() tokens in C++ headers are
// never mistaken for build macros (spec §4.5).
func (s *Spooler) DisableMacroExpansion() {
	s.expandMacros = false
}

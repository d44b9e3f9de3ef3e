package entities

import "strings"

// FieldType is the value-type tag a block field's occurrences are checked
// against (spec §3 "Block field descriptor", §4.2).
type FieldType int

const (
	FieldText FieldType = iota
	FieldCardinal
	FieldInteger
	FieldBoolean
	FieldAlpha
	FieldAlphaNum
	FieldAlphas
	FieldCppName
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "Text"
	case FieldCardinal:
		return "Cardinal"
	case FieldInteger:
		return "Integer"
	case FieldBoolean:
		return "Boolean"
	case FieldAlpha:
		return "Alpha"
	case FieldAlphaNum:
		return "AlphaNum"
	case FieldAlphas:
		return "Alphas"
	case FieldCppName:
		return "CppName"
	default:
		return "Unknown"
	}
}

// FieldDescriptor declares one field a block may contain: its name, whether
// it is required, how many times it may occur, and the type its values
// must satisfy.
type FieldDescriptor struct {
	Name     string
	Required bool
	Min      int
	Max      int
	Type     FieldType
}

// FieldOccurrence is one matched "FIELDNAME=value1, value2 ..." line: the
// raw values in declaration order and the source line they came from.
type FieldOccurrence struct {
	Line   int
	Values []string
}

// ValidateType checks a single value against ft, returning a descriptive
// error on mismatch. It never mutates its input.
func ValidateType(ft FieldType, value string) error {
	switch ft {
	case FieldText:
		if value == "" {
			return New(KindFileFormat, "text value cannot be empty")
		}
	case FieldCardinal:
		if !isCardinal(value) {
			return New(KindFileFormat, "%q is not a valid cardinal", value)
		}
	case FieldInteger:
		if !isInteger(value) {
			return New(KindFileFormat, "%q is not a valid integer", value)
		}
	case FieldBoolean:
		if !isBoolean(value) {
			return New(KindFileFormat, "%q is not a valid boolean (Yes/No/True/False)", value)
		}
	case FieldAlpha:
		if !isAlpha(value) {
			return New(KindFileFormat, "%q is not alphabetic", value)
		}
	case FieldAlphaNum:
		if !isAlphaNum(value) {
			return New(KindFileFormat, "%q is not alphanumeric", value)
		}
	case FieldAlphas:
		for _, tok := range strings.Fields(value) {
			if !isAlpha(tok) {
				return New(KindFileFormat, "%q is not whitespace-separated alpha tokens", value)
			}
		}
	case FieldCppName:
		if !isCppName(value) {
			return New(KindFileFormat, "%q is not a valid C++ identifier", value)
		}
	default:
		return New(KindInternal, "unknown field type %d", ft)
	}
	return nil
}

// ParseBoolean interprets Yes/No/True/False case-insensitively.
func ParseBoolean(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true":
		return true
	default:
		return false
	}
}

func isCardinal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return isCardinal(s)
}

func isBoolean(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "no", "true", "false":
		return true
	default:
		return false
	}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

func isAlphaNum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

func isCppName(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_') {
		return false
	}
	for _, r := range s[1:] {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '_' {
			return false
		}
	}
	return true
}

// ValidateProjectName checks the "alpha-leading identifier" rule spec §3
// requires of a project Name.
func ValidateProjectName(name string) error {
	if name == "" {
		return New(KindBadParams, "project name cannot be empty")
	}
	if !isCppName(name) || !isAlpha(name[:1]) {
		return New(KindBadParams, "project name %q must be an identifier starting with a letter", name)
	}
	return nil
}

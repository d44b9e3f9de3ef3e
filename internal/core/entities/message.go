package entities

import "strings"

// MessageCategory partitions a project's message catalogue into three
// disjoint numeric ranges (spec §3 "Message catalogue", §6.4).
type MessageCategory int

const (
	CategoryCommon MessageCategory = iota
	CategoryErr
	CategoryMsg
)

func (c MessageCategory) String() string {
	switch c {
	case CategoryCommon:
		return "Common"
	case CategoryErr:
		return "Err"
	case CategoryMsg:
		return "Msg"
	default:
		return "Unknown"
	}
}

// Message id ranges. Common ids are reserved low values shared across every
// project's catalogue; Msg and Err occupy disjoint bands above them so a
// single numeric id unambiguously identifies its category.
const (
	CommonIDMin = 1
	CommonIDMax = 999
	MsgIDMin    = 1000
	MsgIDMax    = 32767
	ErrIDMin    = 32768
	ErrIDMax    = 65535
)

// RangeFor returns the valid [min, max] id range for category.
func RangeFor(category MessageCategory) (int, int) {
	switch category {
	case CategoryCommon:
		return CommonIDMin, CommonIDMax
	case CategoryErr:
		return ErrIDMin, ErrIDMax
	case CategoryMsg:
		return MsgIDMin, MsgIDMax
	default:
		return 0, 0
	}
}

// MessageRecord is one entry of a .MsgText file: a symbolic name, the
// category it belongs to, its numeric id, and its (possibly multi-line,
// already-unescaped) text.
type MessageRecord struct {
	Name     string
	Category MessageCategory
	ID       int
	Text     string
}

// Validate checks Name is a valid C++ identifier, ID falls within its
// category's range, and Text is non-empty.
func (m *MessageRecord) Validate(line int) error {
	if !isCppName(m.Name) {
		return NewAtLine(KindFileFormat, line, "message name %q is not a valid identifier", m.Name)
	}
	min, max := RangeFor(m.Category)
	if m.ID < min || m.ID > max {
		return NewAtLine(KindIndexError, line, "message id %d for %s is out of range [%d, %d]", m.ID, m.Category, min, max)
	}
	if strings.TrimSpace(m.Text) == "" {
		return NewAtLine(KindFileFormat, line, "message %q has empty text", m.Name)
	}
	return nil
}

// MessageCatalogue holds every MessageRecord parsed from one .MsgText file,
// plus the shared prefixes applied to generated symbol names (spec §4.5's
// CTRL= ErrPref= MsgPref= header fields).
type MessageCatalogue struct {
	ErrPrefix string
	MsgPrefix string
	Records   []MessageRecord
	byID      map[int]string // id -> name, for uniqueness checks across categories
}

// NewMessageCatalogue returns an empty catalogue.
func NewMessageCatalogue(errPrefix, msgPrefix string) *MessageCatalogue {
	return &MessageCatalogue{
		ErrPrefix: errPrefix,
		MsgPrefix: msgPrefix,
		byID:      make(map[int]string),
	}
}

// Add validates rec and appends it, rejecting a duplicate id across the
// whole catalogue (ids must be globally unique even across categories,
// since they ultimately address the same binary resource id-space).
func (c *MessageCatalogue) Add(rec MessageRecord, line int) error {
	if err := rec.Validate(line); err != nil {
		return err
	}
	if existing, ok := c.byID[rec.ID]; ok {
		return NewAtLine(KindAlreadyExists, line, "message id %d already used by %q", rec.ID, existing)
	}
	c.byID[rec.ID] = rec.Name
	c.Records = append(c.Records, rec)
	return nil
}

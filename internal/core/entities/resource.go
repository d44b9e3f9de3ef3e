package entities

// ResType tags one entry of a compiled resource file's index.
type ResType int

const (
	ResDialog ResType = iota
	ResMenu
)

func (t ResType) String() string {
	switch t {
	case ResDialog:
		return "Dialog"
	case ResMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// Theme is a dialog's visual role, affecting which system colors/metrics
// it inherits at runtime.
type Theme int

const (
	ThemeMainWnd Theme = iota
	ThemeDialogBox
	ThemeNone
)

// DialogFlag is one bit of a dialog's Flags set.
type DialogFlag int

const (
	DialogSizeable DialogFlag = 1 << iota
	DialogUseOrigin
	DialogScreenOrigin
	DialogSetFgn
)

// Anchor is one of the eight positional resize/reposition combinations a
// dialog item may declare (spec §3 "Dialog item record").
type Anchor int

const (
	AnchorMoveBottom Anchor = iota
	AnchorMoveRight
	AnchorMoveBottomRight
	AnchorSizeBottom
	AnchorSizeRight
	AnchorSizeBottomRight
	AnchorMoveBottomSizeRight
	AnchorSizeBottomMoveRight
)

var anchorNames = map[string]Anchor{
	"MoveBottom":          AnchorMoveBottom,
	"MoveRight":           AnchorMoveRight,
	"MoveBottomRight":     AnchorMoveBottomRight,
	"SizeBottom":          AnchorSizeBottom,
	"SizeRight":           AnchorSizeRight,
	"SizeBottomRight":     AnchorSizeBottomRight,
	"MoveBottomSizeRight": AnchorMoveBottomSizeRight,
	"SizeBottomMoveRight": AnchorSizeBottomMoveRight,
}

// ParseAnchor resolves one of the eight spelled-out anchor names.
func ParseAnchor(s string) (Anchor, error) {
	if a, ok := anchorNames[s]; ok {
		return a, nil
	}
	return 0, New(KindFileFormat, "%q is not a valid ANCHOR value", s)
}

// ItemFlag is one bit of a dialog item's Flags set.
type ItemFlag int

const (
	ItemInitFocus ItemFlag = 1 << iota
	ItemDisabled
)

// Area is the on-screen rectangle a dialog or item occupies.
type Area struct {
	X, Y, CX, CY int
}

// DialogItemRecord is one child widget of a DIALOG= block (spec §3).
type DialogItemRecord struct {
	ItemResourceID int
	WidgetType     string // e.g. "PUSHBUTTON", "ENTRYFLD"
	Area           Area
	TextMsgID      int
	FlyoverMsgID   int
	CueMsgID       int
	Hints          string
	ItemType       string
	Image          string
	Anchor         Anchor
	Flags          ItemFlag
}

// HasFlag reports whether f is set.
func (r *DialogItemRecord) HasFlag(f ItemFlag) bool { return r.Flags&f != 0 }

// DialogRecord is the fully-parsed contents of one DIALOG= block.
type DialogRecord struct {
	FormatVersion int
	DialogResID   int
	Area          Area
	TitleMsgID    int
	Theme         Theme
	Flags         DialogFlag
	Children      []DialogItemRecord
}

// HasFlag reports whether f is set.
func (d *DialogRecord) HasFlag(f DialogFlag) bool { return d.Flags&f != 0 }

// ValidateUniqueInitFocus enforces spec §3's "InitFocus may appear on at
// most one widget per dialog" rule.
func (d *DialogRecord) ValidateUniqueInitFocus() error {
	count := 0
	for _, c := range d.Children {
		if c.HasFlag(ItemInitFocus) {
			count++
		}
	}
	if count > 1 {
		return New(KindFileFormat, "dialog %d has InitFocus set on %d widgets, only one is allowed", d.DialogResID, count)
	}
	return nil
}

// MenuItemKind distinguishes the tagged union of MenuItemRecord.
type MenuItemKind int

const (
	MenuActionItem MenuItemKind = iota
	MenuSubMenu
	MenuDecoration
)

// MenuItemRecord is one entry of a MENU= block: an action item, a nested
// sub-menu, or a decoration (separator). Sub-menus recurse via Children;
// NextSiblingOffset is computed at emission time for linear runtime walks.
type MenuItemRecord struct {
	Kind              MenuItemKind
	CommandID         int
	TextMsgID         int
	Children          []MenuItemRecord // populated only for MenuSubMenu
	NextSiblingOffset int
	SubItemCount      int
}

// MenuRecord is the fully-parsed contents of one MENU= block.
type MenuRecord struct {
	Name  string
	ResID int
	Items []MenuItemRecord
}

// ScratchBufferSize bounds the menu compiler's accumulation buffer; an
// overflow aborts with KindFull (spec §4.6.2, §9 "fixed-size scratch
// buffers").
const ScratchBufferSize = 16 * 1024

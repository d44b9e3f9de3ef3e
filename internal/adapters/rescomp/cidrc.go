package rescomp

import (
	"strconv"
	"strings"

	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ParsedResources is the fully-parsed contents of one .CIDRC source: every
// DIALOG= and MENU= block it declares, in file order.
type ParsedResources struct {
	Dialogs []entities.DialogRecord
	Menus   []entities.MenuRecord
	Symbols []ResourceSymbol
}

// ResourceSymbol is one SYMBOL= declaration (dialog, widget, menu, or menu
// item), captured for the generated symbol header (spec §4.6.2).
type ResourceSymbol struct {
	Name string
	ID   int
}

var dialogInfoFields = []entities.FieldDescriptor{
	{Name: "SYMBOL", Required: true, Max: 1, Type: entities.FieldText},
	{Name: "AREA", Required: true, Max: 1, Type: entities.FieldInteger},
	{Name: "THEME", Required: true, Max: 1, Type: entities.FieldAlpha},
	{Name: "TEXTSYM", Max: 1, Type: entities.FieldCppName},
	{Name: "FLAGS", Max: 1, Type: entities.FieldAlpha},
}

var widgetFields = []entities.FieldDescriptor{
	{Name: "SYMBOL", Max: 1, Type: entities.FieldText},
	{Name: "AREA", Required: true, Max: 1, Type: entities.FieldInteger},
	{Name: "TEXTSYM", Max: 1, Type: entities.FieldCppName},
	{Name: "FLYOVERSYM", Max: 1, Type: entities.FieldCppName},
	{Name: "CUESYM", Max: 1, Type: entities.FieldCppName},
	{Name: "HINTS", Max: 1, Type: entities.FieldText},
	{Name: "FLAGS", Max: 1, Type: entities.FieldAlpha},
	{Name: "IMAGE", Max: 1, Type: entities.FieldText},
	{Name: "ANCHOR", Max: 1, Type: entities.FieldAlpha},
}

var menuInfoFields = []entities.FieldDescriptor{
	{Name: "SYMBOL", Required: true, Max: 1, Type: entities.FieldText},
}

var menuItemFields = []entities.FieldDescriptor{
	{Name: "SYMBOL", Max: 1, Type: entities.FieldText},
	{Name: "TEXTSYM", Max: 1, Type: entities.FieldCppName},
}

// ParseCIDRC reads a .CIDRC source and returns every dialog and menu it
// declares. msgIDs resolves a TEXTSYM/FLYOVERSYM/CUESYM symbol name to the
// numeric id assigned by the companion .MsgText catalogue (spec §4.6.2
// "symbol resolved against the message id table").
func ParseCIDRC(path string, msgIDs map[string]int) (*ParsedResources, error) {
	s, err := parser.NewSpooler(path, true)
	if err != nil {
		return nil, err
	}

	var out ParsedResources
	seenIDs := make(map[int]string)

	for {
		line, ok, rerr := s.ReadLine()
		if rerr != nil {
			return nil, rerr
		}
		if !ok {
			break
		}
		switch {
		case line == "DIALOG=":
			d, derr := parseDialog(s, msgIDs, seenIDs, &out.Symbols)
			if derr != nil {
				return nil, derr
			}
			out.Dialogs = append(out.Dialogs, *d)
		case line == "MENU=":
			m, merr := parseMenu(s, msgIDs, seenIDs, &out.Symbols)
			if merr != nil {
				return nil, merr
			}
			out.Menus = append(out.Menus, *m)
		default:
			return nil, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized top-level line %q", line)
		}
	}
	return &out, nil
}

func parseDialog(s *parser.Spooler, msgIDs map[string]int, seenIDs map[int]string, syms *[]ResourceSymbol) (*entities.DialogRecord, error) {
	startLine := s.CurrentLineNumber()
	line, ok, err := s.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok || line != "INFO=" {
		return nil, entities.NewAtLine(entities.KindFileFormat, startLine, "DIALOG block must open with INFO=")
	}

	bp := parser.NewBlockParser(dialogInfoFields, "END INFO")
	if err := bp.Parse(s); err != nil {
		return nil, err
	}

	symName, resID, err := parseSymbolPair(bp.Values("SYMBOL"), s.CurrentLineNumber(), false)
	if err != nil {
		return nil, err
	}
	recordSymbol(syms, symName, resID)
	area, err := parseArea(bp.Values("AREA"), s.CurrentLineNumber())
	if err != nil {
		return nil, err
	}
	theme, err := parseTheme(mustValue(bp, "THEME"), s.CurrentLineNumber())
	if err != nil {
		return nil, err
	}
	flags, err := parseDialogFlags(bp.Values("FLAGS"), s.CurrentLineNumber())
	if err != nil {
		return nil, err
	}
	var titleMsgID int
	if sym, found := bp.Value("TEXTSYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		titleMsgID = id
	}

	rec := &entities.DialogRecord{
		FormatVersion: 1,
		DialogResID:   resID,
		Area:          area,
		TitleMsgID:    titleMsgID,
		Theme:         theme,
		Flags:         flags,
	}

	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entities.New(entities.KindUnexpectedEOF, "unterminated DIALOG block for id %d", resID)
		}
		if line == "END DIALOG" {
			break
		}
		widgetType, found := strings.CutSuffix(line, "=")
		if !found || !IsWidgetType(widgetType) {
			return nil, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized DIALOG child block %q", line)
		}
		item, ierr := parseWidget(s, widgetType, msgIDs, syms)
		if ierr != nil {
			return nil, ierr
		}
		rec.Children = append(rec.Children, *item)
	}

	if err := rec.ValidateUniqueInitFocus(); err != nil {
		return nil, err
	}
	if err := checkUniqueWidgetIDs(rec); err != nil {
		return nil, err
	}
	if err := claimResourceID(seenIDs, resID, "dialog", s.CurrentLineNumber()); err != nil {
		return nil, err
	}
	return rec, nil
}

func checkUniqueWidgetIDs(rec *entities.DialogRecord) error {
	seen := make(map[int]bool, len(rec.Children))
	for _, c := range rec.Children {
		if c.ItemResourceID == 0 {
			continue
		}
		if seen[c.ItemResourceID] {
			return entities.New(entities.KindAlreadyExists, "dialog %d has duplicate widget id %d", rec.DialogResID, c.ItemResourceID)
		}
		seen[c.ItemResourceID] = true
	}
	return nil
}

func claimResourceID(seenIDs map[int]string, id int, kind string, line int) error {
	if prev, exists := seenIDs[id]; exists {
		return entities.NewAtLine(entities.KindAlreadyExists, line, "resource id %d already used by %q", id, prev)
	}
	seenIDs[id] = kind
	return nil
}

func parseWidget(s *parser.Spooler, widgetType string, msgIDs map[string]int, syms *[]ResourceSymbol) (*entities.DialogItemRecord, error) {
	bp := parser.NewBlockParser(widgetFields, "END "+widgetType)
	if err := bp.Parse(s); err != nil {
		return nil, err
	}

	item := &entities.DialogItemRecord{WidgetType: widgetType, ItemType: widgetType}

	if vals := bp.Values("SYMBOL"); len(vals) > 0 {
		name, id, err := parseSymbolPair(vals, s.CurrentLineNumber(), true)
		if err != nil {
			return nil, err
		}
		item.ItemResourceID = id
		recordSymbol(syms, name, id)
	}

	area, err := parseArea(bp.Values("AREA"), s.CurrentLineNumber())
	if err != nil {
		return nil, err
	}
	item.Area = area

	if sym, found := bp.Value("TEXTSYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		item.TextMsgID = id
	}
	if sym, found := bp.Value("FLYOVERSYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		item.FlyoverMsgID = id
	}
	if sym, found := bp.Value("CUESYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		item.CueMsgID = id
	}
	if v, found := bp.Value("HINTS"); found {
		item.Hints = v
	}
	if v, found := bp.Value("IMAGE"); found {
		item.Image = v
	}
	if v, found := bp.Value("ANCHOR"); found {
		a, aerr := entities.ParseAnchor(v)
		if aerr != nil {
			return nil, aerr
		}
		item.Anchor = a
	}
	if vals := bp.Values("FLAGS"); len(vals) > 0 {
		fl, ferr := parseItemFlags(vals, s.CurrentLineNumber())
		if ferr != nil {
			return nil, ferr
		}
		item.Flags = fl
	}
	return item, nil
}

func parseMenu(s *parser.Spooler, msgIDs map[string]int, seenIDs map[int]string, syms *[]ResourceSymbol) (*entities.MenuRecord, error) {
	startLine := s.CurrentLineNumber()
	line, ok, err := s.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok || line != "INFO=" {
		return nil, entities.NewAtLine(entities.KindFileFormat, startLine, "MENU block must open with INFO=")
	}

	bp := parser.NewBlockParser(menuInfoFields, "END INFO")
	if err := bp.Parse(s); err != nil {
		return nil, err
	}

	name, resID, err := parseSymbolPair(bp.Values("SYMBOL"), s.CurrentLineNumber(), false)
	if err != nil {
		return nil, err
	}
	recordSymbol(syms, name, resID)

	items, err := parseMenuItems(s, "END MENU", msgIDs, syms)
	if err != nil {
		return nil, err
	}

	if err := claimResourceID(seenIDs, resID, "menu", s.CurrentLineNumber()); err != nil {
		return nil, err
	}

	return &entities.MenuRecord{Name: name, ResID: resID, Items: items}, nil
}

func parseMenuItems(s *parser.Spooler, terminator string, msgIDs map[string]int, syms *[]ResourceSymbol) ([]entities.MenuItemRecord, error) {
	var items []entities.MenuItemRecord
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", terminator)
		}
		if line == terminator {
			return items, nil
		}

		switch {
		case line == "ITEM=":
			item, err := parseMenuLeaf(s, "END ITEM", entities.MenuActionItem, msgIDs, syms)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		case line == "SEPARATOR":
			items = append(items, entities.MenuItemRecord{Kind: entities.MenuDecoration})
		case line == "SUBMENU=":
			item, err := parseSubMenu(s, msgIDs, syms)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		default:
			return nil, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized MENU child block %q", line)
		}
	}
}

func parseMenuLeaf(s *parser.Spooler, terminator string, kind entities.MenuItemKind, msgIDs map[string]int, syms *[]ResourceSymbol) (*entities.MenuItemRecord, error) {
	bp := parser.NewBlockParser(menuItemFields, terminator)
	if err := bp.Parse(s); err != nil {
		return nil, err
	}

	item := &entities.MenuItemRecord{Kind: kind}
	if vals := bp.Values("SYMBOL"); len(vals) > 0 {
		name, id, err := parseSymbolPair(vals, s.CurrentLineNumber(), false)
		if err != nil {
			return nil, err
		}
		item.CommandID = id
		recordSymbol(syms, name, id)
	}
	if sym, found := bp.Value("TEXTSYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		item.TextMsgID = id
	}
	return item, nil
}

func parseSubMenu(s *parser.Spooler, msgIDs map[string]int, syms *[]ResourceSymbol) (*entities.MenuItemRecord, error) {
	startLine := s.CurrentLineNumber()
	line, ok, err := s.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok || line != "INFO=" {
		return nil, entities.NewAtLine(entities.KindFileFormat, startLine, "SUBMENU block must open with INFO=")
	}

	bp := parser.NewBlockParser(menuItemFields, "END INFO")
	if err := bp.Parse(s); err != nil {
		return nil, err
	}

	item := &entities.MenuItemRecord{Kind: entities.MenuSubMenu}
	if vals := bp.Values("SYMBOL"); len(vals) > 0 {
		name, id, err := parseSymbolPair(vals, s.CurrentLineNumber(), false)
		if err != nil {
			return nil, err
		}
		item.CommandID = id
		recordSymbol(syms, name, id)
	}
	if sym, found := bp.Value("TEXTSYM"); found {
		id, rerr := resolveMsgID(msgIDs, sym, s.CurrentLineNumber())
		if rerr != nil {
			return nil, rerr
		}
		item.TextMsgID = id
	}

	children, err := parseMenuItems(s, "END SUBMENU", msgIDs, syms)
	if err != nil {
		return nil, err
	}
	item.Children = children
	item.SubItemCount = len(children)
	return item, nil
}

// parseSymbolPair splits a "name id" SYMBOL value pair. When allowSpecial is
// set, the widget-only shorthand names IdOk (1) and IdCancel (2) are
// accepted in place of a literal cardinal (spec §4.6.2).
func parseSymbolPair(values []string, line int, allowSpecial bool) (string, int, error) {
	if len(values) != 2 {
		return "", 0, entities.NewAtLine(entities.KindFileFormat, line, "SYMBOL requires a name and an id, got %v", values)
	}
	name, idTok := values[0], values[1]
	if err := entities.ValidateType(entities.FieldCppName, name); err != nil {
		return "", 0, entities.NewAtLine(entities.KindFileFormat, line, "SYMBOL name: %v", err)
	}
	if allowSpecial {
		switch idTok {
		case "IdOk":
			return name, 1, nil
		case "IdCancel":
			return name, 2, nil
		}
	}
	if entities.ValidateType(entities.FieldCardinal, idTok) != nil {
		return "", 0, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid SYMBOL id", idTok)
	}
	id, _ := strconv.Atoi(idTok)
	return name, id, nil
}

func parseArea(values []string, line int) (entities.Area, error) {
	if len(values) != 4 {
		return entities.Area{}, entities.NewAtLine(entities.KindFileFormat, line, "AREA requires 4 values, got %d", len(values))
	}
	nums := make([]int, 4)
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return entities.Area{}, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid AREA coordinate", v)
		}
		nums[i] = n
	}
	if nums[2] < 0 || nums[3] < 0 {
		return entities.Area{}, entities.NewAtLine(entities.KindFileFormat, line, "AREA width/height must be cardinal, got cx=%d cy=%d", nums[2], nums[3])
	}
	return entities.Area{X: nums[0], Y: nums[1], CX: nums[2], CY: nums[3]}, nil
}

func parseTheme(v string, line int) (entities.Theme, error) {
	switch v {
	case "MainWnd":
		return entities.ThemeMainWnd, nil
	case "DialogBox":
		return entities.ThemeDialogBox, nil
	case "None":
		return entities.ThemeNone, nil
	default:
		return 0, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid THEME", v)
	}
}

func parseDialogFlags(values []string, line int) (entities.DialogFlag, error) {
	var f entities.DialogFlag
	for _, v := range values {
		switch v {
		case "Sizeable":
			f |= entities.DialogSizeable
		case "UseOrigin":
			f |= entities.DialogUseOrigin
		case "ScreenOrigin":
			f |= entities.DialogScreenOrigin
		case "SetFgn":
			f |= entities.DialogSetFgn
		default:
			return 0, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid dialog FLAGS value", v)
		}
	}
	return f, nil
}

func parseItemFlags(values []string, line int) (entities.ItemFlag, error) {
	var f entities.ItemFlag
	for _, v := range values {
		switch v {
		case "InitFocus":
			f |= entities.ItemInitFocus
		case "Disabled":
			f |= entities.ItemDisabled
		default:
			return 0, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid widget FLAGS value", v)
		}
	}
	return f, nil
}

func resolveMsgID(msgIDs map[string]int, sym string, line int) (int, error) {
	id, found := msgIDs[sym]
	if !found {
		return 0, entities.NewAtLine(entities.KindNotFound, line, "symbol %q not found in message table", sym)
	}
	return id, nil
}

func mustValue(bp *parser.BlockParser, field string) string {
	v, _ := bp.Value(field)
	return v
}

// recordSymbol appends name/id to syms if a SYMBOL= declaration was present.
func recordSymbol(syms *[]ResourceSymbol, name string, id int) {
	if name == "" {
		return
	}
	*syms = append(*syms, ResourceSymbol{Name: name, ID: id})
}

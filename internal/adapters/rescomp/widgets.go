package rescomp

// widgetTypeNames is the table of recognized DIALOG= child-block keywords
// (spec §4.6.2 "~40 types total"). Every entry shares the same field
// descriptor set (widgetFields); the keyword itself becomes the child's
// WidgetType/ItemType on disk.
var widgetTypeNames = map[string]bool{
	"PUSHBUTTON":     true,
	"ENTRYFLD":       true,
	"STATICTEXT":     true,
	"STATICIMG":      true,
	"CHECKBOX":       true,
	"RADIOBUTTON":    true,
	"COMBOBOX":       true,
	"LISTBOX":        true,
	"MULTICOLLIST":   true,
	"MULTIEDIT":      true,
	"PROGRESSBAR":    true,
	"SLIDER":         true,
	"SPINBOX":        true,
	"TIMESPIN":       true,
	"NUMSPIN":        true,
	"TREEVIEW":       true,
	"GROUPBOX":       true,
	"TAB":            true,
	"CALENDAR":       true,
	"COLORPICK":      true,
	"FILESELECT":     true,
	"DIRSELECT":      true,
	"MENUBUTTON":     true,
	"TOOLBAR":        true,
	"STATUSBAR":      true,
	"SEPARATOR":      true,
	"PALETTE":        true,
	"GRAPH":          true,
	"METER":          true,
	"CLOCK":          true,
	"MARQUEE":        true,
	"WEBBROWSER":     true,
	"ATTREDIT":       true,
	"GENERICWND":     true,
	"CUSTOMDRAW":     true,
	"BOOLTAB":        true,
	"VOLUMEKNOB":     true,
	"LEDBOOL":        true,
	"REGIONSELECT":   true,
	"TEXTOUT":        true,
	"ACTIVEPALETTE":  true,
}

// IsWidgetType reports whether keyword names a known dialog child widget.
func IsWidgetType(keyword string) bool {
	return widgetTypeNames[keyword]
}

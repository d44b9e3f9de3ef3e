package entities

import (
	"sort"
	"strings"
	"time"
)

// ProjectType is one of the kinds of artifact a project produces.
type ProjectType string

const (
	TypeExecutable ProjectType = "Executable"
	TypeService    ProjectType = "Service"
	TypeSharedLib  ProjectType = "SharedLib"
	TypeSharedObj  ProjectType = "SharedObj"
	TypeStaticLib  ProjectType = "StaticLib"
	TypeFileCopy   ProjectType = "FileCopy"
	TypeGroup      ProjectType = "Group"
)

// DisplayType controls how an Executable project is launched.
type DisplayType string

const (
	DisplayNone    DisplayType = "None"
	DisplayConsole DisplayType = "Console"
	DisplayGUI     DisplayType = "GUI"
)

// Flags collects the project-level boolean switches of spec §3.
type Flags struct {
	Sample         bool
	HasMessageFile bool
	HasResFile     bool
	NeedsAdminPriv bool
	HasPlatformDir bool
	PureCpp        bool
	UsesSysLibs    bool
	UsesVarArgs    bool
	Versioned      bool
	BaseAddress    int // 0 = unbased
}

// IDLEntry describes one .CIDIDL source in a project and the outputs the
// IDL compiler should produce for it (spec §3 "IDL entry").
type IDLEntry struct {
	SourceFile   string
	NameExt      string
	TSPath       string
	GenClient    bool
	GenServer    bool
	GenGlobals   bool
	GenCSharp    bool
	GenTypeScript bool
	Mappings     []string // literal "/Mapping=key=value" arguments
}

// Validate enforces that NameExt is present whenever Globals output is
// requested (spec §4.4 IDLFILE grammar note).
func (e *IDLEntry) Validate(line int) error {
	if e.GenGlobals && e.NameExt == "" {
		return NewAtLine(KindFileFormat, line, "IDLFILE %s: NAMEEXT is required when GEN includes GLOBALS", e.SourceFile)
	}
	return nil
}

// FileCopyBlock is one FILECOPIES target=... block: a destination path and
// the project-relative source filenames copied to it.
type FileCopyBlock struct {
	TargetPath string
	Sources    []string
}

// SourceFile records one tracked .cpp/.hpp file with its last-write-time
// and size, as scanned from the project directory (spec §3 "Computed").
type SourceFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// Project is the in-memory representation of one parsed PROJECT= block.
type Project struct {
	Name          string
	Directory     string // relative to Source/AllProjects/, defaults to Name
	Type          ProjectType
	Display       DisplayType
	PlatformIncl  []string
	PlatformExcl  []string
	Flags         Flags
	ExportKeyword string

	Dependencies []string
	ExtLibs      []string
	ExtIncludes  []string
	Defines      []KV // project-local macro definitions, declaration order

	IDLEntries  []IDLEntry
	FileCopies  []FileCopyBlock
	CustCmds    []string
	// PlatformOptions maps a platform name (or "" for all platforms) to
	// its key/value compiler/linker switches.
	PlatformOptions map[string][]KV

	// Computed fields, populated after parsing.
	GraphIndex int
	CppFiles   []SourceFile
	HppFiles   []SourceFile
}

// NewProject validates name and returns a Project defaulting Directory to
// name and Type to Executable.
func NewProject(name string) (*Project, error) {
	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}
	return &Project{
		Name:            name,
		Directory:       name,
		Type:            TypeExecutable,
		Display:         DisplayNone,
		PlatformOptions: make(map[string][]KV),
		GraphIndex:      -1,
	}, nil
}

// IncludedOnPlatform applies the gating rule of spec §3: excluded if the
// include list is non-empty and omits platform; else excluded if the
// exclude list contains platform; else included.
func (p *Project) IncludedOnPlatform(platform string) bool {
	if len(p.PlatformIncl) > 0 && !containsFold(p.PlatformIncl, platform) {
		return false
	}
	if containsFold(p.PlatformExcl, platform) {
		return false
	}
	return true
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// Macro resolves a project-local define by key, returning the last
// declared value (later DEFINES entries override earlier, matching the
// ALLPROJECTS macro-list convention of §4.1).
func (p *Project) Macro(key string) (string, bool) {
	for i := len(p.Defines) - 1; i >= 0; i-- {
		if p.Defines[i].Key == key {
			return p.Defines[i].Value, true
		}
	}
	return "", false
}

// PlatformOptionsFor returns the merged key/value options applying to
// platform: the wildcard ("") entries followed by the platform-specific
// ones, so platform-specific values can be looked up last-wins by callers.
func (p *Project) PlatformOptionsFor(platform string) []KV {
	var out []KV
	out = append(out, p.PlatformOptions[""]...)
	out = append(out, p.PlatformOptions[platform]...)
	return out
}

// SortedCppFiles returns CppFiles ordered by case-insensitive name, per
// spec §5's "directory-enumeration order sorted deterministically".
func (p *Project) SortedCppFiles() []SourceFile {
	out := append([]SourceFile(nil), p.CppFiles...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SortedHppFiles mirrors SortedCppFiles for headers.
func (p *Project) SortedHppFiles() []SourceFile {
	out := append([]SourceFile(nil), p.HppFiles...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

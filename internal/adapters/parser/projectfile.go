package parser

import (
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ProjectFileOptions carries the implicit macro seeds and the target
// platform used to gate PROJECT=[incl,excl] blocks (spec §4.4).
type ProjectFileOptions struct {
	Platform    string
	Mode        string
	CIDSrcDir   string
	PlatformDir string
	SrcRoot     string
	OutDir      string
	LookupEnv   func(string) (string, bool)
}

// ParseProjectFile reads the master project file at path and returns the
// fully-linked ProjectList: every project constructed, platform-excluded
// ones skipped, dependencies wired into the graph, and cycles checked.
func ParseProjectFile(path string, opts ProjectFileOptions) (*entities.ProjectList, error) {
	resolver := entities.NewMacroResolver(opts.CIDSrcDir, opts.Mode, opts.PlatformDir, opts.SrcRoot, opts.OutDir, opts.LookupEnv)
	spooler, err := NewSpooler(path, true, WithMacroResolver(resolver))
	if err != nil {
		return nil, err
	}

	pl := entities.NewProjectList()
	sawAllProjects := false

	for {
		line, ok, rerr := spooler.ReadLine()
		if rerr != nil {
			return nil, rerr
		}
		if !ok {
			break
		}

		switch {
		case line == "ALLPROJECTS=":
			if err := parseAllProjects(spooler, resolver, pl); err != nil {
				return nil, err
			}
			sawAllProjects = true
		case strings.HasPrefix(line, "PROJECT="):
			if err := parseProjectHeaderAndBody(spooler, line, opts.Platform, pl); err != nil {
				return nil, err
			}
		default:
			return nil, entities.NewAtLine(entities.KindFileFormat, spooler.CurrentLineNumber(), "unrecognized top-level line %q", line)
		}
	}

	if !sawAllProjects {
		return nil, entities.New(entities.KindFileFormat, "project file %s has no ALLPROJECTS block", path)
	}

	if err := pl.LinkDependencies(); err != nil {
		return nil, err
	}
	if err := pl.CheckCycles(); err != nil {
		return nil, err
	}
	return pl, nil
}

func parseAllProjects(s *Spooler, resolver *entities.MacroResolver, pl *entities.ProjectList) error {
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return entities.New(entities.KindUnexpectedEOF, "unterminated ALLPROJECTS block")
		}
		switch {
		case line == "END ALLPROJECTS":
			return nil
		case line == "EXTLIBS=":
			vals, err := collectTokenList(s, "END EXTLIBS")
			if err != nil {
				return err
			}
			pl.ExtLibs = append(pl.ExtLibs, vals...)
		case line == "EXTLIBPATHS=":
			vals, err := collectTokenList(s, "END EXTLIBPATHS")
			if err != nil {
				return err
			}
			pl.ExtLibPaths = append(pl.ExtLibPaths, vals...)
		case line == "EXTINCLUDEPATHS=":
			vals, err := collectTokenList(s, "END EXTINCLUDEPATHS")
			if err != nil {
				return err
			}
			pl.ExtIncludePaths = append(pl.ExtIncludePaths, vals...)
		case line == "MACROS=":
			kvs, err := collectKVList(s, "END MACROS")
			if err != nil {
				return err
			}
			for _, kv := range kvs {
				resolver.AddMacro(kv.Key, kv.Value)
			}
		case line == "IDLMAPPINGS=":
			kvs, err := collectKVList(s, "END IDLMAPPINGS")
			if err != nil {
				return err
			}
			for _, kv := range kvs {
				pl.IDLMappings = append(pl.IDLMappings, "/Mapping="+kv.Key+"="+kv.Value)
			}
		default:
			return entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized ALLPROJECTS field %q", line)
		}
	}
}

// collectTokenList reads whitespace/comma separated tokens from successive
// lines until terminator.
func collectTokenList(s *Spooler, terminator string) ([]string, error) {
	var out []string
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", terminator)
		}
		if line == terminator {
			return out, nil
		}
		out = append(out, splitValues(line)...)
	}
}

// collectKVList reads "key=value" lines until terminator.
func collectKVList(s *Spooler, terminator string) ([]entities.KV, error) {
	var out []entities.KV
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", terminator)
		}
		if line == terminator {
			return out, nil
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			return nil, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "expected key=value, got %q", line)
		}
		out = append(out, entities.KV{Key: strings.TrimSpace(key), Value: strings.TrimSpace(val)})
	}
}

// parseProjectSpec splits a "name" or "name [incl1 incl2, excl1 excl2]"
// header payload into the project name and its platform lists.
func parseProjectSpec(rest string) (name string, incl, excl []string) {
	open := strings.IndexByte(rest, '[')
	if open < 0 {
		return strings.TrimSpace(rest), nil, nil
	}
	name = strings.TrimSpace(rest[:open])
	close := strings.IndexByte(rest[open:], ']')
	if close < 0 {
		return name, nil, nil
	}
	inner := rest[open+1 : open+close]
	inclStr, exclStr, hasComma := strings.Cut(inner, ",")
	incl = strings.Fields(inclStr)
	if hasComma {
		excl = strings.Fields(exclStr)
	}
	return name, incl, excl
}

func includedOnPlatform(platform string, incl, excl []string) bool {
	p := &entities.Project{PlatformIncl: incl, PlatformExcl: excl}
	return p.IncludedOnPlatform(platform)
}

func parseProjectHeaderAndBody(s *Spooler, headerLine, platform string, pl *entities.ProjectList) error {
	rest := strings.TrimPrefix(headerLine, "PROJECT=")
	name, incl, excl := parseProjectSpec(rest)

	if !includedOnPlatform(platform, incl, excl) {
		return skipUntil(s, "END PROJECT")
	}

	proj, err := entities.NewProject(name)
	if err != nil {
		return err
	}
	proj.PlatformIncl = incl
	proj.PlatformExcl = excl

	if err := parseProjectBody(s, proj, platform); err != nil {
		return err
	}
	return pl.Add(proj)
}

func skipUntil(s *Spooler, terminator string) error {
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
	}
}

func parseProjectBody(s *Spooler, proj *entities.Project, platform string) error {
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return entities.New(entities.KindUnexpectedEOF, "unterminated PROJECT block for %q", proj.Name)
		}
		switch {
		case line == "END PROJECT":
			return nil
		case line == "SETTINGS=":
			if err := parseSettings(s, proj); err != nil {
				return err
			}
		case line == "DEFINES=":
			kvs, err := collectKVList(s, "END DEFINES")
			if err != nil {
				return err
			}
			proj.Defines = append(proj.Defines, kvs...)
		case line == "DEPENDS=":
			vals, err := collectTokenList(s, "END DEPENDS")
			if err != nil {
				return err
			}
			proj.Dependencies = append(proj.Dependencies, vals...)
		case line == "EXTLIBS=":
			vals, err := collectTokenList(s, "END EXTLIBS")
			if err != nil {
				return err
			}
			proj.ExtLibs = append(proj.ExtLibs, vals...)
		case strings.HasPrefix(line, "INCLUDEPATHS"):
			blockIncl, blockExcl := parseGatingSuffix(line, "INCLUDEPATHS")
			vals, err := collectTokenList(s, "END INCLUDEPATHS")
			if err != nil {
				return err
			}
			if includedOnPlatform(platform, blockIncl, blockExcl) {
				proj.ExtIncludes = append(proj.ExtIncludes, vals...)
			}
		case strings.HasPrefix(line, "OPTIONS"):
			blockIncl, blockExcl := parseGatingSuffix(line, "OPTIONS")
			kvs, err := collectKVList(s, "END OPTIONS")
			if err != nil {
				return err
			}
			if includedOnPlatform(platform, blockIncl, blockExcl) {
				key := ""
				if len(blockIncl) > 0 || len(blockExcl) > 0 {
					key = platform
				}
				if proj.PlatformOptions == nil {
					proj.PlatformOptions = make(map[string][]entities.KV)
				}
				proj.PlatformOptions[key] = append(proj.PlatformOptions[key], kvs...)
			}
		case line == "CUSTCMDS=":
			cmds, err := collectLiteralLines(s, "END CUSTCMDS")
			if err != nil {
				return err
			}
			proj.CustCmds = append(proj.CustCmds, cmds...)
		case strings.HasPrefix(line, "FILECOPIES"):
			target := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "FILECOPIES")), "=")
			target = strings.TrimSpace(target)
			srcs, err := collectTokenList(s, "END FILECOPIES")
			if err != nil {
				return err
			}
			proj.FileCopies = append(proj.FileCopies, entities.FileCopyBlock{TargetPath: target, Sources: srcs})
		case line == "IDLFILE=":
			entry, err := parseIDLFile(s)
			if err != nil {
				return err
			}
			proj.IDLEntries = append(proj.IDLEntries, entry)
		default:
			return entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized PROJECT field %q", line)
		}
	}
}

// parseGatingSuffix extracts the optional "[incl, excl]" suffix from a
// block-opening line like "INCLUDEPATHS [Win32, Linux]=".
func parseGatingSuffix(line, keyword string) (incl, excl []string) {
	rest := strings.TrimPrefix(line, keyword)
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "=")
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "[") {
		return nil, nil
	}
	_, incl, excl = parseProjectSpec("x " + rest)
	return incl, excl
}

func collectLiteralLines(s *Spooler, terminator string) ([]string, error) {
	var out []string
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entities.New(entities.KindUnexpectedEOF, "unterminated block, expected %q", terminator)
		}
		if line == terminator {
			return out, nil
		}
		out = append(out, line)
	}
}

var settingsFields = []struct {
	key   string
	apply func(p *entities.Project, value string)
}{
	{"MSGFILE", func(p *entities.Project, v string) { p.Flags.HasMessageFile = entities.ParseBoolean(v) }},
	{"RESFILE", func(p *entities.Project, v string) { p.Flags.HasResFile = entities.ParseBoolean(v) }},
	{"VERSIONED", func(p *entities.Project, v string) { p.Flags.Versioned = entities.ParseBoolean(v) }},
	{"SAMPLE", func(p *entities.Project, v string) { p.Flags.Sample = entities.ParseBoolean(v) }},
	{"USESYSLIBS", func(p *entities.Project, v string) { p.Flags.UsesSysLibs = entities.ParseBoolean(v) }},
	{"VARARGS", func(p *entities.Project, v string) { p.Flags.UsesVarArgs = entities.ParseBoolean(v) }},
	{"NEEDSADMIN", func(p *entities.Project, v string) { p.Flags.NeedsAdminPriv = entities.ParseBoolean(v) }},
	{"PURECPP", func(p *entities.Project, v string) { p.Flags.PureCpp = entities.ParseBoolean(v) }},
	{"PLATFORMDIR", func(p *entities.Project, v string) { p.Flags.HasPlatformDir = entities.ParseBoolean(v) }},
	{"DIRECTORY", func(p *entities.Project, v string) { p.Directory = v }},
	{"EXPORT", func(p *entities.Project, v string) { p.ExportKeyword = v }},
}

func parseSettings(s *Spooler, proj *entities.Project) error {
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return entities.New(entities.KindUnexpectedEOF, "unterminated SETTINGS block for %q", proj.Name)
		}
		if line == "END SETTINGS" {
			return nil
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			return entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "expected KEY=value in SETTINGS, got %q", line)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		switch key {
		case "BASE":
			n, err := parseCardinal(val, s.CurrentLineNumber())
			if err != nil {
				return err
			}
			proj.Flags.BaseAddress = n
		case "TYPE":
			t, err := parseProjectType(val, s.CurrentLineNumber())
			if err != nil {
				return err
			}
			proj.Type = t
		case "DISPLAY":
			d, err := parseDisplayType(val, s.CurrentLineNumber())
			if err != nil {
				return err
			}
			proj.Display = d
		default:
			matched := false
			for _, f := range settingsFields {
				if f.key == key {
					f.apply(proj, val)
					matched = true
					break
				}
			}
			if !matched {
				return entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized SETTINGS key %q", key)
			}
		}
	}
}

func parseCardinal(val string, line int) (int, error) {
	n := 0
	if val == "" {
		return 0, entities.NewAtLine(entities.KindFileFormat, line, "BASE value cannot be empty")
	}
	for _, r := range val {
		if r < '0' || r > '9' {
			return 0, entities.NewAtLine(entities.KindFileFormat, line, "%q is not a valid cardinal", val)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

func parseProjectType(val string, line int) (entities.ProjectType, error) {
	switch strings.ToLower(val) {
	case "exe", "executable":
		return entities.TypeExecutable, nil
	case "service":
		return entities.TypeService, nil
	case "sharedlib":
		return entities.TypeSharedLib, nil
	case "sharedobj":
		return entities.TypeSharedObj, nil
	case "staticlib":
		return entities.TypeStaticLib, nil
	case "filecopy":
		return entities.TypeFileCopy, nil
	case "group":
		return entities.TypeGroup, nil
	default:
		return "", entities.NewAtLine(entities.KindFileFormat, line, "unrecognized TYPE %q", val)
	}
}

func parseDisplayType(val string, line int) (entities.DisplayType, error) {
	switch strings.ToLower(val) {
	case "none":
		return entities.DisplayNone, nil
	case "console":
		return entities.DisplayConsole, nil
	case "gui":
		return entities.DisplayGUI, nil
	default:
		return "", entities.NewAtLine(entities.KindFileFormat, line, "unrecognized DISPLAY %q", val)
	}
}

func parseIDLFile(s *Spooler) (entities.IDLEntry, error) {
	var entry entities.IDLEntry
	startLine := s.CurrentLineNumber()
	for {
		line, ok, err := s.ReadLine()
		if err != nil {
			return entry, err
		}
		if !ok {
			return entry, entities.New(entities.KindUnexpectedEOF, "unterminated IDLFILE block")
		}
		if line == "END IDLFILE" {
			if entry.SourceFile == "" {
				return entry, entities.NewAtLine(entities.KindFileFormat, startLine, "IDLFILE block missing SRCFILE=")
			}
			return entry, entry.Validate(s.CurrentLineNumber())
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			return entry, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "expected KEY=value in IDLFILE, got %q", line)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		switch key {
		case "SRCFILE":
			entry.SourceFile = val
		case "NAMEEXT":
			entry.NameExt = val
		case "TSPATH":
			entry.TSPath = val
		case "GEN":
			for _, tok := range strings.Split(val, ",") {
				switch strings.ToUpper(strings.TrimSpace(tok)) {
				case "CLIENT":
					entry.GenClient = true
				case "SERVER":
					entry.GenServer = true
				case "GLOBALS":
					entry.GenGlobals = true
				case "CSHARP":
					entry.GenCSharp = true
				case "TYPESCRIPT":
					entry.GenTypeScript = true
				default:
					return entry, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized GEN value %q", tok)
				}
			}
		case "MAPPING":
			entry.Mappings = append(entry.Mappings, "/Mapping="+val)
		default:
			return entry, entities.NewAtLine(entities.KindFileFormat, s.CurrentLineNumber(), "unrecognized IDLFILE key %q", key)
		}
	}
}

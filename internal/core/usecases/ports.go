package usecases

import (
	"context"
	"time"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ProjectLoader defines the interface for parsing a master project file into
// a fully-linked project graph.
//
// Implementations MUST apply the platform/mode macro bindings before
// dependency linking, and MUST reject cyclic dependency graphs (spec §4.2).
type ProjectLoader interface {
	// LoadProjectList parses projectFilePath and returns every project it
	// names, platform-excluded ones skipped, dependencies linked into the
	// graph, and cycles checked. args supplies the macro-resolver bindings
	// (RootDir/CIDLibSrcDir/OutputDir/Mode); the host platform identifier
	// used for platform include/exclude filtering is the implementation's
	// own concern (conventionally runtime.GOOS), not something the caller
	// threads through args.
	LoadProjectList(ctx context.Context, projectFilePath string, args *entities.Args) (*entities.ProjectList, error)
}

// ResourceCompiler defines the interface for turning a project's message-text
// and dialog/menu resource sources into their binary and generated-header
// forms.
//
// Implementations MUST skip the rewrite when the generated artifact's content
// would be unchanged (spec §4.6.2 "Generated header"), and MUST tolerate a
// project that carries no message or resource file at all.
type ResourceCompiler interface {
	// CompileMessages parses project's .MsgText file (if any), writes the
	// binary message catalogue and the generated ID header, and returns the
	// name-to-ID table later needed to resolve .CIDRC SYMBOL= references that
	// reuse a message ID.
	CompileMessages(ctx context.Context, project *entities.Project, srcDir, outDir string) (msgIDs map[string]int, err error)

	// CompileResources parses project's .CIDRC file (if any), writes the
	// binary resource file and the generated symbol header.
	CompileResources(ctx context.Context, project *entities.Project, srcDir, outDir string, msgIDs map[string]int) error
}

// DependAnalyser defines the interface for computing and persisting a
// project's per-file C++ include closures.
//
// Implementations MUST follow #include chains transitively and MUST honor
// the project's effective include search paths (own directory first, then
// declared ExtIncludes).
type DependAnalyser interface {
	// WriteDependFile computes the include closure of every .Cpp file the
	// project declares and writes it to outPath in the depend-file format.
	WriteDependFile(ctx context.Context, project *entities.Project, includeDirs []string, outPath string) error
}

// SourceScanner defines the interface for rescanning a project's directory
// for tracked source files.
//
// Implementations MUST populate Project.CppFiles/HppFiles with every
// matching file's name, modification time, and size (spec §4.7 bullet 3,
// §5 "directory-enumeration order"). srcDir is the project's own
// already-resolved source directory, not a parent the implementation must
// join project.Directory onto.
type SourceScanner interface {
	ScanProject(ctx context.Context, project *entities.Project, srcDir string) error
}

// ToolsDriver defines the interface for invoking the platform's actual
// compiler, linker, IDL generator, and message compiler.
//
// Implementations MUST shell out to configurable command templates,
// synchronously wait for the child process, and surface a clear error
// naming the tool and exit code on failure (spec §4.7 bullet 6, §5).
type ToolsDriver interface {
	// Compile builds one translation unit into an object file.
	Compile(ctx context.Context, project *entities.Project, sourceFile string, args *entities.Args) error

	// Link combines a project's object files into its final binary artifact.
	Link(ctx context.Context, project *entities.Project, objectFiles []string, args *entities.Args) error

	// RunIDL invokes the interface-definition-language generator over one
	// IDL entry, producing the client/server glue sources it describes.
	RunIDL(ctx context.Context, project *entities.Project, entry entities.IDLEntry, args *entities.Args) error

	// RunMsgCompiler shells out to an external message compiler in lieu of
	// the in-process ResourceCompiler, for projects that opt into the
	// platform toolchain's own message step.
	RunMsgCompiler(ctx context.Context, project *entities.Project, srcFile, outFile string, args *entities.Args) error
}

// HeaderCopier defines the interface for publishing a project's public
// headers into the shared output include tree.
//
// Implementations MUST compare source and destination modification times and
// skip the copy unless the source is newer or force is set (spec §4.7
// bullet 4, /Force).
type HeaderCopier interface {
	// CopyHeaders copies project's declared .Hpp files into outDir, skipping
	// any whose destination is already up to date unless force is true.
	// Returns the count actually copied.
	CopyHeaders(ctx context.Context, project *entities.Project, srcDir, outDir string, force bool) (copied int, err error)
}

// Packager defines the interface for assembling a binary or developer
// release archive for one target project.
//
// Implementations MUST collect the target's own build output plus every
// transitive dependency's output, per the bottom-up graph order.
type Packager interface {
	// PackageRelease assembles outDir into a release layout for target,
	// dev selecting whether headers/import libraries are included alongside
	// the runtime binaries.
	PackageRelease(ctx context.Context, projects *entities.ProjectList, target, outDir string, dev bool) error
}

// FileWatcher defines the interface for monitoring a project's source tree
// for changes, used by the supplemental /Watch mode.
//
// Implementations MUST use efficient file system APIs (e.g., fsnotify) and
// debounce bursts of changes before signalling.
type FileWatcher interface {
	// Watch starts monitoring rootPath for changes.
	Watch(ctx context.Context, rootPath string) (<-chan FileChangeEvent, error)

	// Stop halts file watching and closes all channels.
	Stop() error
}

// FileChangeEvent describes a change detected by the file watcher.
type FileChangeEvent struct {
	// Path relative to the watched root.
	Path string
	// Op is one of: create, write, remove, rename, chmod.
	Op string
}

// Logger defines the interface for structured logging.
//
// Implementations MUST emit leveled, structured output and respect /Verbose
// and /NoLogo (spec §4.7 argument vocabulary).
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, err error, keysAndValues ...any)
	WithFields(keysAndValues ...any) Logger
}

// ProgressReporter defines the interface for communicating step-by-step
// build progress to the user.
//
// Implementations MAY use terminal formatting (via lipgloss) for CLI output.
type ProgressReporter interface {
	ReportProgress(step string, current, total int, message string)
	ReportError(err error)
	ReportSuccess(message string)
	ReportInfo(message string)
}

// OutputEncoder defines the interface for serializing the resolved project
// settings ShowProjSettings reports, in either the default human table or
// the supplemental machine-readable TOON encoding.
type OutputEncoder interface {
	EncodeJSON(value any) ([]byte, error)
	EncodeTOON(value any) ([]byte, error)
}

// BuildStats holds statistics from one Build execution, for ProgressReporter
// implementations that print a closing summary.
type BuildStats struct {
	ProjectsBuilt   int
	FilesCompiled   int
	HeadersCopied   int
	ResourcesBuilt  int
	Duration        time.Duration
}

// Package tools shells out to the actual platform toolchain: compiler,
// linker, IDL generator, and external message compiler.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure ExecDriver implements usecases.ToolsDriver.
var _ usecases.ToolsDriver = (*ExecDriver)(nil)

// Options names the command templates ExecDriver shells out to. A blank
// path is probed via exec.LookPath at NewExecDriver time; LinkerPath
// defaults to CompilerPath since linking through the compiler driver is
// the common convention for both gcc and clang toolchains.
type Options struct {
	CompilerPath    string
	LinkerPath      string
	IDLPath         string
	MsgCompilerPath string
	ExtraFlags      []string
}

// ExecDriver implements usecases.ToolsDriver by shelling out to configurable
// command templates, synchronously waiting for the child process and
// surfacing the tool name and exit code on failure (spec §4.7 bullet 6).
// Grounded on the teacher's pdf.Renderer.IsAvailable()/exec.LookPath probe
// and d2.Renderer's synchronous CommandContext invocation.
type ExecDriver struct {
	compilerPath    string
	linkerPath      string
	idlPath         string
	msgCompilerPath string
	extraFlags      []string
}

// NewExecDriver resolves opts' command paths, falling back to PATH lookups
// for whichever ones were left blank. Lookup failures are not fatal here —
// they surface as a clear error the first time the corresponding operation
// is actually invoked.
func NewExecDriver(opts Options) *ExecDriver {
	compiler := opts.CompilerPath
	if compiler == "" {
		compiler, _ = exec.LookPath("g++")
	}
	linker := opts.LinkerPath
	if linker == "" {
		linker = compiler
	}
	idl := opts.IDLPath
	if idl == "" {
		idl, _ = exec.LookPath("cidl")
	}
	msgc := opts.MsgCompilerPath
	if msgc == "" {
		msgc, _ = exec.LookPath("cidmsgc")
	}
	return &ExecDriver{
		compilerPath:    compiler,
		linkerPath:      linker,
		idlPath:         idl,
		msgCompilerPath: msgc,
		extraFlags:      opts.ExtraFlags,
	}
}

func runTool(ctx context.Context, toolName, path string, args []string) error {
	if path == "" {
		return entities.New(entities.KindBuildError, "%s: no tool binary configured or found on PATH", toolName)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return entities.Wrap(entities.KindBuildError, err, "%s failed: %s", toolName, msg)
		}
		return entities.Wrap(entities.KindBuildError, err, "%s failed", toolName)
	}
	return nil
}

// ObjectPathFor derives a source file's object-file path, by convention
// OutputDir/Obj/<ProjectName>/<base>.o. Compile and Link agree on this
// convention so Link can recompute the path Compile already wrote to
// without either stashing intermediate state.
func ObjectPathFor(args *entities.Args, project *entities.Project, sourceFile string) string {
	base := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	return filepath.Join(args.OutputDir, "Obj", project.Name, base+".o")
}

// BinaryPathFor derives a project's linked-artifact path under OutputDir/Bin,
// named by convention for its ProjectType.
func BinaryPathFor(args *entities.Args, project *entities.Project) string {
	dir := filepath.Join(args.OutputDir, "Bin")
	switch project.Type {
	case entities.TypeStaticLib:
		return filepath.Join(dir, "lib"+project.Name+".a")
	case entities.TypeSharedLib, entities.TypeSharedObj:
		return filepath.Join(dir, "lib"+project.Name+".so")
	default:
		return filepath.Join(dir, project.Name)
	}
}

func defineFlags(project *entities.Project) []string {
	flags := make([]string, 0, len(project.Defines))
	for _, kv := range project.Defines {
		if kv.Value == "" {
			flags = append(flags, "-D"+kv.Key)
		} else {
			flags = append(flags, fmt.Sprintf("-D%s=%s", kv.Key, kv.Value))
		}
	}
	return flags
}

func includeFlags(args *entities.Args, project *entities.Project) []string {
	flags := []string{"-I" + filepath.Join(args.OutputDir, "Inc")}
	for _, dir := range project.ExtIncludes {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// Compile implements usecases.ToolsDriver.
func (d *ExecDriver) Compile(ctx context.Context, project *entities.Project, sourceFile string, args *entities.Args) error {
	objPath := ObjectPathFor(args, project, sourceFile)
	if err := os.MkdirAll(filepath.Dir(objPath), 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating object directory for %s", sourceFile)
	}

	cmdArgs := []string{"-c", sourceFile, "-o", objPath}
	cmdArgs = append(cmdArgs, d.extraFlags...)
	if args.NonPermissive {
		cmdArgs = append(cmdArgs, "-Wall", "-Werror")
	}
	if args.Mode == entities.ModeProd {
		cmdArgs = append(cmdArgs, "-O2", "-DNDEBUG")
	} else {
		cmdArgs = append(cmdArgs, "-g", "-DCID_DEBUG_ON")
	}
	cmdArgs = append(cmdArgs, includeFlags(args, project)...)
	cmdArgs = append(cmdArgs, defineFlags(project)...)

	return runTool(ctx, "compiler", d.compilerPath, cmdArgs)
}

// Link implements usecases.ToolsDriver. objectFiles is the list of source
// files a preceding Compile pass was run over; the corresponding object
// paths are recomputed via ObjectPathFor.
func (d *ExecDriver) Link(ctx context.Context, project *entities.Project, objectFiles []string, args *entities.Args) error {
	binPath := BinaryPathFor(args, project)
	if err := os.MkdirAll(filepath.Dir(binPath), 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating binary directory for %s", project.Name)
	}

	if project.Type == entities.TypeStaticLib {
		cmdArgs := append([]string{"rcs", binPath}, objectPaths(args, project, objectFiles)...)
		return runTool(ctx, "archiver", archiverPath(d.linkerPath), cmdArgs)
	}

	cmdArgs := append(objectPaths(args, project, objectFiles), "-o", binPath)
	if project.Type == entities.TypeSharedLib || project.Type == entities.TypeSharedObj {
		cmdArgs = append(cmdArgs, "-shared")
	}
	for _, lib := range project.ExtLibs {
		cmdArgs = append(cmdArgs, "-l"+lib)
	}
	cmdArgs = append(cmdArgs, d.extraFlags...)

	return runTool(ctx, "linker", d.linkerPath, cmdArgs)
}

func objectPaths(args *entities.Args, project *entities.Project, sourceFiles []string) []string {
	out := make([]string, len(sourceFiles))
	for i, src := range sourceFiles {
		out[i] = ObjectPathFor(args, project, src)
	}
	return out
}

// archiverPath swaps a compiler-driver path for the conventional "ar" tool
// sitting alongside it, falling back to a bare PATH lookup.
func archiverPath(compilerPath string) string {
	if compilerPath == "" {
		p, _ := exec.LookPath("ar")
		return p
	}
	dir := filepath.Dir(compilerPath)
	candidate := filepath.Join(dir, "ar")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	p, _ := exec.LookPath("ar")
	return p
}

// RunIDL implements usecases.ToolsDriver.
func (d *ExecDriver) RunIDL(ctx context.Context, project *entities.Project, entry entities.IDLEntry, args *entities.Args) error {
	outDir := filepath.Join(args.OutputDir, "Inc")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating IDL output directory")
	}

	cmdArgs := []string{entry.SourceFile, "--out", outDir}
	if entry.NameExt != "" {
		cmdArgs = append(cmdArgs, "--name-ext", entry.NameExt)
	}
	if entry.GenClient {
		cmdArgs = append(cmdArgs, "--client")
	}
	if entry.GenServer {
		cmdArgs = append(cmdArgs, "--server")
	}
	if entry.GenGlobals {
		cmdArgs = append(cmdArgs, "--globals")
	}
	if entry.GenCSharp {
		cmdArgs = append(cmdArgs, "--csharp")
	}
	if entry.GenTypeScript {
		cmdArgs = append(cmdArgs, "--typescript")
	}
	for _, mapping := range entry.Mappings {
		cmdArgs = append(cmdArgs, "--mapping", mapping)
	}

	return runTool(ctx, "IDL generator", d.idlPath, cmdArgs)
}

// RunMsgCompiler implements usecases.ToolsDriver.
func (d *ExecDriver) RunMsgCompiler(ctx context.Context, project *entities.Project, srcFile, outFile string, args *entities.Args) error {
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return entities.Wrap(entities.KindCreateError, err, "creating message compiler output directory")
	}
	return runTool(ctx, "message compiler", d.msgCompilerPath, []string{srcFile, "--out", outFile})
}

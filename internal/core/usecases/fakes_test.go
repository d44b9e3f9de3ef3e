package usecases

import (
	"context"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// fakeProjectLoader returns a fixed, pre-built ProjectList regardless of path.
type fakeProjectLoader struct {
	list *entities.ProjectList
	err  error
}

func (f *fakeProjectLoader) LoadProjectList(ctx context.Context, path string, args *entities.Args) (*entities.ProjectList, error) {
	return f.list, f.err
}

// fakeResourceCompiler records which projects it was invoked for.
type fakeResourceCompiler struct {
	messagesFor  []string
	resourcesFor []string
}

func (f *fakeResourceCompiler) CompileMessages(ctx context.Context, project *entities.Project, srcDir, outDir string) (map[string]int, error) {
	f.messagesFor = append(f.messagesFor, project.Name)
	return map[string]int{}, nil
}

func (f *fakeResourceCompiler) CompileResources(ctx context.Context, project *entities.Project, srcDir, outDir string, msgIDs map[string]int) error {
	f.resourcesFor = append(f.resourcesFor, project.Name)
	return nil
}

type fakeScanner struct{ scannedFor []string }

func (f *fakeScanner) ScanProject(ctx context.Context, project *entities.Project, rootDir string) error {
	f.scannedFor = append(f.scannedFor, project.Name)
	return nil
}

type fakeHeaderCopier struct{ copiedFor []string }

func (f *fakeHeaderCopier) CopyHeaders(ctx context.Context, project *entities.Project, srcDir, outDir string, force bool) (int, error) {
	f.copiedFor = append(f.copiedFor, project.Name)
	return 1, nil
}

type fakeDependAnalyser struct{ writtenFor []string }

func (f *fakeDependAnalyser) WriteDependFile(ctx context.Context, project *entities.Project, includeDirs []string, outPath string) error {
	f.writtenFor = append(f.writtenFor, project.Name)
	return nil
}

type fakeToolsDriver struct {
	compiledFor []string
	linkedFor   []string
	idlFor      []string
}

func (f *fakeToolsDriver) Compile(ctx context.Context, project *entities.Project, sourceFile string, args *entities.Args) error {
	f.compiledFor = append(f.compiledFor, sourceFile)
	return nil
}

func (f *fakeToolsDriver) Link(ctx context.Context, project *entities.Project, objectFiles []string, args *entities.Args) error {
	f.linkedFor = append(f.linkedFor, project.Name)
	return nil
}

func (f *fakeToolsDriver) RunIDL(ctx context.Context, project *entities.Project, entry entities.IDLEntry, args *entities.Args) error {
	f.idlFor = append(f.idlFor, project.Name)
	return nil
}

func (f *fakeToolsDriver) RunMsgCompiler(ctx context.Context, project *entities.Project, srcFile, outFile string, args *entities.Args) error {
	return nil
}

type fakeProgress struct {
	infos    []string
	errs     []error
	success  []string
	progress []string
}

func (f *fakeProgress) ReportProgress(step string, current, total int, message string) {
	f.progress = append(f.progress, step)
}
func (f *fakeProgress) ReportError(err error)        { f.errs = append(f.errs, err) }
func (f *fakeProgress) ReportSuccess(message string) { f.success = append(f.success, message) }
func (f *fakeProgress) ReportInfo(message string)    { f.infos = append(f.infos, message) }

type fakePackager struct{ packagedTarget string }

func (f *fakePackager) PackageRelease(ctx context.Context, projects *entities.ProjectList, target, outDir string, dev bool) error {
	f.packagedTarget = target
	return nil
}

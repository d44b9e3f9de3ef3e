package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cidbuild/cidbuild/internal/adapters/depend"
	"github.com/cidbuild/cidbuild/internal/adapters/filesystem"
	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/adapters/rescomp"
	"github.com/cidbuild/cidbuild/internal/adapters/tools"
	uiadapter "github.com/cidbuild/cidbuild/internal/adapters/ui"
	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
	sharedui "github.com/cidbuild/cidbuild/internal/ui"
)

// watchDebounce is how long the watcher waits after the last detected
// change before triggering a rebuild.
const watchDebounce = 500 * time.Millisecond

// runWatch re-runs MakeDeps then Build against projectFilePath every time a
// tracked source or description file under args.RootDir changes, until
// interrupted. Grounded on the teacher's watch.go signal-handling and
// debounce-timer loop.
func runWatch(ctx context.Context, projectFilePath string, args *entities.Args, out *sharedui.Output, toolOpts tools.Options) error {
	watcher, err := filesystem.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, args.RootDir)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	out.Info(fmt.Sprintf("watching %s for changes (Ctrl+C to stop)", filepath.Clean(args.RootDir)))

	reporter := uiadapter.NewReporter(out)
	loader := parser.NewService()
	resources := rescomp.NewService()
	scanner := filesystem.NewProjectScanner()
	headers := filesystem.NewHeaderPublisher()
	analyser := depend.NewService()
	driver := tools.NewExecDriver(toolOpts)
	build := usecases.NewBuild(loader, resources, scanner, headers, analyser, driver, reporter)
	makeDeps := usecases.NewMakeDeps(loader, resources, scanner, headers, driver, analyser, reporter)

	rebuild := func() {
		start := time.Now()
		if err := makeDeps.Execute(ctx, projectFilePath, args); err != nil {
			out.Error(fmt.Sprintf("MakeDeps failed: %v", err))
			return
		}
		if err := build.Execute(ctx, projectFilePath, args); err != nil {
			out.Error(fmt.Sprintf("build failed: %v", err))
			return
		}
		out.Success(fmt.Sprintf("rebuild complete (%v)", time.Since(start).Round(10*time.Millisecond)))
	}

	rebuild()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	debounceTimer := time.NewTimer(watchDebounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	for {
		select {
		case <-sigChan:
			out.Info("watch stopped")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			debounceTimer.Reset(watchDebounce)
			out.Info(fmt.Sprintf("change detected: %s", event.Path))

		case <-debounceTimer.C:
			rebuild()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Package cmd implements the cidbuild CLI command.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cidbuild/cidbuild/internal/adapters/config"
	"github.com/cidbuild/cidbuild/internal/adapters/depend"
	"github.com/cidbuild/cidbuild/internal/adapters/encoding"
	"github.com/cidbuild/cidbuild/internal/adapters/filesystem"
	"github.com/cidbuild/cidbuild/internal/adapters/logging"
	"github.com/cidbuild/cidbuild/internal/adapters/parser"
	"github.com/cidbuild/cidbuild/internal/adapters/release"
	"github.com/cidbuild/cidbuild/internal/adapters/rescomp"
	"github.com/cidbuild/cidbuild/internal/adapters/tools"
	uiadapter "github.com/cidbuild/cidbuild/internal/adapters/ui"
	"github.com/cidbuild/cidbuild/internal/core/entities"
	"github.com/cidbuild/cidbuild/internal/core/usecases"
	sharedui "github.com/cidbuild/cidbuild/internal/ui"
)

// driverDefaultsFileName is the optional cidbuild.toml sitting at RootDir,
// see config.DriverDefaults.
const driverDefaultsFileName = "cidbuild.toml"

// masterProjectFileName is the conventional file name under
// <RootDir>/AllProjects/ the driver parses (spec §6.2's
// "Source/AllProjects/<project-file>" — the exact project-file name is not
// itself a command-line argument, so this is the single fixed name every
// tree in this port uses).
const masterProjectFileName = "AllProjects.Projects"

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// rootCmd is cidbuild's only command. Its arguments are the driver's own
// "/Name" / "/Name=Value" slash-flag vocabulary (spec §6.1), not POSIX
// flags, so cobra's own flag parsing is disabled and RunE parses args
// itself via config.ParseArgs.
var rootCmd = &cobra.Command{
	Use:                "cidbuild [/flag ...] /RootDir=path /Version=M.m.r [/Target=name]",
	Short:              "Portable build driver for a CIDLib-style C++ project tree",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

// Execute runs the root command. Called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion, appCommit, appDate, appBuiltBy = version, commit, date, builtBy
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("cidbuild %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

func run(ctx context.Context, rawArgs []string) error {
	out := sharedui.NewOutput()
	log := logging.GetLogger()

	envArgs, err := config.ResolveEnv()
	if err != nil {
		return err
	}
	args, err := config.ParseArgs(envArgs, rawArgs)
	if err != nil {
		return err
	}

	dd, err := config.LoadDriverDefaults(filepath.Join(args.RootDir, driverDefaultsFileName))
	if err != nil {
		return err
	}
	config.ApplyDriverDefaults(args, dd)

	warn := func(format string, a ...any) {
		msg := fmt.Sprintf(format, a...)
		log.Warn(msg)
		out.Warning(msg)
	}
	if err := config.FinalizeArgs(args, warn); err != nil {
		return err
	}
	if args.Verbose {
		logging.SetLevel(logging.LevelDebug)
		out = out.WithVerbose(true)
	}
	if args.NoLogo {
		out = out.WithWriter(os.Stdout)
	} else {
		out.Title("cidbuild")
	}

	projectFilePath := filepath.Join(args.RootDir, "AllProjects", masterProjectFileName)

	reporter := uiadapter.NewReporter(out)
	loader := parser.NewService()
	resources := rescomp.NewService()
	scanner := filesystem.NewProjectScanner()
	headers := filesystem.NewHeaderPublisher()
	analyser := depend.NewService()
	toolOpts := toolsOptionsFor(dd)
	driver := tools.NewExecDriver(toolOpts)
	build := usecases.NewBuild(loader, resources, scanner, headers, analyser, driver, reporter)

	if args.Watch {
		return runWatch(ctx, projectFilePath, args, out, toolOpts)
	}

	switch args.Action {
	case entities.ActionBuild, "":
		return build.Execute(ctx, projectFilePath, args)

	case entities.ActionMakeDeps:
		uc := usecases.NewMakeDeps(loader, resources, scanner, headers, driver, analyser, reporter)
		return uc.Execute(ctx, projectFilePath, args)

	case entities.ActionShowProjDeps:
		uc := usecases.NewShowProjDeps(loader, reporter)
		tree, err := uc.Execute(ctx, projectFilePath, args)
		if err != nil {
			return err
		}
		uiadapter.RenderDepsTree(out, tree)
		return nil

	case entities.ActionShowProjSettings:
		uc := usecases.NewShowProjSettings(loader, reporter)
		platform := parser.DetectedPlatform()
		settings, err := uc.Execute(ctx, projectFilePath, platform, args)
		if err != nil {
			return err
		}
		if args.Format == "toon" {
			data, err := encoding.NewEncoder().EncodeTOON(settings)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(data))
			return nil
		}
		uiadapter.RenderProjSettings(out, settings)
		return nil

	case entities.ActionCopyHeaders:
		uc := usecases.NewCopyHeaders(loader, headers, reporter)
		return uc.Execute(ctx, projectFilePath, args)

	case entities.ActionMakeRes:
		uc := usecases.NewMakeRes(loader, resources, reporter)
		return uc.Execute(ctx, projectFilePath, args)

	case entities.ActionIDLGen:
		uc := usecases.NewIDLGen(loader, driver, reporter)
		return uc.Execute(ctx, projectFilePath, args)

	case entities.ActionMakeBinRelease, entities.ActionMakeDevRelease:
		packager := release.NewPackager()
		devLayout := args.Action == entities.ActionMakeDevRelease
		uc := usecases.NewRelease(build, loader, packager, reporter, devLayout)
		return uc.Execute(ctx, projectFilePath, args)

	case entities.ActionBootstrap:
		uc := usecases.NewBootstrap(loader, resources, scanner, headers, analyser, driver, build, reporter)
		return uc.Execute(ctx, projectFilePath, args)

	default:
		return entities.New(entities.KindBadParams, "/Action=%s is not a known action", args.Action)
	}
}

// toolsOptionsFor builds the ExecDriver's command templates from the
// resolved driver defaults (cidbuild.toml's [platform.<name>] table for the
// detected host platform), falling back to PATH lookups for anything left
// unconfigured.
func toolsOptionsFor(dd *config.DriverDefaults) tools.Options {
	if dd == nil {
		return tools.Options{}
	}
	po, ok := dd.Platform[parser.DetectedPlatform()]
	if !ok {
		return tools.Options{}
	}
	return tools.Options{
		CompilerPath: po.CompilerPath,
		LinkerPath:   po.LinkerPath,
		ExtraFlags:   po.ExtraFlags,
	}
}

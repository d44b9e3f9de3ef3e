package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// ResolveEnv builds a default Args value from the environment variables
// spec §6.7 consults: CID_BUILDMODE, CID_RESDIR, CID_SRCTREE, CIDLIB_SRCDIR,
// CID_VERSION. Command-line arguments parsed afterward by ParseArgs
// overwrite anything set here (spec: "Arguments override").
func ResolveEnv() (*entities.Args, error) {
	args := &entities.Args{Mode: entities.ModeDev}

	if v, ok := os.LookupEnv("CID_BUILDMODE"); ok {
		mode, err := entities.ParseBuildMode(v)
		if err != nil {
			return nil, err
		}
		args.Mode = mode
	}
	if v, ok := os.LookupEnv("CID_VERSION"); ok {
		if err := applyVersion(args, v); err != nil {
			return nil, err
		}
	}
	// CID_SRCTREE is the tree being built; CIDLIB_SRCDIR is the CIDLib tree
	// itself. They only coincide when CIDLib is the thing being built.
	if v, ok := os.LookupEnv("CID_SRCTREE"); ok {
		args.RootDir = withTrailingSlash(v)
	}
	if v, ok := os.LookupEnv("CIDLIB_SRCDIR"); ok {
		args.CIDLibSrcDir = withTrailingSlash(v)
	}
	if v, ok := os.LookupEnv("CID_RESDIR"); ok {
		args.OutputDir = withTrailingSlash(v)
	}
	return args, nil
}

func withTrailingSlash(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// ParseArgs parses the /Name, /Name=Value, and /Name:Value tokens of spec
// §4.7/§6.1 (os.Args[1:], without the leading program name) on top of base
// — normally the result of ResolveEnv — and returns the fully merged Args.
// base is not mutated.
func ParseArgs(base *entities.Args, tokens []string) (*entities.Args, error) {
	args := *base
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "/") {
			return nil, entities.New(entities.KindBadParams, "option %q does not start with /", tok)
		}
		body := tok[1:]
		if body == "" {
			return nil, entities.New(entities.KindBadParams, "invalid option, / must be followed by option info")
		}
		if err := applyFlag(&args, body); err != nil {
			return nil, err
		}
	}
	return &args, nil
}

func applyFlag(args *entities.Args, body string) error {
	switch {
	case strings.EqualFold(body, "Force"):
		args.Force = true
	case strings.EqualFold(body, "HdrDump:Std"):
		args.HdrDump = entities.HdrDumpStd
	case strings.EqualFold(body, "HdrDump:Full"):
		args.HdrDump = entities.HdrDumpFull
	case strings.EqualFold(body, "LowPrio"):
		args.LowPrio = true
	case strings.EqualFold(body, "NoLogo"):
		args.NoLogo = true
	case strings.EqualFold(body, "NoRecurse"), strings.EqualFold(body, "NR"):
		args.NoRecurse = true
	case strings.EqualFold(body, "NonPermissive"):
		args.NonPermissive = true
	case strings.EqualFold(body, "Verbose"):
		args.Verbose = true
	case strings.EqualFold(body, "MaxWarn"):
		args.MaxWarn = true
	case strings.EqualFold(body, "Single"):
		args.Single = true
	case strings.EqualFold(body, "Watch"):
		args.Watch = true
	case hasFoldPrefix(body, "RootDir="):
		args.RootDir = withTrailingSlash(body[len("RootDir="):])
	case hasFoldPrefix(body, "Target="):
		args.Target = body[len("Target="):]
	case hasFoldPrefix(body, "Version="):
		return applyVersion(args, body[len("Version="):])
	case hasFoldPrefix(body, "Mode="):
		mode, err := entities.ParseBuildMode(body[len("Mode="):])
		if err != nil {
			return err
		}
		args.Mode = mode
	case hasFoldPrefix(body, "Action="):
		action, err := entities.ParseAction(body[len("Action="):])
		if err != nil {
			return err
		}
		args.Action = action
	case hasFoldPrefix(body, "Lang="):
		lang := body[len("Lang="):]
		if len(lang) != 2 {
			return entities.New(entities.KindBadParams, "/Lang= suffix must be 2 characters")
		}
		args.Lang = lang
	case hasFoldPrefix(body, "Format="):
		format := body[len("Format="):]
		if !strings.EqualFold(format, "text") && !strings.EqualFold(format, "toon") {
			return entities.New(entities.KindBadParams, "/Format= must be Text or TOON")
		}
		args.Format = strings.ToLower(format)
	default:
		return entities.New(entities.KindBadParams, "option %q is not a known option", body)
	}
	return nil
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func applyVersion(args *entities.Args, v string) error {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return entities.New(entities.KindBadParams, "/Version= must be of the form M.m.r, got %q", v)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return entities.New(entities.KindBadParams, "/Version= component %q is not a valid cardinal", p)
		}
		nums[i] = n
	}
	args.Version = v
	args.MajVer, args.MinVer, args.Revn = nums[0], nums[1], nums[2]
	return nil
}

// FinalizeArgs runs the post-parse checks the original driver applies once
// every token has been consumed (spec §4.7, §9): required-field validation,
// a Dev-mode-on-a-release-action warning, and a warning that a non-empty
// /Lang= is ignored by the release actions. That warning changes neither
// Target nor Lang (see DESIGN.md).
func FinalizeArgs(args *entities.Args, warn func(format string, a ...any)) error {
	if err := args.Validate(); err != nil {
		return err
	}
	if args.Action == entities.ActionMakeBinRelease || args.Action == entities.ActionMakeDevRelease {
		if args.Mode == entities.ModeDev {
			warn("this action should use the Production build")
		}
		if args.Lang != "" {
			warn("language suffix ignored for this action")
		}
	}
	return nil
}

package config

import (
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/cidbuild/cidbuild/internal/core/entities"
)

// DriverDefaults is the optional cidbuild.toml sitting at the source tree
// root (RootDir): driver-level defaults not covered by the environment variables of
// spec §6.7 (output directory, default language, per-platform toolchain
// overrides).
type DriverDefaults struct {
	OutputDir   string                     `mapstructure:"output_dir"`
	DefaultLang string                     `mapstructure:"default_lang"`
	Platform    map[string]PlatformOptions `mapstructure:"platform"`
}

// PlatformOptions is one [platform.<name>] table: toolchain command
// overrides for the tools driver (internal/adapters/tools), keyed by
// platform directory name the way the project file's own platform
// selector works (spec §4.4).
type PlatformOptions struct {
	CompilerPath string   `mapstructure:"compiler_path"`
	LinkerPath   string   `mapstructure:"linker_path"`
	ExtraFlags   []string `mapstructure:"extra_flags"`
}

// LoadDriverDefaults reads path (a cidbuild.toml) if present. A missing file
// is not an error — it just yields an empty DriverDefaults, since this file
// is wholly optional.
func LoadDriverDefaults(path string) (*DriverDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DriverDefaults{}, nil
		}
		return nil, entities.Wrap(entities.KindOpenError, err, "reading %s", path)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, entities.Wrap(entities.KindFileFormat, err, "parsing %s", path)
	}

	var dd DriverDefaults
	if err := mapstructure.Decode(raw, &dd); err != nil {
		return nil, entities.Wrap(entities.KindFileFormat, err, "decoding %s", path)
	}
	return &dd, nil
}

// ApplyDriverDefaults fills in Args fields the environment and command line
// left unset, lowest-precedence per spec §9's resolver-chain design note
// (CLI > env > driver-default file > built-in default).
func ApplyDriverDefaults(args *entities.Args, dd *DriverDefaults) {
	if dd == nil {
		return
	}
	if args.OutputDir == "" && dd.OutputDir != "" {
		args.OutputDir = withTrailingSlash(dd.OutputDir)
	}
	if args.Lang == "" && dd.DefaultLang != "" {
		args.Lang = dd.DefaultLang
	}
}

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/discover"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
)

// loadConfig returns the config named by --config, or the project config
// found from the working directory. Log settings from the file apply unless
// the matching flag was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	reinit := false
	if !cmd.Flags().Changed("verbose") && cfg.Log.Verbosity > verbosity {
		verbosity = cfg.Log.Verbosity
		reinit = true
	}
	if !cmd.Flags().Changed("json") && cfg.Log.JSON && !jsonLogs {
		jsonLogs = true
		reinit = true
	}
	if reinit {
		if err := logger.InitializeWithVerbosity(verbosity, jsonLogs); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to apply log config: %v\n", err)
		}
	}
	return cfg, nil
}

// sourceOptions selects what parseSources reads. Empty fields fall back to
// the [library] section of the config.
type sourceOptions struct {
	Root     string
	Language string
	Name     string
}

// project bundles what the pipeline needs besides the config
type project struct {
	fs       afero.Fs
	registry *parsing.Registry
}

func defaultProject() project {
	return project{fs: afero.NewOsFs(), registry: parsing.DefaultRegistry}
}

// parseSources runs the frontend for the library root and normalizes the result
func (p project) parseSources(ctx context.Context, cfg *config.Config, opts sourceOptions) (*ir.Library, error) {
	root := opts.Root
	if root == "" {
		root = cfg.SourceRoot()
	}
	lang, err := p.detectLanguage(cfg, root, opts.Language)
	if err != nil {
		return nil, err
	}
	frontend, err := p.registry.ForLanguage(lang)
	if err != nil {
		return nil, err
	}
	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = cfg.Library.Name
	}

	start := time.Now()
	lib, err := frontend.ParseLibrary(ctx, name, root, parserCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", root)
	}
	if cfg.Library.Version != "" {
		lib.Metadata.Version = cfg.Library.Version
	}
	if _, err := lib.Metadata.SemVer(); err != nil {
		logger.Warnw("Library version is not a semantic version", logger.FieldLibrary, lib.ID.Name, logger.FieldError, err)
	}
	lib.Normalize()

	logger.Infow("Parsed library",
		logger.FieldLibrary, lib.ID.Name,
		logger.FieldLanguage, lang,
		logger.FieldCount, lib.CountObjects(),
		logger.FieldDuration, time.Since(start).Milliseconds())
	return lib, nil
}

// detectLanguage picks the frontend: the explicit choice, a single
// configured language, the extension of a single-file root, or the only
// language found under a directory root
func (p project) detectLanguage(cfg *config.Config, root, lang string) (string, error) {
	if lang != "" {
		return lang, nil
	}
	if len(cfg.Library.Languages) == 1 {
		return cfg.Library.Languages[0], nil
	}

	info, err := p.fs.Stat(root)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", root)
	}
	if !info.IsDir() {
		frontend, ok := p.registry.ForExtension(filepath.Ext(root))
		if !ok {
			return "", errors.WithHintf(
				errors.NewNotFoundError("no frontend handles %s", root),
				"pass --lang (%s)", strings.Join(p.registry.Languages(), ", "))
		}
		return frontend.Language(), nil
	}

	entries, err := p.sourceFiles(cfg, root)
	if err != nil {
		return "", err
	}
	langs := discover.Languages(entries)
	switch len(langs) {
	case 0:
		return "", errors.WithHintf(
			errors.NewNotFoundError("no parseable sources under %s", root),
			"supported languages: %s", strings.Join(p.registry.Languages(), ", "))
	case 1:
		return langs[0], nil
	default:
		return "", errors.WithHint(
			errors.Newf("sources under %s mix %s", root, strings.Join(langs, ", ")),
			"pass --lang or set library.languages in bindgen.toml")
	}
}

func (p project) sourceFiles(cfg *config.Config, root string) ([]discover.FileEntry, error) {
	finder := discover.Finder{Fs: p.fs, Registry: p.registry}
	return finder.Files(root, cfg.Library.Sources, cfg.Library.Languages)
}

// loadLibrary reads a persisted IR file and normalizes it
func (p project) loadLibrary(path string) (*ir.Library, error) {
	lib, err := ir.LoadLibraryFs(p.fs, path)
	if err != nil {
		return nil, err
	}
	lib.Normalize()
	logger.Debugw("Loaded IR", logger.FieldPath, path, logger.FieldLibrary, lib.ID.Name)
	return lib, nil
}

// irPath returns the IR file to read: the explicit path, or the configured
// one when it exists. Empty means the sources have to be parsed.
func (p project) irPath(cfg *config.Config, explicit string) string {
	if explicit != "" {
		return explicit
	}
	configured := cfg.Resolve(cfg.Generator.IRFile)
	if configured == "" {
		return ""
	}
	if _, err := p.fs.Stat(configured); err != nil {
		return ""
	}
	return configured
}

// library loads the IR file when there is one and parses the sources otherwise
func (p project) library(ctx context.Context, cfg *config.Config, explicitIR string) (*ir.Library, error) {
	if path := p.irPath(cfg, explicitIR); path != "" {
		return p.loadLibrary(path)
	}
	return p.parseSources(ctx, cfg, sourceOptions{})
}

// inputs lists the files a generated result depends on, besides the config
func (p project) inputs(cfg *config.Config, explicitIR string) ([]string, error) {
	if path := p.irPath(cfg, explicitIR); path != "" {
		return []string{path}, nil
	}
	root := cfg.SourceRoot()
	entries, err := p.sourceFiles(cfg, root)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(e.Path)))
	}
	return paths, nil
}

// outputDir is the explicit directory or the configured one
func outputDir(cfg *config.Config, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return cfg.Resolve(cfg.Generator.OutputDir)
}

// targets is the explicit target list or the configured one
func targets(cfg *config.Config, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	return cfg.Generator.Targets
}

// Package python is the tree-sitter frontend for Python packages.
package python

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"
	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
)

// Language is the registry name of this frontend
const Language = "python"

const initFile = "__init__.py"

func init() {
	parsing.DefaultRegistry.Register(NewParser())
}

// Parser reads Python packages through fs
type Parser struct {
	fs afero.Fs
}

// NewParser creates a parser reading from the OS filesystem
func NewParser() *Parser {
	return &Parser{fs: afero.NewOsFs()}
}

// NewParserFs creates a parser reading from fs
func NewParserFs(fs afero.Fs) *Parser {
	return &Parser{fs: fs}
}

func (p *Parser) Language() string     { return Language }
func (p *Parser) Extensions() []string { return []string{".py", ".pyi"} }

// Parse converts one source file into a module
func (p *Parser) Parse(in parsing.Source, cfg *parsing.Config) (*ir.Module, error) {
	return p.parseSource(context.Background(), in, cfg)
}

// ParseLibrary reads a package directory, or a single module file.
// Every .py file becomes a module and every directory a submodule; the
// package's own __init__.py fills the directory module.
func (p *Parser) ParseLibrary(ctx context.Context, name, root string, cfg *parsing.Config) (*ir.Library, error) {
	if cfg == nil {
		cfg = parsing.DefaultConfig()
	}
	info, err := p.fs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", root)
	}

	var meta projectMetadata
	pkgDir := root
	if info.IsDir() {
		meta = p.readProject(root)
		// src layout: root/src/<pkg> or root/<pkg> holding __init__.py
		pkgDir = p.locatePackage(root, firstNonEmpty(name, meta.Name))
	}
	if name == "" {
		name = firstNonEmpty(meta.Name, strings.TrimSuffix(filepath.Base(pkgDir), filepath.Ext(pkgDir)))
	}
	name = cfg.ModuleName(name)

	log := logger.ComponentLogger("parsing.python")
	log.Infow("Parsing package", logger.FieldLibrary, name, logger.FieldPath, pkgDir)

	var rootModule *ir.Module
	if info.IsDir() {
		rootModule, err = p.parseDir(ctx, name, pkgDir, cfg)
	} else {
		var src parsing.Source
		src, err = parsing.ReadSource(p.fs, root)
		if err == nil {
			src.Name = name
			rootModule, err = p.parseSource(ctx, src, cfg)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", name)
	}

	lib := ir.NewLibrary(name)
	lib.Metadata = meta.metadata()
	lib.RootModule = rootModule
	log.Infow("Parsed package", logger.FieldLibrary, name, logger.FieldCount, lib.CountObjects())
	return lib, nil
}

// locatePackage picks root/src/<name>, root/<name> or root itself
func (p *Parser) locatePackage(root, name string) string {
	if name == "" {
		return root
	}
	pkg := strings.ReplaceAll(name, "-", "_")
	for _, candidate := range []string{
		filepath.Join(root, "src", pkg),
		filepath.Join(root, pkg),
	} {
		if ok, _ := afero.Exists(p.fs, filepath.Join(candidate, initFile)); ok {
			return candidate
		}
	}
	return root
}

// skipDirs are never treated as packages
var skipDirs = map[string]bool{
	"__pycache__": true, "venv": true, ".venv": true, "env": true,
	"node_modules": true, "build": true, "dist": true, "site-packages": true,
	".tox": true, ".eggs": true, ".mypy_cache": true, ".pytest_cache": true,
}

func (p *Parser) parseDir(ctx context.Context, name, dir string, cfg *parsing.Config) (*ir.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mod := ir.NewModule(name)
	initPath := filepath.Join(dir, initFile)
	if ok, _ := afero.Exists(p.fs, initPath); ok {
		src, err := parsing.ReadSource(p.fs, initPath)
		if err != nil {
			return nil, err
		}
		src.Name = name
		if mod, err = p.parseSource(ctx, src, cfg); err != nil {
			return nil, err
		}
	}

	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		base := entry.Name()
		if strings.HasPrefix(base, ".") || skipDirs[base] {
			continue
		}
		path := filepath.Join(dir, base)
		var sub *ir.Module
		switch {
		case entry.IsDir():
			if !p.containsPython(path) {
				continue
			}
			sub, err = p.parseDir(ctx, cfg.ModuleName(base), path, cfg)
		case filepath.Ext(base) == ".py" && base != initFile:
			var src parsing.Source
			src, err = parsing.ReadSource(p.fs, path)
			if err == nil {
				src.Name = cfg.ModuleName(src.Name)
				sub, err = p.parseSource(ctx, src, cfg)
			}
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		sub.Visibility = moduleVisibility(base)
		mod.AddBranch(sub)
	}
	return mod, nil
}

func (p *Parser) containsPython(dir string) bool {
	found := false
	_ = afero.Walk(p.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || found {
			return filepath.SkipDir
		}
		if !info.IsDir() && filepath.Ext(path) == ".py" {
			found = true
			return filepath.SkipDir
		}
		return nil
	})
	return found
}

func (p *Parser) parseSource(ctx context.Context, in parsing.Source, cfg *parsing.Config) (*ir.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sp := sitter.NewParser()
	sp.SetLanguage(tspython.GetLanguage())
	tree, err := sp.ParseCtx(ctx, nil, in.Code)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", in.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		logger.Debugw("Source has syntax errors, continuing with recovered tree", logger.FieldPath, in.Path)
	}

	sc := &scopeParser{cfg: cfg, src: in.Code, path: in.Path}
	s := sc.scope(root)

	mod := ir.NewModule(in.Name)
	mod.Visibility = ir.Public
	mod.Imports = s.imports
	mod.Functions = s.functions
	mod.Objects = ir.DeduplicateObjects(s.objects)
	return mod, nil
}

func moduleVisibility(name string) ir.Visibility {
	return nameVisibility(strings.TrimSuffix(name, filepath.Ext(name)))
}

// nameVisibility follows the underscore convention; dunder names stay public
func nameVisibility(name string) ir.Visibility {
	if strings.HasPrefix(name, "_") && !(strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")) {
		return ir.Private
	}
	return ir.Public
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

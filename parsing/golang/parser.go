// Package golang is the go/ast frontend for Go packages.
package golang

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
)

// Language is the registry name of this frontend
const Language = "go"

func init() {
	parsing.DefaultRegistry.Register(NewParser())
}

// Parser reads Go packages through fs
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
func (p *Parser) Extensions() []string { return []string{".go"} }

// Parse converts one source file into a module
func (p *Parser) Parse(in parsing.Source, cfg *parsing.Config) (*ir.Module, error) {
	return ParseSource(in.Path, in.Code, cfg)
}

// ParseSource parses a single Go file. The module takes the package name.
func ParseSource(filename string, src []byte, cfg *parsing.Config) (*ir.Module, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, parsing.NewParseError(Language, filename, "%v", err)
	}
	return buildModule(cfg.ModuleName(file.Name.Name), []*ast.File{file})
}

// ParseLibrary reads the package in root and every package below it.
// Directories become submodules; the library is named after go.mod's module
// path when no name is given.
func (p *Parser) ParseLibrary(ctx context.Context, name, root string, cfg *parsing.Config) (*ir.Library, error) {
	if cfg == nil {
		cfg = parsing.DefaultConfig()
	}
	info, err := p.fs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", root)
	}

	var meta ir.Metadata
	if name == "" && info.IsDir() {
		if data, err := afero.ReadFile(p.fs, filepath.Join(root, "go.mod")); err == nil {
			if path := modfile.ModulePath(data); path != "" {
				name = lastSegment(path)
				meta.Homepage = "https://" + path
			}
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(root), filepath.Ext(root))
	}
	name = cfg.ModuleName(name)

	log := logger.ComponentLogger("parsing.golang")
	log.Infow("Parsing package", logger.FieldLibrary, name, logger.FieldPath, root)

	var rootModule *ir.Module
	if info.IsDir() {
		rootModule, err = p.parseDir(ctx, name, root, cfg)
	} else {
		var src parsing.Source
		if src, err = parsing.ReadSource(p.fs, root); err == nil {
			rootModule, err = ParseSource(src.Path, src.Code, cfg)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", name)
	}
	rootModule.ID.Name = name

	lib := ir.NewLibrary(name)
	lib.Metadata = meta
	lib.RootModule = rootModule
	log.Infow("Parsed package", logger.FieldLibrary, name, logger.FieldCount, lib.CountObjects())
	return lib, nil
}

// skipDirs hold no importable packages
var skipDirs = map[string]bool{"vendor": true, "testdata": true, "node_modules": true}

func (p *Parser) parseDir(ctx context.Context, name, dir string, cfg *parsing.Config) (*ir.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	fset := token.NewFileSet()
	var files []*ast.File
	var subdirs []string
	for _, entry := range entries {
		base := entry.Name()
		if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
			continue
		}
		if entry.IsDir() {
			if !skipDirs[base] {
				subdirs = append(subdirs, base)
			}
			continue
		}
		if filepath.Ext(base) != ".go" || strings.HasSuffix(base, "_test.go") {
			continue
		}
		path := filepath.Join(dir, base)
		src, err := afero.ReadFile(p.fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
		if err != nil {
			logger.Debugw("Skipping file", logger.FieldLanguage, Language, logger.FieldPath, path, logger.FieldError, err)
			continue
		}
		if file.Name.Name == "main" {
			continue
		}
		files = append(files, file)
	}

	mod, err := buildModule(name, files)
	if err != nil {
		return nil, err
	}
	for _, sub := range subdirs {
		child, err := p.parseDir(ctx, cfg.ModuleName(sub), filepath.Join(dir, sub), cfg)
		if err != nil {
			return nil, err
		}
		if isEmpty(child) {
			continue
		}
		if sub == "internal" {
			child.Visibility = ir.Private
		}
		mod.AddBranch(child)
	}
	return mod, nil
}

func isEmpty(m *ir.Module) bool {
	return len(m.Objects) == 0 && len(m.Functions) == 0 && len(m.Modules) == 0 && len(m.Imports) == 0
}

// lastSegment names a module path, skipping a major version suffix
func lastSegment(path string) string {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	if len(parts) > 1 && len(last) > 1 && last[0] == 'v' && strings.Trim(last[1:], "0123456789") == "" {
		last = parts[len(parts)-2]
	}
	return last
}

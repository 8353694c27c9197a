// Package rust is the tree-sitter frontend for Rust crates.
package rust

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"
	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
)

// Language is the registry name of this frontend
const Language = "rust"

func init() {
	parsing.DefaultRegistry.Register(NewParser())
}

// Parser reads Rust crates. Files are loaded through fs so tests can run
// against an in-memory tree.
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
func (p *Parser) Extensions() []string { return []string{".rs"} }

// Parse converts one source file into a module. `mod x;` declarations are
// loaded from x.rs or x/mod.rs beside the file.
func (p *Parser) Parse(in parsing.Source, cfg *parsing.Config) (*ir.Module, error) {
	return p.parseSource(context.Background(), in, filepath.Dir(in.Path), cfg)
}

// ParseLibrary reads the crate at root. root may be a crate directory with a
// Cargo.toml, a directory holding lib.rs, or a single .rs file.
func (p *Parser) ParseLibrary(ctx context.Context, name, root string, cfg *parsing.Config) (*ir.Library, error) {
	if cfg == nil {
		cfg = parsing.DefaultConfig()
	}
	entry, manifest, err := p.locateEntry(root)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = manifest.Package.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(root), filepath.Ext(root))
	}
	name = cfg.ModuleName(name)

	log := logger.ComponentLogger("parsing.rust")
	log.Infow("Parsing crate", logger.FieldLibrary, name, logger.FieldPath, entry)

	src, err := parsing.ReadSource(p.fs, entry)
	if err != nil {
		return nil, err
	}
	src.Name = name

	rootModule, err := p.parseSource(ctx, src, filepath.Dir(entry), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "crate %s", name)
	}

	lib := ir.NewLibrary(name)
	lib.Metadata = manifest.metadata()
	lib.RootModule = rootModule
	log.Infow("Parsed crate", logger.FieldLibrary, name, logger.FieldCount, lib.CountObjects())
	return lib, nil
}

// locateEntry finds the crate root file and reads Cargo.toml when present
func (p *Parser) locateEntry(root string) (string, cargoManifest, error) {
	var manifest cargoManifest
	info, err := p.fs.Stat(root)
	if err != nil {
		return "", manifest, errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		return root, manifest, nil
	}

	manifestPath := filepath.Join(root, "Cargo.toml")
	if ok, _ := afero.Exists(p.fs, manifestPath); ok {
		manifest, err = readManifest(p.fs, manifestPath)
		if err != nil {
			return "", manifest, err
		}
		if manifest.Lib.Path != "" {
			return filepath.Join(root, manifest.Lib.Path), manifest, nil
		}
	}

	for _, candidate := range []string{
		filepath.Join(root, "src", "lib.rs"),
		filepath.Join(root, "lib.rs"),
		filepath.Join(root, "src", "main.rs"),
	} {
		if ok, _ := afero.Exists(p.fs, candidate); ok {
			return candidate, manifest, nil
		}
	}
	return "", manifest, errors.WithHint(
		errors.NewNotFoundError("no crate root under %s", root),
		"expected src/lib.rs, lib.rs or a [lib] path in Cargo.toml")
}

// parseSource parses one file; dir is where its submodule files live
func (p *Parser) parseSource(ctx context.Context, in parsing.Source, dir string, cfg *parsing.Config) (*ir.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sp := sitter.NewParser()
	sp.SetLanguage(tsrust.GetLanguage())
	tree, err := sp.ParseCtx(ctx, nil, in.Code)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", in.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		logger.Debugw("Source has syntax errors, continuing with recovered tree", logger.FieldPath, in.Path)
	}

	mod := ir.NewModule(in.Name)
	mp := &moduleParser{parser: p, ctx: ctx, cfg: cfg, src: in.Code, path: in.Path}
	if err := mp.parseItems(mod, root, dir); err != nil {
		return nil, err
	}
	return mod, nil
}

// loadModuleFile resolves `mod name;` to name.rs or name/mod.rs inside dir
func (p *Parser) loadModuleFile(ctx context.Context, name, dir string, cfg *parsing.Config) (*ir.Module, error) {
	candidates := []string{
		filepath.Join(dir, name+".rs"),
		filepath.Join(dir, name, "mod.rs"),
	}
	for _, path := range candidates {
		if ok, _ := afero.Exists(p.fs, path); !ok {
			continue
		}
		src, err := parsing.ReadSource(p.fs, path)
		if err != nil {
			return nil, err
		}
		src.Name = name
		return p.parseSource(ctx, src, filepath.Join(dir, name), cfg)
	}
	return nil, parsing.NewParseError(Language, "mod "+name,
		"module file not found (looked for %s)", strings.Join(candidates, ", "))
}

func content(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

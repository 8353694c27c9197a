package golang

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/tree"
)

// ParsePackage loads pattern with the go tool and converts the matched
// packages into one library. The shortest import path becomes the root
// module; the others nest below it by their relative path.
func ParsePackage(ctx context.Context, dir, pattern string, cfg *parsing.Config) (*ir.Library, error) {
	if cfg == nil {
		cfg = parsing.DefaultConfig()
	}
	pcfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedModule,
	}
	pkgs, err := packages.Load(pcfg, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load package %s", pattern)
	}
	if len(pkgs) == 0 {
		return nil, errors.NewNotFoundError("no packages found for %s", pattern)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, parsing.NewParseError(Language, pkg.PkgPath, "%v", pkg.Errors[0])
		}
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	base := pkgs[0]
	name := cfg.ModuleName(base.Name)
	lib := ir.NewLibrary(name)
	if base.Module != nil {
		lib.Metadata.Version = strings.TrimPrefix(base.Module.Version, "v")
		lib.Metadata.Homepage = "https://" + base.Module.Path
	}

	for _, pkg := range pkgs {
		if pkg.Name == "main" {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(pkg.PkgPath, base.PkgPath), "/")
		modName := name
		if rel != "" {
			modName = cfg.ModuleName(lastSegment(rel))
		}
		mod, err := buildModule(modName, pkg.Syntax)
		if err != nil {
			return nil, err
		}
		if rel == "" {
			lib.RootModule = mod
			continue
		}
		parent := lib.RootModule
		segments := strings.Split(rel, "/")
		for _, seg := range segments[:len(segments)-1] {
			parent = parent.AddBranch(ir.NewModule(cfg.ModuleName(seg)))
		}
		if strings.Contains("/"+rel+"/", "/internal/") {
			mod.Visibility = ir.Private
		}
		// a placeholder created for a package-less parent directory
		if existing, ok := parent.FindModule(tree.PathOf(mod.ID.Name)); ok {
			existing.Imports = append(existing.Imports, mod.Imports...)
			existing.Functions = append(existing.Functions, mod.Functions...)
			existing.Objects = append(existing.Objects, mod.Objects...)
			continue
		}
		parent.AddBranch(mod)
	}

	logger.Infow("Loaded Go packages",
		logger.FieldLibrary, name,
		logger.FieldCount, len(pkgs))
	return lib, nil
}

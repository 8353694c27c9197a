package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/tree"
)

type generateOptions struct {
	IR      string
	Targets []string
	Output  string
	Watch   bool
	DryRun  bool
}

var generateOpts generateOptions

// GenerateCmd renders bindings for one or more targets
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render bindings from the IR",
	Long: `Render bindings for each target into <output>/<target>/.

The IR comes from --ir, the configured generator.ir_file when it exists,
or a fresh parse of the library sources. --dry-run lists the files each
target would write without touching the output directory. With --watch the bindings are
regenerated whenever bindgen.toml or an input changes.

Targets:
  c       - C header with opaque handles and prototypes (alias: h)
  rust    - extern "C" shim crate (alias: rs)
  csharp  - C# structs and P/Invoke declarations (aliases: cs, c#)
  all     - every target

Examples:
  bindgen generate
  bindgen generate --ir geometry.yaml --target c,csharp --output bindings/
  bindgen generate --dry-run --target all
  bindgen generate --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p := defaultProject()
		if err := runGenerate(cmd.Context(), cmd.OutOrStdout(), p, cfg, generateOpts); err != nil {
			return err
		}
		if !generateOpts.Watch || generateOpts.DryRun {
			return nil
		}
		return watchGenerate(cmd.Context(), cmd.OutOrStdout(), p, cfg, generateOpts)
	},
}

func init() {
	GenerateCmd.Flags().StringVar(&generateOpts.IR, "ir", "", "IR file (default: generator.ir_file, else parse sources)")
	GenerateCmd.Flags().StringSliceVarP(&generateOpts.Targets, "target", "t", nil, "Targets: c, rust, csharp, all (default: generator.targets)")
	GenerateCmd.Flags().StringVarP(&generateOpts.Output, "output", "o", "", "Output directory (default: generator.output_dir)")
	GenerateCmd.Flags().BoolVar(&generateOpts.DryRun, "dry-run", false, "List the files that would be generated without writing them")
	GenerateCmd.Flags().BoolVarP(&generateOpts.Watch, "watch", "w", false, "Regenerate when the config or inputs change")
}

func runGenerate(ctx context.Context, out io.Writer, p project, cfg *config.Config, opts generateOptions) error {
	gens, err := generator.DefaultRegistry.Resolve(targets(cfg, opts.Targets))
	if err != nil {
		return err
	}
	lib, err := p.library(ctx, cfg, opts.IR)
	if err != nil {
		return err
	}

	dir := outputDir(cfg, opts.Output)
	if opts.DryRun {
		return planGenerate(out, gens, lib, dir)
	}
	for _, g := range gens {
		files, err := generator.Generate(g, lib, p.fs, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Generated %s (%d files)\n", filepath.Join(dir, g.BasePath()), files.Len())
	}
	return nil
}

// planGenerate renders every target in memory and prints the files as a tree
func planGenerate(out io.Writer, gens []generator.Generator, lib *ir.Library, dir string) error {
	for _, g := range gens {
		files, err := generator.Render(g, lib)
		if err != nil {
			return err
		}
		root := fileNode(generator.FileIndex(g, files))
		root.Text = filepath.Join(dir, g.BasePath())
		rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render file tree")
		}
		fmt.Fprint(out, rendered)
	}
	return nil
}

func fileNode(t *tree.Tree[*output.File]) pterm.TreeNode {
	node := pterm.TreeNode{Text: t.Identifier().Name}
	if t.Value != nil {
		node.Text = fmt.Sprintf("%s (%d lines)", node.Text, strings.Count(t.Value.Content(), "\n"))
	}
	for _, b := range t.Branches() {
		node.Children = append(node.Children, fileNode(b))
	}
	return node
}

// watchGenerate regenerates after every change until ctx is cancelled.
// A failed run is logged and the previous output stays in place.
func watchGenerate(ctx context.Context, out io.Writer, p project, cfg *config.Config, opts generateOptions) error {
	inputs, err := p.inputs(cfg, opts.IR)
	if err != nil {
		return err
	}
	w, err := config.NewWatcher(cfg, inputs...)
	if err != nil {
		return err
	}
	config.SetGlobalWatcher(w)
	defer config.SetGlobalWatcher(nil)

	w.OnReload(func(current *config.Config, changed string) error {
		start := time.Now()
		if err := runGenerate(ctx, out, p, current, opts); err != nil {
			logger.Errorw("Regeneration failed", logger.FieldFile, changed, logger.FieldError, err)
			return err
		}
		logger.Infow("Regenerated bindings", logger.FieldFile, changed, logger.FieldDuration, time.Since(start).Milliseconds())
		return nil
	})
	w.Start()

	fmt.Fprintf(out, "Watching %d inputs for changes (Ctrl+C to stop)...\n", len(inputs))
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return w.Stop()
}

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/ir"
)

type parseOptions struct {
	Language string
	Name     string
	Output   string
}

var parseOpts parseOptions

// ParseCmd parses library sources into a persisted IR file
var ParseCmd = &cobra.Command{
	Use:   "parse [path]",
	Short: "Parse library sources into an IR file",
	Long: `Parse a library into the bindgen intermediate representation and save it.

The path is a crate directory, a Python package or module, or a Go module
directory. Without a path the library.root from bindgen.toml is used. The
frontend is picked from --lang, library.languages, or the only language
found under the path.

The output format follows the file extension (.yaml, .json, .toml); "-"
writes YAML to stdout.

Examples:
  bindgen parse                              # Use bindgen.toml
  bindgen parse ./geometry --output geometry.yaml
  bindgen parse ./pkg --lang python --name shapes --output -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var root string
		if len(args) > 0 {
			root = args[0]
		}
		return runParse(cmd.Context(), cmd.OutOrStdout(), defaultProject(), cfg, root, parseOpts)
	},
}

func init() {
	ParseCmd.Flags().StringVarP(&parseOpts.Language, "lang", "l", "", "Source language (rust, python, go)")
	ParseCmd.Flags().StringVarP(&parseOpts.Name, "name", "n", "", "Library name (default: from the package manifest)")
	ParseCmd.Flags().StringVarP(&parseOpts.Output, "output", "o", "", "IR file to write (default: generator.ir_file)")
}

func runParse(ctx context.Context, out io.Writer, p project, cfg *config.Config, root string, opts parseOptions) error {
	lib, err := p.parseSources(ctx, cfg, sourceOptions{Root: root, Language: opts.Language, Name: opts.Name})
	if err != nil {
		return err
	}

	if opts.Output == "-" {
		data, err := lib.Encode(ir.FormatYAML)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	path := opts.Output
	if path == "" {
		path = cfg.Resolve(cfg.Generator.IRFile)
	}
	if err := lib.SaveFs(p.fs, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Parsed %s (%d objects) → %s\n", lib.ID.Name, lib.CountObjects(), path)
	return nil
}

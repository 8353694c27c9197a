package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
)

type initOptions struct {
	Path      string
	Force     bool
	Name      string
	Root      string
	Languages []string
	Targets   []string
}

var initOpts initOptions

// InitCmd writes a default project config
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default bindgen.toml",
	Long: `Write a bindgen.toml with default settings to the current directory.

An existing file is only replaced with --force; the previous one is kept
as bindgen.toml.back1.

Examples:
  bindgen init
  bindgen init --name geometry --lang rust --target c,csharp
  bindgen init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.OutOrStdout(), initOpts)
	},
}

func init() {
	InitCmd.Flags().StringVarP(&initOpts.Path, "path", "p", config.FileName, "Where to write the config")
	InitCmd.Flags().BoolVarP(&initOpts.Force, "force", "f", false, "Overwrite an existing config")
	InitCmd.Flags().StringVar(&initOpts.Name, "name", "", "Library name (default: from the package manifest)")
	InitCmd.Flags().StringVar(&initOpts.Root, "root", "", "Library source directory (default: .)")
	InitCmd.Flags().StringSliceVarP(&initOpts.Languages, "lang", "l", nil, "Source languages to parse")
	InitCmd.Flags().StringSliceVarP(&initOpts.Targets, "target", "t", nil, "Binding targets (default: all)")
}

func runInit(out io.Writer, opts initOptions) error {
	cfg := config.Default()
	cfg.Library.Sources = []string{"**/*"}
	cfg.Library.Name = opts.Name
	if opts.Root != "" {
		cfg.Library.Root = opts.Root
	}
	if len(opts.Languages) > 0 {
		cfg.Library.Languages = opts.Languages
	}
	if len(opts.Targets) > 0 {
		cfg.Generator.Targets = opts.Targets
	}

	if err := config.Write(cfg, opts.Path, opts.Force); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Wrote %s\n", opts.Path)
	return nil
}

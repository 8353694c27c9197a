package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
)

// ErrOutOfDate is returned by check when generated bindings differ from the committed ones
var ErrOutOfDate = errors.New("generated bindings are out of date")

type checkOptions struct {
	IR             string
	Targets        []string
	Existing       string
	IgnoreMetadata bool
}

var checkOpts checkOptions

// CheckCmd verifies that committed bindings match a fresh generation
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated bindings are up to date",
	Long: `Check if existing bindings match what bindgen would generate now.

Bindings are generated to a temporary directory and compared file by file
with --existing. The "Source version:" header line is ignored unless
--ignore-metadata=false.

Exit codes:
  0 - Bindings are up to date
  1 - Bindings are out of date (differences shown)
  2 - Error during check

Examples:
  bindgen check
  bindgen check --ir geometry.yaml --existing bindings/ --target c`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runCheck(cmd.Context(), cmd.OutOrStdout(), defaultProject(), cfg, checkOpts)
	},
}

func init() {
	CheckCmd.Flags().StringVar(&checkOpts.IR, "ir", "", "IR file (default: generator.ir_file, else parse sources)")
	CheckCmd.Flags().StringSliceVarP(&checkOpts.Targets, "target", "t", nil, "Targets to check (default: generator.targets)")
	CheckCmd.Flags().StringVarP(&checkOpts.Existing, "existing", "e", "", "Directory holding the committed bindings (default: generator.output_dir)")
	CheckCmd.Flags().BoolVar(&checkOpts.IgnoreMetadata, "ignore-metadata", true, "Ignore source version header lines")
}

func runCheck(ctx context.Context, out io.Writer, p project, cfg *config.Config, opts checkOptions) error {
	fmt.Fprintln(out, "Checking generated bindings...")

	gens, err := generator.DefaultRegistry.Resolve(targets(cfg, opts.Targets))
	if err != nil {
		return err
	}
	lib, err := p.library(ctx, cfg, opts.IR)
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "bindgen-check-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	if err := generator.GenerateAll(gens, lib, p.fs, tempDir); err != nil {
		return err
	}

	result, err := generator.CompareDirectories(p.fs, gens, tempDir, outputDir(cfg, opts.Existing), opts.IgnoreMetadata)
	if err != nil {
		return errors.Wrap(err, "failed to compare directories")
	}
	printCheckResult(out, result)
	if !result.UpToDate {
		return errors.WithHint(ErrOutOfDate, "run 'bindgen generate' to update them")
	}
	return nil
}

func printCheckResult(out io.Writer, result *generator.CheckResult) {
	if result.UpToDate {
		fmt.Fprintln(out, pterm.Green("✓ Bindings are up to date"))
		return
	}
	fmt.Fprintln(out, pterm.Red("✗ Bindings are out of date."))
	for _, lang := range result.Languages() {
		fmt.Fprintf(out, "\n%s files differ:\n", lang)
		for _, file := range result.Differences[lang] {
			fmt.Fprintf(out, "  - %s\n", file)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/cmd/bindgen/commands"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"

	// Frontends and backends register themselves
	_ "github.com/teranos/bindgen/generator/c"
	_ "github.com/teranos/bindgen/generator/csharp"
	_ "github.com/teranos/bindgen/generator/rust"
	_ "github.com/teranos/bindgen/parsing/golang"
	_ "github.com/teranos/bindgen/parsing/python"
	_ "github.com/teranos/bindgen/parsing/rust"
)

var rootCmd = &cobra.Command{
	Use:   "bindgen",
	Short: "bindgen - Generate FFI bindings from library sources",
	Long: `bindgen - Generate foreign-function bindings from library sources.

bindgen parses a Rust, Python or Go library into a language-neutral
intermediate representation (IR) and renders bindings for other languages
from it through section templates.

Available commands:
  init     - Write a default bindgen.toml
  parse    - Parse library sources into an IR file
  generate - Render bindings (C header, Rust shim crate, C# P/Invoke)
  check    - Verify that generated bindings are up to date
  show     - Print the IR as a tree
  version  - Show version information

Examples:
  bindgen init                                # Create bindgen.toml
  bindgen parse ./mylib --output mylib.yaml   # Parse a crate
  bindgen generate --ir mylib.yaml --target c,csharp
  bindgen generate --watch                    # Regenerate on change
  bindgen check --existing bindings/          # CI check`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		if err := logger.InitializeWithVerbosity(verbosity, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: bindgen.toml found from the working directory)")

	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(exitCode(err))
	}
}

// hintFor returns the hints attached to err, or a generic one for its class
func hintFor(err error) string {
	if hint := errors.FlattenHints(err); hint != "" {
		return hint
	}
	switch {
	case errors.IsResolutionError(err):
		return "check the names and paths involved; 'bindgen show' prints what the IR contains"
	case errors.IsStructuralError(err):
		return "the IR file or a template is malformed; re-run 'bindgen parse' to rebuild the IR"
	}
	return ""
}

// exitCode is 1 for out-of-date bindings and 2 for every other failure
func exitCode(err error) int {
	if errors.Is(err, commands.ErrOutOfDate) {
		return 1
	}
	return 2
}

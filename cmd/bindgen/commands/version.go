package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show bindgen version information",
	Long:  `Display version, build time, commit hash, platform and the registered frontends and targets.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return runVersion(cmd.OutOrStdout(), format)
	},
}

func init() {
	VersionCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}

type versionReport struct {
	version.Info
	Frontends []string `json:"frontends"`
	Targets   []string `json:"targets"`
}

func runVersion(out io.Writer, format string) error {
	report := versionReport{
		Info:      version.Get(),
		Frontends: parsing.DefaultRegistry.Languages(),
		Targets:   generator.DefaultRegistry.Languages(),
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to format JSON")
		}
		fmt.Fprintln(out, string(data))
	case "", "text":
		fmt.Fprintln(out, report.Info.String())
		fmt.Fprintf(out, "Platform: %s\n", report.Platform)
		fmt.Fprintf(out, "Go: %s\n", report.GoVersion)
		fmt.Fprintf(out, "Frontends: %v\n", report.Frontends)
		fmt.Fprintf(out, "Targets: %v\n", report.Targets)
	default:
		return errors.Newf("unsupported format: %s (supported: text, json)", format)
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
)

type showOptions struct {
	IR     string
	Format string
}

var showOpts showOptions

// ShowCmd prints the IR
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the IR as a tree",
	Long: `Print the library IR: modules, objects, fields, constants and signatures.

Ignored entities are marked. --format yaml, json or toml prints the
persisted form instead of the tree.

Examples:
  bindgen show --ir geometry.yaml
  bindgen show --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runShow(cmd.Context(), cmd.OutOrStdout(), defaultProject(), cfg, showOpts)
	},
}

func init() {
	ShowCmd.Flags().StringVar(&showOpts.IR, "ir", "", "IR file (default: generator.ir_file, else parse sources)")
	ShowCmd.Flags().StringVarP(&showOpts.Format, "format", "f", "tree", "Output format: tree, yaml, json, toml")
}

func runShow(ctx context.Context, out io.Writer, p project, cfg *config.Config, opts showOptions) error {
	lib, err := p.library(ctx, cfg, opts.IR)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "tree":
		s, err := pterm.DefaultTree.WithRoot(libraryTree(lib)).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render tree")
		}
		fmt.Fprint(out, s)
		return nil
	case string(ir.FormatYAML), string(ir.FormatJSON), string(ir.FormatTOML):
		data, err := lib.Encode(ir.Format(opts.Format))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	return errors.Newf("unsupported format: %s (supported: tree, yaml, json, toml)", opts.Format)
}

// libraryTree is the root module node labelled with the library name and version
func libraryTree(lib *ir.Library) pterm.TreeNode {
	root := moduleNode(lib.RootModule)
	root.Text = lib.ID.Name
	if lib.Metadata.Version != "" {
		root.Text += " " + lib.Metadata.Version
	}
	return root
}

func moduleNode(m *ir.Module) pterm.TreeNode {
	node := pterm.TreeNode{Text: label("mod "+m.ID.Name, m.IsIgnored())}
	for i := range m.Imports {
		node.Children = append(node.Children, pterm.TreeNode{Text: "use " + m.Imports[i].String()})
	}
	for _, obj := range m.Objects {
		node.Children = append(node.Children, objectNode(obj))
	}
	for _, f := range m.Functions {
		node.Children = append(node.Children, pterm.TreeNode{Text: label(f.Signature(), f.IsIgnored())})
	}
	for _, sub := range m.Modules {
		node.Children = append(node.Children, moduleNode(sub))
	}
	return node
}

func objectNode(obj *ir.Object) pterm.TreeNode {
	kind := "struct"
	var variants []string
	if enum, ok := obj.Definition.(*ir.Enumeration); ok {
		kind = "enum"
		for _, v := range enum.Variants {
			variants = append(variants, v.ID.Name)
		}
	}
	node := pterm.TreeNode{Text: label(kind+" "+obj.Identifier().Name, obj.IsIgnored())}

	for _, f := range obj.Fields() {
		name := f.ID.Name
		if name == "" {
			name = "_"
		}
		node.Children = append(node.Children, pterm.TreeNode{Text: name + ": " + ir.TypeString(f.Type)})
	}
	if len(variants) > 0 {
		node.Children = append(node.Children, pterm.TreeNode{Text: strings.Join(variants, " | ")})
	}
	for _, c := range obj.Constants() {
		text := "const " + c.ID.Name + ": " + ir.TypeString(c.Type)
		if c.Literal != nil {
			text += " = " + c.Literal.String()
		}
		node.Children = append(node.Children, pterm.TreeNode{Text: text})
	}
	for _, method := range obj.Methods() {
		node.Children = append(node.Children, pterm.TreeNode{Text: label(method.Signature(), method.IsIgnored())})
	}
	return node
}

func label(text string, ignored bool) string {
	if ignored {
		return text + " (ignored)"
	}
	return text
}

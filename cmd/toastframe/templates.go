package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastframe/internal/layout"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [name]",
	Short: "List layout templates or print one",
	Long: `List the available layout templates, or print the parts a template
declares when a name is given.

Templates in the user templates directory override the built-in ones of
the same name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	loader := layout.NewLoader(getConfig().TemplatesPath())

	if len(args) == 0 {
		builtin := layout.ListEmbeddedTemplates()
		active := getConfig().Layout.Template
		for _, name := range loader.List() {
			source := "user"
			if slices.Contains(builtin, name) {
				source = "built-in"
			}
			marker := " "
			if name == active {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-12s %s\n", marker, name, source)
		}
		return nil
	}

	lay, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "position: %s\n", lay.Position)
	fmt.Fprintf(out, "width:    %d-%d\n", lay.MinWidth, lay.MaxWidth)
	fmt.Fprintln(out, "parts:")
	for _, name := range lay.Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}

package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tsawler/doctree/fidelity"
)

var propsCmd = &cobra.Command{
	Use:   "props <file>",
	Short: "List document properties",
	Long:  `List the core, application and custom properties of a document.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProps,
}

var propsSetCmd = &cobra.Command{
	Use:   "set <file> <name> <value>",
	Short: "Set a document property",
	Long: `Set a core property such as "title", an application property such as
"Company", or with --custom a user-defined property. Only the property part
changes; the rest of the package is written back byte for byte.`,
	Args: cobra.ExactArgs(3),
	RunE: runPropsSet,
}

var propsCustom bool

func init() {
	propsSetCmd.Flags().BoolVar(&propsCustom, "custom", false, "set a user-defined property")
	propsSetCmd.Flags().StringP("output", "o", "", "write to this file instead of the input")
	propsCmd.AddCommand(propsSetCmd)
	rootCmd.AddCommand(propsCmd)
}

func runProps(cmd *cobra.Command, args []string) error {
	l, err := loader(args[0])
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	store := doc.Store()
	w := cmd.OutOrStdout()
	p := newPalette(w)

	for _, name := range fidelity.CorePropertyNames() {
		if v, ok := store.CoreProperty(name); ok {
			fmt.Fprintf(w, "%s = %s\n", p.heading.Sprint(name), v)
		}
	}
	for _, name := range fidelity.ExtendedPropertyNames() {
		if v, ok := store.ExtendedProperty(name); ok {
			fmt.Fprintf(w, "%s = %s\n", p.table.Sprint(name), v)
		}
	}
	custom := store.CustomProperties()
	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s = %s\n", p.control.Sprint(name), custom[name])
	}
	return nil
}

func runPropsSet(cmd *cobra.Command, args []string) error {
	path, name, value := args[0], args[1], args[2]
	l, err := loader(path)
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	store := doc.Store()
	switch {
	case propsCustom:
		err = store.SetCustomProperty(name, value)
	case slices.Contains(fidelity.ExtendedPropertyNames(), name):
		err = store.SetExtendedProperty(name, value)
	default:
		err = store.SetCoreProperty(name, value)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return save(cmd, l, doc, outputPath(cmd, path))
}

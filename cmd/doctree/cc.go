package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/doctree/model"
)

var ccCmd = &cobra.Command{
	Use:   "cc",
	Short: "Work with content controls",
}

var ccListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List content controls",
	Args:  cobra.ExactArgs(1),
	RunE:  runCCList,
}

var ccSetCmd = &cobra.Command{
	Use:   "set <file> <tag-or-alias> <value>",
	Short: "Set the value of a content control",
	Long: `Set the value of the content control whose tag or alias matches. Drop-down
lists accept an item's display text or value, checkboxes accept true or
false and date pickers accept an ISO date such as 2024-03-05.`,
	Args: cobra.ExactArgs(3),
	RunE: runCCSet,
}

func init() {
	ccSetCmd.Flags().StringP("output", "o", "", "write to this file instead of the input")
	ccCmd.AddCommand(ccListCmd)
	ccCmd.AddCommand(ccSetCmd)
	rootCmd.AddCommand(ccCmd)
}

func runCCList(cmd *cobra.Command, args []string) error {
	l, err := loader(args[0])
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	controls := doc.Controls()
	if len(controls) == 0 {
		fmt.Fprintln(w, "No content controls found")
		return nil
	}
	p := newPalette(w)
	for _, cc := range controls {
		fmt.Fprintf(w, "%s %s", p.control.Sprint(controlName(cc)), p.faint.Sprintf("(%s, id %d)", cc.Kind, cc.ID))
		if cc.Value != "" {
			fmt.Fprintf(w, " = %q", cc.Value)
		}
		fmt.Fprintln(w)
		for _, item := range cc.Items {
			fmt.Fprintf(w, "    %s\n", choiceLabel(item))
		}
	}
	return nil
}

func choiceLabel(c model.ListChoice) string {
	if c.DisplayText != "" && c.DisplayText != c.Value {
		return fmt.Sprintf("%s (%s)", c.DisplayText, c.Value)
	}
	return c.Label()
}

func runCCSet(cmd *cobra.Command, args []string) error {
	path, name, value := args[0], args[1], args[2]
	l, err := loader(path)
	if err != nil {
		return err
	}
	doc, err := l.Parse()
	if err != nil {
		return err
	}
	cc := doc.FindControl(name)
	if cc == nil {
		return fmt.Errorf("%q: %w", name, model.ErrNoControl)
	}
	if err := doc.SetContentControlValue(cc, value); err != nil {
		return err
	}
	return save(cmd, l, doc, outputPath(cmd, path))
}

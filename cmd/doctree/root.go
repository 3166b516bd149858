package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/doctree"
	"github.com/tsawler/doctree/config"
	"github.com/tsawler/doctree/model"
)

var rootCmd = &cobra.Command{
	Use:   "doctree",
	Short: "Inspect and edit Word documents",
	Long: `doctree reads a .docx package into a heading-aware document tree.
Edits rewrite only the elements they touch; every other byte of the
package is written back unchanged.`,
	SilenceUsage:      true,
	PersistentPreRunE: checkColorMode,
}

// Persistent flags.
var (
	configPath string
	strictFlag bool
	verbose    bool
	colorMode  string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "settings file (.yaml, .yml or .toml)")
	pf.BoolVar(&strictFlag, "strict", false, "fail instead of warning when markup is regenerated with loss")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	pf.StringVar(&colorMode, "color", "auto", "colorize output: auto, always or never")
}

// loadConfig merges the settings file, the environment and the flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnvironment()
	if strictFlag {
		cfg.Strict = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func loader(path string) (*doctree.Loader, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return doctree.FromConfig(path, cfg), nil
}

// save writes doc to path and reports any fidelity warnings on stderr.
func save(cmd *cobra.Command, l *doctree.Loader, doc *model.Document, path string) error {
	warnings, err := l.WriteFile(doc, path)
	if len(warnings) > 0 {
		cmd.PrintErrln(doctree.FormatWarnings(warnings))
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// outputPath is the --output flag value, defaulting to the input file.
func outputPath(cmd *cobra.Command, input string) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	return input
}

// Command doctree inspects and edits Word documents through their document
// tree, writing back only what was changed.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

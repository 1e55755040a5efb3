// Command ideaminds manages prompt templates, fills their placeholders and
// sends the composed prompts to a generation backend.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

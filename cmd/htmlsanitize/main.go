// Command htmlsanitize reads an HTML fragment and a policy file, and writes
// the sanitized fragment to stdout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

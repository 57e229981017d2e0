// Command globalsctl inspects and edits the global snapshot shared by every
// save slot of a game.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "globalsctl:", err)
		os.Exit(1)
	}
}

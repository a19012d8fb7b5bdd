// Command sparqlc compiles SPARQL queries, written in the s-expression
// fixture notation, into the commands the janus execution engine runs.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		if code := sparqlerr.CodeOf(err); code != "" {
			fmt.Fprintln(os.Stderr, color.HiBlackString("code: %s", code))
		}
		os.Exit(1)
	}
}

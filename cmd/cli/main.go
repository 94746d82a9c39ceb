// sitelog checks IGS GNSS station site logs.
//
// Each document is split into numbered sections and "Name : Value"
// parameters, bound to typed fields, and every line that needs review is
// reported alongside its line number.
package main

import (
	"os"

	"github.com/ccollicutt/sitelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

// Command datex is the DATEX compiler front end and language tooling.
package main

import (
	"os"

	"github.com/unyt-org/datex-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

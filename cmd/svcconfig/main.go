// Command svcconfig validates, formats and inspects service model
// configuration files.
package main

import (
	"os"

	"github.com/reoring/svcconfig/cmd/svcconfig/cmd"
)

var version = "dev"

func main() {
	os.Exit(cmd.Execute(version))
}

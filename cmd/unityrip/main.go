// Command unityrip extracts assets from Unity game files. It loads config,
// validates paths, and either runs the system check (--check), version
// detection (--detect-version), or the extraction batch.
package main

import (
	"os"

	"github.com/backmassage/unityrip/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

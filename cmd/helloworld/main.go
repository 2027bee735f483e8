// Command helloworld is the helloworld Stream Deck plugin.
//
// The Stream Deck application starts it as
//
//	helloworld -port 28196 -pluginUUID <uuid> -registerEvent registerPlugin -info '{...}'
//
// The render and config subcommands are development helpers.
package main

import (
	"os"

	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	root := newRootCommand()
	root.SetArgs(normalizeLaunchArgs(os.Args[1:]))

	if err := root.Execute(); err != nil {
		logging.Errorf("helloworld: %v", err)
		os.Exit(1)
	}
}

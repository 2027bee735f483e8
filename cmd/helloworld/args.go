package main

import (
	"strings"

	"github.com/fkcurrie/streamdeck-helloworld/internal/config"
)

// normalizeLaunchArgs rewrites the single-dash long flags used by the
// Stream Deck application (-port 1234) into the form cobra expects.
func normalizeLaunchArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			name, _, _ := strings.Cut(arg[1:], "=")
			if isLaunchFlag(name) {
				arg = "-" + arg
			}
		}
		out = append(out, arg)
	}
	return out
}

func isLaunchFlag(name string) bool {
	for _, f := range config.LaunchFlags {
		if f == name {
			return true
		}
	}
	return false
}

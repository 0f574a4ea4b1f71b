package main

import (
	"context"
	"os"

	"github.com/xolan/certtrack/cmd"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run())
}

func run() int {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(context.Background()); err != nil {
		return 1
	}
	return 0
}

package main

import (
	"os"

	"github.com/semmy-space/kc/internal/cli"
)

var (
	version = "dev"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], cli.Env{Version: version}))
}

package main

import (
	"os"

	"github.com/specvital/jester/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}

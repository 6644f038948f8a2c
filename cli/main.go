package main

import (
	"os"

	"github.com/danny270793/myorm/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

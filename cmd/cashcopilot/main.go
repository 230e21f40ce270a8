package main

import (
	"os"

	"github.com/cashcopilot-dev/cashcopilot/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/stockwise-dev/agingprov/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/melkeydev/bookdash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

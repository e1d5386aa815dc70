package main

import (
	"os"

	"rptedit/cmd/rptedit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"miniscript/cmd/miniscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

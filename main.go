package main

import (
	"os"

	"github.com/tsailly/lettre-gen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

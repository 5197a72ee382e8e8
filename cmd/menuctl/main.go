package main

import (
	"os"

	"github.com/fekuna/omnipos-menu-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/MrSnakeDoc/linkroll/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

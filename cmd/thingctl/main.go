package main

import (
	"os"

	"github.com/thingorm/thing/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/davidhbaek/voiso/internal/cli"
)

func main() {
	os.Exit(cli.CLI(os.Args[1:]))
}

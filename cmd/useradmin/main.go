package main

import (
	"os"

	"github.com/baechuer/useradmin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"os"

	"posrecon-backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"github.com/mcoot/apextrack/internal/cli"
)

func main() {
	cli.Execute()
}

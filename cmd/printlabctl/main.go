package main

import (
	"printlab/internal/adapter/cli"
)

func main() {
	cli.Execute()
}

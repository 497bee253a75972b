package main

import "github.com/mcoot/playmaster/internal/cli"

func main() {
	cli.Execute()
}

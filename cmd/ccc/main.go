package main

import "github.com/andrescamacho/prun-ccc/internal/adapters/cli"

func main() {
	cli.Execute()
}

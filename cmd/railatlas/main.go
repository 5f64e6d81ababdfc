package main

import "github.com/railatlas/railatlas/internal/cli"

func main() {
	cli.Execute()
}

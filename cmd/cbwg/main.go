package main

import "github.com/hackerman70000/cbwg/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}

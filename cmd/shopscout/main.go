package main

import "shopscout-engine/internal/cli"

func main() {
	cli.Execute()
}

package main

import "collection-sessions/internal/cli"

func main() {
	cli.Execute()
}

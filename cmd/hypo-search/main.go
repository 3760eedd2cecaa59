package main

import "github.com/pfrederiksen/hypo-search/internal/cli"

func main() {
	cli.Execute()
}

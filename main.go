package main

import "github.com/petrel-labs/occurrence-atlas/cmd"

func main() {
	cmd.Execute()
}

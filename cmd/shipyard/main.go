package main

import "github.com/harborline/shipyard/cmd/shipyard/commands"

func main() {
	commands.Execute()
}

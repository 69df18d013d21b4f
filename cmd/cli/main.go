package main

import "github.com/stackfold/cmd/cli/cmd"

func main() {
	cmd.Execute()
}

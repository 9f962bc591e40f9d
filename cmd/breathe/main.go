package main

import "github.com/xvierd/breathe-cli/cmd"

func main() {
	cmd.Execute()
}

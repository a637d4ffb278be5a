package main

import "github.com/reelhouse/cli/internal/cmd"

func main() {
	cmd.Execute()
}

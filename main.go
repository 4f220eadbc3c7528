package main

import "github.com/mbh206/aifinacker/cmd"

func main() {
	cmd.Execute()
}

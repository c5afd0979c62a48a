package main

import "github.com/notargets/gopnm/cmd"

func main() {
	cmd.Execute()
}

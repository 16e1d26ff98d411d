package main

import "tunescore/cmd"

func main() {
	cmd.Execute()
}

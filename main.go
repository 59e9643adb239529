package main

import "reviewkit/cmd"

func main() {
	cmd.Execute()
}

package main

import "caextractor/cmd"

func main() {
	cmd.Execute()
}

package main

import "labelforge.com/labelforge/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/keymash/dropfilter/cmd"

func main() {
	cmd.Execute()
}

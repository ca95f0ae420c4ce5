package main

import "sakura/cmd"

func main() {
	cmd.Execute()
}

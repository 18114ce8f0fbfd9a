package main

import "drive-share/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/KaramelBytes/bfbs-cli/cmd"

func main() {
	cmd.Execute()
}

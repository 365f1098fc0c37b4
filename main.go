package main

import "github.com/KaramelBytes/churneda-cli/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/gitpod-io/fossactl/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/minsh-shell/minsh/cmd"

func main() {
	cmd.Execute()
}

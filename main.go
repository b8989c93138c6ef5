package main

import "github.com/openbhoukal/emergency-contacts/cmd"

func main() {
	cmd.Execute()
}

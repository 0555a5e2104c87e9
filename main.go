package main

import "github.com/vicinity-labs/vicinity/cmd"

func main() {
	cmd.Execute()
}

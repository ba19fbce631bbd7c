package main

import "github.com/ferntree/sprout/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/recipe-genie/server/cmd"

func main() {
	cmd.Execute()
}

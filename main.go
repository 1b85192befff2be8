package main

import "github.com/coursetools/canvascal/cmd"

func main() {
	cmd.Execute()
}

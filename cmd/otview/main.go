package main

import "github.com/OpenTraceLab/OpenTraceView/cmd/otview/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/khanhnv2901/wpinspect/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}

package main

import "github.com/gaurav-prasanna/chronoform/cmd"

func main() {
	cmd.Execute()
}

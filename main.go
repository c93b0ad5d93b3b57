package main

import "github.com/gaurav-prasanna/bookbind/cmd"

func main() {
	cmd.Execute()
}

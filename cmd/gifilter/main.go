package main

import "github.com/mtakeda/gifilter/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/tkvdb/tkv/cmd"

func main() {
	cmd.Execute()
}

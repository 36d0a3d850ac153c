package main

import "github.com/ssargent/gobtree/cmd/btreeutil/cmd"

func main() {
	cmd.Execute()
}

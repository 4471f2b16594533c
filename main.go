package main

import "github.com/nativeconf/nativeconf/cmd"

func main() {
	cmd.Execute()
}

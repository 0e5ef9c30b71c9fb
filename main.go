package main

import "github.com/tahsinrahman/tuple-shuffle/cmd"

func main() {
	cmd.Execute()
}

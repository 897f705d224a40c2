package main

import "github.com/naka-gawa/wakabox/cmd"

func main() {
	cmd.Execute()
}

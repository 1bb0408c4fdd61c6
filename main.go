package main

import "github.com/RVSV1104/qualitrack/cmd"

func main() {
	cmd.Execute()
}

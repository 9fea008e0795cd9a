package main

import "github.com/mvp-joe/c2sqlite/internal/cli"

func main() {
	cli.Execute()
}

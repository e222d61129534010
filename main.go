package main

import "github.com/Tydestiny/Incan-Gold/internal/cli"

func main() {
	cli.Execute()
}

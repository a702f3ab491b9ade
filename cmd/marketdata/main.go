package main

import "github.com/opsxjacky/vnmarket/internal/cli"

func main() {
	cli.Execute(cli.NewRootCommand())
}

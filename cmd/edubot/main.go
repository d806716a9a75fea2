package main

import "edubot/internal/cli"

func main() {
	cli.Execute()
}

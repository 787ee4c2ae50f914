package main

import "github.com/selimozcann/seoaudit/cmd"

func main() {
	cmd.Execute()
}

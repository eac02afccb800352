package main

import "newsbalance/cmd"

func main() {
	cmd.Execute()
}

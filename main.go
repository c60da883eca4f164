package main

import "github.com/dessertly/ordersync/cmd"

func main() {
	cmd.Execute()
}

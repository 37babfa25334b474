package main

import "baggedflix/cmd"

func main() {
	cmd.Execute()
}

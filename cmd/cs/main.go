package main

import "cleansteps/cmd/cs/root"

func main() {
	root.Execute()
}

package main

import "questpet/cmd/qp/root"

func main() {
	root.Execute()
}

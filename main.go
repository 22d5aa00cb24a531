package main

import "github.com/accrava/clausescan/cmd/clausescan"

func main() {
	clausescan.Execute()
}

// Package main provides the netshape CLI.
//
// netshape reads network descriptions and prints the shape of every layer
// for a given input shape:
//
//	netshape -input 1,3,32,32 -chain model.yaml
package main

import (
	"os"
)

const version = "v0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Package main is the camtool command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/cammodels/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

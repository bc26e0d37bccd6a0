package main

import (
	"fmt"
	"os"

	"github.com/citrus-cyclones/letthemcook/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "letthemcook: %v\n", err)
		os.Exit(1)
	}
}

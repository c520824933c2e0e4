package main

import (
	"fmt"
	"os"

	"neuronshim/internal/ctl"
)

func main() {
	if err := ctl.Execute(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	_ "github.com/oicr-gsi/shesmu/cmd/shesmu/check"
	"github.com/oicr-gsi/shesmu/cmd/shesmu/root"
	_ "github.com/oicr-gsi/shesmu/cmd/shesmu/run"
)

func main() {
	if err := root.Shesmu.Exec(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/memora-care/memora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "memora:", err)
		os.Exit(1)
	}
}

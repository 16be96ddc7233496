package main

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/timemark/internal/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ timemark: %v\n", err)
		os.Exit(1)
	}
}

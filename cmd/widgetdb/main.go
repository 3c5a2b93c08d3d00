package main

import (
	"fmt"
	"os"

	"widgetdb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "widgetdb:", err)
		os.Exit(1)
	}
}

//go:build windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "termsel is not supported on Windows. It requires a Unix pseudo-terminal and is supported on Linux/macOS.")
	os.Exit(1)
}

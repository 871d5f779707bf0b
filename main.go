// Package main provides the entry point for m68kasm.
// m68kasm is a two-pass M68K assembler and instruction-level simulator.
//
// For the full CLI, use: go run ./cmd/m68kasm
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("m68kasm - M68K assembler and instruction-level simulator")
	fmt.Println("")
	fmt.Println("Usage: m68kasm [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -a        Load address in hex, default 10000")
	fmt.Println("  -dump     Path to write the memory change-dump file")
	fmt.Println("  -trace    Print a per-instruction trace (default true)")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/m68kasm' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/m68kasm' instead.")
	}
}

// Package main provides the entry point for m68kasm, the two-pass M68K
// assembler and instruction-level simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/m68ksim/asm"
	"github.com/sarchlab/m68ksim/emu"
	"github.com/sarchlab/m68ksim/mem"
)

var (
	loadAddr  = flag.String("a", "10000", "load address in hex (without 0x prefix)")
	dumpPath  = flag.String("dump", "memory_dump.txt", "path to write the memory change-dump file")
	traceFlag = flag.Bool("trace", true, "print a per-instruction trace")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: m68kasm [options] <program.asm>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	sourcePath := flag.Arg(0)

	var addr uint32
	if _, err := fmt.Sscanf(*loadAddr, "%x", &addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid load address %q: %v\n", *loadAddr, err)
		os.Exit(1)
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", sourcePath, err)
		os.Exit(1)
	}

	os.Exit(run(string(source), addr))
}

func run(source string, addr uint32) int {
	lines := splitLines(source)

	m := mem.New()
	result := asm.Assemble(lines, addr, m)
	if len(result.Diagnostics) > 0 {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return 1
	}

	e := emu.NewEmulator(m,
		emu.WithTrace(*traceFlag),
		emu.WithSourceMap(result.SourceMap),
	)
	e.SetPC(result.EntryPoint)

	fmt.Printf("Entry point: 0x%08X\n", result.EntryPoint)
	fmt.Printf("Initial state: %s\n", e.Registers().String())

	step := e.Run()

	fmt.Printf("\nFinal state: %s\n", e.Registers().String())
	fmt.Printf("Instructions executed: %d\n", e.InstructionCount())
	if step.Err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", step.Err)
	}

	dumpFile, err := os.Create(*dumpPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *dumpPath, err)
		return 1
	}
	defer dumpFile.Close()
	if err := e.Memory().DumpChanges(dumpFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *dumpPath, err)
		return 1
	}

	if step.Err != nil {
		return 1
	}
	return 0
}

func splitLines(source string) []string {
	var lines []string
	start := 0
	for i, r := range source {
		if r == '\n' {
			lines = append(lines, source[start:i])
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, source[start:])
	}
	return lines
}

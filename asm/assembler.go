// Package asm implements the two-pass M68K assembler: pass 1 resolves
// labels and predicts instruction sizes, pass 2 parses each line again and
// emits machine code through the shared effective-address layout in core.
package asm

import (
	"fmt"

	"github.com/sarchlab/m68ksim/mem"
	"github.com/sarchlab/m68ksim/srcmap"
	"github.com/sarchlab/m68ksim/symtab"
)

// Diagnostic is one recoverable assembly-time error, tied to its source
// line.
type Diagnostic struct {
	Line    int
	Message string
}

// String renders a diagnostic the way the trace prefixes it: "L{n}: Error: …".
func (d Diagnostic) String() string {
	return fmt.Sprintf("L%d: Error: %s", d.Line, d.Message)
}

// Result is the outcome of assembling a program.
type Result struct {
	// EntryPoint is the address execution should start at: the caller's
	// requested load address, unless the program's first ORG overrides it.
	EntryPoint uint32

	Diagnostics []Diagnostic
	SourceMap   *srcmap.Map
	Symbols     *symtab.Table
}

// Assemble two-pass-assembles lines into m starting at loadAddr. Lexical
// and semantic errors are collected as diagnostics rather than aborting;
// the resulting image may be partially invalid, per policy.
func Assemble(lines []string, loadAddr uint32, m *mem.Memory) *Result {
	sym := symtab.New(nil)
	sources := srcmap.New()
	result := &Result{SourceMap: sources, Symbols: sym}

	parsed := make([]Line, len(lines))
	parseOK := make([]bool, len(lines))

	// Pass 1: resolve label addresses and predict instruction sizes.
	addr := loadAddr
	sawOrg := false
	for i, raw := range lines {
		l, err := ParseLine(raw)
		if err != nil {
			continue
		}
		parsed[i] = l
		parseOK[i] = true

		if l.Label != "" {
			if !sym.Insert(l.Label, addr) {
				result.Diagnostics = append(result.Diagnostics, Diagnostic{
					Line:    i + 1,
					Message: fmt.Sprintf("duplicate symbol %q", l.Label),
				})
			}
		}
		if l.IsOrg {
			if !sawOrg {
				loadAddr = l.OrgValue
				sawOrg = true
			}
			addr = l.OrgValue
			continue
		}
		if l.Blank || l.Mnemonic == "" {
			continue
		}
		sz, err := Size(l)
		if err != nil {
			addr += 2 // best-effort continuation, matching the historical unknown-opcode policy
			continue
		}
		addr += uint32(sz)
	}
	result.EntryPoint = loadAddr

	// Pass 2: re-parse and emit, now that every label has an address.
	ctx := &encCtx{mem: m, sym: sym}
	addr = loadAddr
	sawOrg = false
	for i, raw := range lines {
		lineNum := i + 1
		if !parseOK[i] {
			if _, err := ParseLine(raw); err != nil {
				result.Diagnostics = append(result.Diagnostics, Diagnostic{Line: lineNum, Message: err.Error()})
			}
			continue
		}

		l := parsed[i]
		if l.IsOrg {
			if !sawOrg {
				sawOrg = true
			}
			addr = l.OrgValue
			continue
		}
		if l.Blank || l.Mnemonic == "" {
			continue
		}

		sources.Add(addr, lineNum, l.Text)

		sz, err := Size(l)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Line: lineNum, Message: err.Error()})
			addr += 2
			continue
		}

		for _, msg := range ctx.encode(l, addr) {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Line: lineNum, Message: msg})
		}
		addr += uint32(sz)
	}

	return result
}

// Package symtab is the assembler's label table: a name-to-address map
// populated during pass 1 and queried during pass 2.
package symtab

import (
	"fmt"
	"io"
)

// Table maps label names to the address they were defined at. Names are
// case-sensitive. A second definition of the same name is discarded; the
// first definition wins.
type Table struct {
	addrs map[string]uint32
	warn  io.Writer
}

// New returns an empty symbol table. Duplicate-definition warnings are
// written to warn; a nil warn discards them.
func New(warn io.Writer) *Table {
	return &Table{
		addrs: make(map[string]uint32),
		warn:  warn,
	}
}

// Insert records name at addr and reports whether it was newly defined.
// If name is already defined, the new address is discarded, a warning is
// emitted naming the duplicate, and Insert returns false so the caller can
// surface its own diagnostic.
func (t *Table) Insert(name string, addr uint32) bool {
	if _, exists := t.addrs[name]; exists {
		if t.warn != nil {
			fmt.Fprintf(t.warn, "WARN: Duplicate symbol '%s' found. Ignoring.\n", name)
		}
		return false
	}
	t.addrs[name] = addr
	return true
}

// Lookup returns the address name was defined at, and whether it was found.
func (t *Table) Lookup(name string) (uint32, bool) {
	addr, ok := t.addrs[name]
	return addr, ok
}

// Len returns the number of distinct symbols defined.
func (t *Table) Len() int {
	return len(t.addrs)
}

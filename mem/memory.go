// Package mem provides the flat, byte-addressed memory image the assembler
// writes into and the simulator reads from, along with the ordered write
// journal used to reconstruct every mutation after a run.
package mem

import (
	"fmt"
	"io"
)

// Size is the total addressable span of the memory image: 16 MiB.
const Size = 16 * 1024 * 1024

// Change is a single recorded byte-level write.
type Change struct {
	Address uint32
	Old     byte
	New     byte
}

// Memory is a flat, zero-initialized byte array with big-endian word/long
// accessors and an append-only journal of every byte written to it.
type Memory struct {
	data    [Size]byte
	changes []Change
}

// New returns a zero-initialized memory image.
func New() *Memory {
	return &Memory{
		changes: make([]Change, 0, 1024),
	}
}

// ReadByte reads a single byte, wrapping the address modulo Size.
func (m *Memory) ReadByte(addr uint32) byte {
	return m.data[addr%Size]
}

// WriteByte writes a single byte, wrapping the address modulo Size, and
// appends a journal entry regardless of whether the stored byte changed.
func (m *Memory) WriteByte(addr uint32, v byte) {
	addr %= Size
	old := m.data[addr]
	m.data[addr] = v
	m.changes = append(m.changes, Change{Address: addr, Old: old, New: v})
}

// ReadWord reads a big-endian 16-bit value as two composed byte reads.
func (m *Memory) ReadWord(addr uint32) uint16 {
	hi := m.ReadByte(addr)
	lo := m.ReadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord writes a big-endian 16-bit value as two composed byte writes, so
// the journal records both bytes in address order.
func (m *Memory) WriteWord(addr uint32, v uint16) {
	m.WriteByte(addr, byte(v>>8))
	m.WriteByte(addr+1, byte(v))
}

// ReadLong reads a big-endian 32-bit value as four composed byte reads.
func (m *Memory) ReadLong(addr uint32) uint32 {
	b0 := m.ReadByte(addr)
	b1 := m.ReadByte(addr + 1)
	b2 := m.ReadByte(addr + 2)
	b3 := m.ReadByte(addr + 3)
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// WriteLong writes a big-endian 32-bit value as four composed byte writes,
// so the journal records all four bytes in address order.
func (m *Memory) WriteLong(addr uint32, v uint32) {
	m.WriteByte(addr, byte(v>>24))
	m.WriteByte(addr+1, byte(v>>16))
	m.WriteByte(addr+2, byte(v>>8))
	m.WriteByte(addr+3, byte(v))
}

// Changes returns the ordered journal of every byte write so far. The
// returned slice must not be mutated by the caller.
func (m *Memory) Changes() []Change {
	return m.changes
}

// DumpChanges writes the journal to w, one line per entry, in the format
// `0x{addr:08X}: 0x{old:02X} -> 0x{new:02X}`.
func (m *Memory) DumpChanges(w io.Writer) error {
	for _, c := range m.changes {
		if _, err := fmt.Fprintf(w, "0x%08X: 0x%02X -> 0x%02X\n", c.Address, c.Old, c.New); err != nil {
			return fmt.Errorf("writing memory change: %w", err)
		}
	}
	return nil
}

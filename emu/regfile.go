// Package emu provides functional M68K instruction-level emulation.
package emu

import "fmt"

// Status register bit positions.
const (
	srT1 = 15
	srS  = 13
	srI2 = 10
	srX  = 4
	srN  = 3
	srZ  = 2
	srV  = 1
	srC  = 0
)

// RegFile is the processor-visible architectural state: eight data
// registers, eight address registers (A7 doubles as the stack pointer by
// convention only — nothing in this subset enforces that), the program
// counter, and the status register.
type RegFile struct {
	D  [8]uint32
	A  [8]uint32
	PC uint32
	SR uint16
}

// Reset restores the documented 68000 reset state: all general registers
// zero, supervisor mode set, interrupt mask at level 7. Steps 3-4 of the
// datasheet's reset sequence — loading SSP and PC from the vector table —
// are replaced by the driver setting PC directly to the assembled load
// address.
func (r *RegFile) Reset() {
	*r = RegFile{}
	r.SR = 1<<srS | 7<<srI2
}

func flagBit(v uint16, pos uint) bool { return (v>>pos)&1 == 1 }

func setFlagBit(v *uint16, pos uint, on bool) {
	if on {
		*v |= 1 << pos
	} else {
		*v &^= 1 << pos
	}
}

func (r *RegFile) N() bool     { return flagBit(r.SR, srN) }
func (r *RegFile) SetN(v bool) { setFlagBit(&r.SR, srN, v) }
func (r *RegFile) Z() bool     { return flagBit(r.SR, srZ) }
func (r *RegFile) SetZ(v bool) { setFlagBit(&r.SR, srZ, v) }
func (r *RegFile) V() bool     { return flagBit(r.SR, srV) }
func (r *RegFile) SetV(v bool) { setFlagBit(&r.SR, srV, v) }
func (r *RegFile) C() bool     { return flagBit(r.SR, srC) }
func (r *RegFile) SetC(v bool) { setFlagBit(&r.SR, srC, v) }
func (r *RegFile) X() bool     { return flagBit(r.SR, srX) }
func (r *RegFile) SetX(v bool) { setFlagBit(&r.SR, srX, v) }

// String renders the register dump the trace prints after every executed
// instruction: PC, D0..D7, SR, then A0..A7.
func (r *RegFile) String() string {
	s := fmt.Sprintf("PC=0x%08X ", r.PC)
	for i, d := range r.D {
		s += fmt.Sprintf("D%d=0x%08X ", i, d)
	}
	s += fmt.Sprintf("SR=0x%04X ", r.SR)
	for i, a := range r.A {
		s += fmt.Sprintf("A%d=0x%08X ", i, a)
	}
	return s
}

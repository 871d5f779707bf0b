package emu

import "github.com/sarchlab/m68ksim/core"

// ALU computes the arithmetic and logical flags for the instructions this
// subset supports, at a size-aware bit precision shared with the
// effective-address engine.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// addFlags computes the V and C flags for src+dst=result at size, via the
// sum-of-products formulas over the operands' and result's sign bits.
func addFlags(src, dst, result uint32, size core.Size) (v, c bool) {
	m := size.MSBMask()
	sm := src&m != 0
	dm := dst&m != 0
	rm := result&m != 0
	v = (!sm && !dm && rm) || (sm && dm && !rm)
	c = (sm && dm) || (!rm && dm) || (sm && !rm)
	return v, c
}

// subFlags computes the V and C flags for dst-src=result at size.
func subFlags(src, dst, result uint32, size core.Size) (v, c bool) {
	m := size.MSBMask()
	sm := src&m != 0
	dm := dst&m != 0
	rm := result&m != 0
	v = (sm && !dm && !rm) || (!sm && dm && rm)
	c = (sm && !dm) || (rm && !dm) || (sm && rm)
	return v, c
}

// SetAddFlags applies ADD's flag rule: Z/N from the size-masked result,
// V/C from addFlags, and X copied from C.
func (a *ALU) SetAddFlags(src, dst, result uint32, size core.Size) {
	a.setArithFlags(src, dst, result, size, false)
}

// SetSubFlags applies SUB's flag rule, mirroring SetAddFlags.
func (a *ALU) SetSubFlags(src, dst, result uint32, size core.Size) {
	a.setArithFlags(src, dst, result, size, true)
}

func (a *ALU) setArithFlags(src, dst, result uint32, size core.Size, sub bool) {
	masked := result & size.Mask()
	a.regFile.SetZ(masked == 0)
	a.regFile.SetN(masked&size.MSBMask() != 0)
	var v, c bool
	if sub {
		v, c = subFlags(src, dst, result, size)
	} else {
		v, c = addFlags(src, dst, result, size)
	}
	a.regFile.SetV(v)
	a.regFile.SetC(c)
	a.regFile.SetX(c)
}

// SetLogicFlags applies the ANDI (logical-op) rule: clear V
// and C, set N and Z from the result; X is left untouched.
func (a *ALU) SetLogicFlags(result uint32, size core.Size) {
	masked := result & size.Mask()
	a.regFile.SetZ(masked == 0)
	a.regFile.SetN(masked&size.MSBMask() != 0)
	a.regFile.SetV(false)
	a.regFile.SetC(false)
}

// SetMoveFlags applies MOVE's flag rule: clear V and C, set N and Z from
// the moved value; X untouched. MOVEA never calls this.
func (a *ALU) SetMoveFlags(value uint32, size core.Size) {
	a.SetLogicFlags(value, size)
}

// SetBitTestFlag applies BTST/BCHG/BCLR/BSET's flag rule: Z is set from
// the complement of the tested bit; N, V, C, X are untouched.
func (a *ALU) SetBitTestFlag(bitWasSet bool) {
	a.regFile.SetZ(!bitWasSet)
}

package emu

import "github.com/sarchlab/m68ksim/core"

// BranchUnit evaluates the 15 Bcc condition codes against the current
// status register and performs the PC-relative jump when taken.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// CheckCondition evaluates cond against the current N/Z/V/C flags.
func (b *BranchUnit) CheckCondition(cond core.Cond) bool {
	n, z, v, c := b.regFile.N(), b.regFile.Z(), b.regFile.V(), b.regFile.C()

	switch cond {
	case core.CondBRA:
		return true
	case core.CondBHI:
		return !c && !z
	case core.CondBLS:
		return c || z
	case core.CondBCC:
		return !c
	case core.CondBCS:
		return c
	case core.CondBNE:
		return !z
	case core.CondBEQ:
		return z
	case core.CondBVC:
		return !v
	case core.CondBVS:
		return v
	case core.CondBPL:
		return !n
	case core.CondBMI:
		return n
	case core.CondBGE:
		return (n && v) || (!n && !v)
	case core.CondBLT:
		return (n && !v) || (!n && v)
	case core.CondBGT:
		return (n && v && !z) || (!n && !v && !z)
	case core.CondBLE:
		return z || (n && !v) || (!n && v)
	default:
		return false
	}
}

// Bcc takes the branch if cond holds: PC, already advanced past the
// opcode word by the fetch step, moves by the sign-extended 8-bit
// displacement. It is a no-op when the condition does not hold, since
// the fetch step has already left PC pointing at the next instruction.
func (b *BranchUnit) Bcc(cond core.Cond, disp int8) {
	if b.CheckCondition(cond) {
		b.regFile.PC = uint32(int32(b.regFile.PC) + int32(disp))
	}
}

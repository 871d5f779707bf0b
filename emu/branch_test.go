package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m68ksim/core"
	"github.com/sarchlab/m68ksim/emu"
)

// reference independently re-derives each condition's predicate from the
// raw N/Z/V/C flags, so the test does not just restate CheckCondition's own
// implementation back at itself.
func reference(cond core.Cond, n, z, v, c bool) bool {
	switch cond {
	case core.CondBRA:
		return true
	case core.CondBHI:
		return !(c || z)
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
		return n == v
	case core.CondBLT:
		return n != v
	case core.CondBGT:
		return !z && n == v
	case core.CondBLE:
		return z || n != v
	default:
		return false
	}
}

var allConds = []core.Cond{
	core.CondBRA, core.CondBHI, core.CondBLS, core.CondBCC, core.CondBCS,
	core.CondBNE, core.CondBEQ, core.CondBVC, core.CondBVS, core.CondBPL,
	core.CondBMI, core.CondBGE, core.CondBLT, core.CondBGT, core.CondBLE,
}

var _ = Describe("BranchUnit", func() {
	It("matches the condition truth table for every flag combination", func() {
		regs := &emu.RegFile{}
		branch := emu.NewBranchUnit(regs)

		for bits := 0; bits < 16; bits++ {
			n := bits&0x8 != 0
			z := bits&0x4 != 0
			v := bits&0x2 != 0
			c := bits&0x1 != 0

			regs.SetN(n)
			regs.SetZ(z)
			regs.SetV(v)
			regs.SetC(c)

			for _, cond := range allConds {
				Expect(branch.CheckCondition(cond)).To(
					Equal(reference(cond, n, z, v, c)),
					"cond=%v n=%v z=%v v=%v c=%v", cond, n, z, v, c,
				)
			}
		}
	})

	It("advances PC by the displacement only when the condition holds", func() {
		regs := &emu.RegFile{}
		branch := emu.NewBranchUnit(regs)

		regs.PC = 0x10002
		regs.SetZ(false)
		branch.Bcc(core.CondBNE, -2)
		Expect(regs.PC).To(Equal(uint32(0x10000)))

		regs.PC = 0x10002
		regs.SetZ(true)
		branch.Bcc(core.CondBNE, -2)
		Expect(regs.PC).To(Equal(uint32(0x10002)))
	})
})

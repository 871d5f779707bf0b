package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m68ksim/asm"
	"github.com/sarchlab/m68ksim/emu"
	"github.com/sarchlab/m68ksim/mem"
)

func assembleAndRun(lines []string) (*emu.Emulator, *asm.Result) {
	m := mem.New()
	result := asm.Assemble(lines, 0x10000, m)
	Expect(result.Diagnostics).To(BeEmpty())

	e := emu.NewEmulator(m, emu.WithTrace(false), emu.WithSourceMap(result.SourceMap))
	e.SetPC(result.EntryPoint)
	e.Run()
	return e, result
}

var _ = Describe("Emulator", func() {
	It("runs the countdown loop to a zeroed, zero-flagged D0", func() {
		e, _ := assembleAndRun([]string{
			"ORG $10000",
			"MOVE.W #3,D0",
			"LOOP: SUBQ.W #1,D0",
			"BNE LOOP",
			"RTS",
		})
		regs := e.Registers()
		Expect(regs.D[0] & 0xFFFF).To(Equal(uint32(0)))
		Expect(regs.Z()).To(BeTrue())
	})

	It("stores an immediate long through D1 into absolute memory", func() {
		e, _ := assembleAndRun([]string{
			"MOVE.L #$DEADBEEF,D1",
			"MOVE.L D1,$2000",
			"RTS",
		})
		Expect(e.Registers().D[1]).To(Equal(uint32(0xDEADBEEF)))
		Expect(e.Memory().ReadLong(0x2000)).To(Equal(uint32(0xDEADBEEF)))

		changes := e.Memory().Changes()
		var writes []mem.Change
		for _, c := range changes {
			if c.Address >= 0x2000 && c.Address <= 0x2003 {
				writes = append(writes, c)
			}
		}
		Expect(writes).To(HaveLen(4))
		Expect(writes[0].New).To(Equal(byte(0xDE)))
		Expect(writes[3].New).To(Equal(byte(0xEF)))
	})

	It("produces the documented flags for an unsigned ADD.B overflow", func() {
		e, _ := assembleAndRun([]string{
			"MOVE.B #$FF,D0",
			"MOVE.B #$01,D1",
			"ADD.B D1,D0",
			"RTS",
		})
		regs := e.Registers()
		Expect(regs.D[0] & 0xFF).To(Equal(uint32(0)))
		Expect(regs.Z()).To(BeTrue())
		Expect(regs.C()).To(BeTrue())
		Expect(regs.X()).To(BeTrue())
		Expect(regs.V()).To(BeFalse())
		Expect(regs.N()).To(BeFalse())
	})

	It("produces the documented flags for a signed ADDQ.W overflow", func() {
		e, _ := assembleAndRun([]string{
			"MOVE.W #$7FFF,D0",
			"ADDQ.W #1,D0",
			"RTS",
		})
		regs := e.Registers()
		Expect(regs.D[0] & 0xFFFF).To(Equal(uint32(0x8000)))
		Expect(regs.N()).To(BeTrue())
		Expect(regs.V()).To(BeTrue())
		Expect(regs.C()).To(BeFalse())
		Expect(regs.Z()).To(BeFalse())
	})

	It("leaves data untouched across BTST and sets Z from the bit's complement", func() {
		e, _ := assembleAndRun([]string{
			"MOVE.L #$00000002,D0",
			"BTST #1,D0",
			"BTST #0,D0",
			"RTS",
		})
		Expect(e.Registers().D[0]).To(Equal(uint32(2)))
		Expect(e.Registers().Z()).To(BeTrue()) // last probe: bit 0 of 2 is clear
	})

	It("reports Z=0 then Z=1 across the two BTST probes in sequence", func() {
		m := mem.New()
		result := asm.Assemble([]string{
			"MOVE.L #$00000002,D0",
			"BTST #1,D0",
			"BTST #0,D0",
		}, 0x10000, m)
		Expect(result.Diagnostics).To(BeEmpty())

		e := emu.NewEmulator(m, emu.WithTrace(false), emu.WithSourceMap(result.SourceMap))
		e.SetPC(result.EntryPoint)
		e.Step() // MOVE.L
		e.Step() // BTST #1,D0 -> bit 1 of 2 is set
		Expect(e.Registers().Z()).To(BeFalse())
		e.Step() // BTST #0,D0 -> bit 0 of 2 is clear
		Expect(e.Registers().Z()).To(BeTrue())
	})

	It("synthesizes MOVEA with sign-extension and leaves flags untouched", func() {
		m := mem.New()
		result := asm.Assemble([]string{
			"MOVE.W #$8000,D0",
			"MOVEA.W #$8000,A0",
		}, 0x10000, m)
		Expect(result.Diagnostics).To(BeEmpty())

		e := emu.NewEmulator(m, emu.WithTrace(false), emu.WithSourceMap(result.SourceMap))
		e.SetPC(result.EntryPoint)
		e.Step() // MOVE.W #$8000,D0 sets N from the sign bit of 0x8000
		srAfterMove := e.Registers().SR
		e.Step() // MOVEA.W #$8000,A0 sign-extends into A0 without touching SR

		regs := e.Registers()
		Expect(regs.A[0]).To(Equal(uint32(0xFFFF8000)))
		Expect(regs.N()).To(BeTrue())
		Expect(regs.SR).To(Equal(srAfterMove))
	})

	It("caps runaway execution at the instruction safety limit", func() {
		m := mem.New()
		lines := []string{"ORG $10000", "LOOP: BRA LOOP"}
		result := asm.Assemble(lines, 0, m)
		Expect(result.Diagnostics).To(BeEmpty())

		e := emu.NewEmulator(m, emu.WithTrace(false), emu.WithMaxInstructions(50))
		e.SetPC(result.EntryPoint)
		step := e.Run()
		Expect(step.Exited).To(BeTrue())
		Expect(step.Err).To(HaveOccurred())
		Expect(e.InstructionCount()).To(Equal(uint64(50)))
	})
})

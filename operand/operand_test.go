package operand_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m68ksim/operand"
)

var _ = Describe("Parse", func() {
	It("parses a data register", func() {
		op, err := operand.Parse("D3")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.DataRegDirect, Reg: 3}))
	})

	It("parses an address register, case-insensitively", func() {
		op, err := operand.Parse("a5")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.AddrRegDirect, Reg: 5}))
	})

	It("parses address register indirect", func() {
		op, err := operand.Parse("(A0)")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.AddrRegIndirect, Reg: 0}))
	})

	It("parses post-increment", func() {
		op, err := operand.Parse("(A2)+")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.PostIncrement, Reg: 2}))
	})

	It("parses pre-decrement", func() {
		op, err := operand.Parse("-(A7)")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.PreDecrement, Reg: 7}))
	})

	It("parses a signed displacement", func() {
		op, err := operand.Parse("-4(A3)")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.Displacement16, Reg: 3, Disp: -4}))
	})

	It("parses a decimal immediate", func() {
		op, err := operand.Parse("#3")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.Immediate, Value: 3}))
	})

	It("parses a hexadecimal immediate", func() {
		op, err := operand.Parse("#$DEADBEEF")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.Immediate, Value: 0xDEADBEEF}))
	})

	It("parses a bare short address", func() {
		op, err := operand.Parse("$2000")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.AbsoluteShort, Value: 0x2000}))
	})

	It("parses a bare long address", func() {
		op, err := operand.Parse("$123456")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.AbsoluteLong, Value: 0x123456}))
	})

	It("parses an unresolved label as a deferred absolute-long operand", func() {
		op, err := operand.Parse("LOOP")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.AbsoluteLong, Label: "LOOP"}))
	})

	It("parses PC-relative with a label", func() {
		op, err := operand.Parse("TABLE(PC)")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(operand.Operand{Mode: operand.PCRelative, Label: "TABLE"}))
	})

	It("rejects unrecognized syntax", func() {
		_, err := operand.Parse("???")
		Expect(err).To(HaveOccurred())
	})
})

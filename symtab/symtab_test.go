package symtab_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m68ksim/symtab"
)

var _ = Describe("Table", func() {
	It("looks up an inserted symbol", func() {
		t := symtab.New(nil)
		t.Insert("LOOP", 0x10002)

		addr, ok := t.Lookup("LOOP")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint32(0x10002)))
	})

	It("reports a miss for an undefined symbol", func() {
		t := symtab.New(nil)
		_, ok := t.Lookup("NOPE")
		Expect(ok).To(BeFalse())
	})

	It("is case-sensitive", func() {
		t := symtab.New(nil)
		t.Insert("Loop", 1)
		_, ok := t.Lookup("LOOP")
		Expect(ok).To(BeFalse())
	})

	It("keeps the first definition and warns on a duplicate", func() {
		var warn strings.Builder
		t := symtab.New(&warn)

		Expect(t.Insert("LOOP", 0x100)).To(BeTrue())
		Expect(t.Insert("LOOP", 0x200)).To(BeFalse())

		addr, ok := t.Lookup("LOOP")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint32(0x100)))
		Expect(warn.String()).To(ContainSubstring("Duplicate symbol 'LOOP'"))
	})
})

package asm

import (
	"fmt"

	"github.com/sarchlab/m68ksim/core"
	"github.com/sarchlab/m68ksim/mem"
	"github.com/sarchlab/m68ksim/operand"
	"github.com/sarchlab/m68ksim/symtab"
)

// encCtx carries the dependencies the encoder needs to turn one parsed line
// into machine code: the memory image it writes into and the symbol table
// it resolves labels against.
type encCtx struct {
	mem *mem.Memory
	sym *symtab.Table
}

// encode emits the machine code for l at addr and returns any non-fatal
// diagnostics (undefined symbol, branch out of range, unsupported operand
// combination). The caller always advances its address cursor by the
// pass-1-predicted Size(l), independent of how many bytes encode actually
// wrote, so a mid-instruction encoding failure cannot desynchronize later
// addresses.
func (c *encCtx) encode(l Line, addr uint32) []string {
	switch l.Mnemonic {
	case "NOP":
		c.mem.WriteWord(addr, 0x4E71)
		return nil
	case "RTS":
		c.mem.WriteWord(addr, 0x4E75)
		return nil
	case "MOVE", "MOVEA":
		return c.encodeMove(l, addr)
	case "ADDQ":
		return c.encodeQuick(l, addr, 0x5000)
	case "SUBQ":
		return c.encodeQuick(l, addr, 0x5100)
	case "ADDI":
		return c.encodeImmOp(l, addr, 0x0600)
	case "SUBI":
		return c.encodeImmOp(l, addr, 0x0400)
	case "ANDI":
		return c.encodeImmOp(l, addr, 0x0200)
	case "ADD":
		return c.encodeRegOp(l, addr, 0xD000)
	case "SUB":
		return c.encodeRegOp(l, addr, 0x9000)
	case "BTST":
		return c.encodeBitOp(l, addr, 0x0800, 0x0100)
	case "BCHG":
		return c.encodeBitOp(l, addr, 0x0840, 0x0140)
	case "BCLR":
		return c.encodeBitOp(l, addr, 0x0880, 0x0180)
	case "BSET":
		return c.encodeBitOp(l, addr, 0x08C0, 0x01C0)
	default:
		if cond, ok := core.LookupCond(l.Mnemonic); ok {
			return c.encodeBranch(l, addr, cond)
		}
		return []string{fmt.Sprintf("unsupported mnemonic %q", l.Mnemonic)}
	}
}

// resolveValue reduces an operand that carries either a literal or an
// unresolved label to a 32-bit value. An undefined label encodes as zero
// and produces a diagnostic.
func (c *encCtx) resolveValue(op operand.Operand) (uint32, []string) {
	if op.Label == "" {
		return op.Value, nil
	}
	addr, ok := c.sym.Lookup(op.Label)
	if !ok {
		return 0, []string{fmt.Sprintf("undefined symbol '%s'", op.Label)}
	}
	return addr, nil
}

// emitGeneralOperand writes op's extension word(s), if any, at extAddr and
// returns the EA field for op plus the diagnostics produced while resolving
// it. It is used for MOVE's source and destination operands, the only
// families in this subset that take a fully general effective address.
func (c *encCtx) emitGeneralOperand(op operand.Operand, size core.Size, extAddr uint32) (uint16, []string) {
	switch op.Mode {
	case operand.DataRegDirect:
		return core.EncodeEAField(core.ModeDataReg, op.Reg), nil
	case operand.AddrRegDirect:
		return core.EncodeEAField(core.ModeAddrReg, op.Reg), nil
	case operand.AddrRegIndirect:
		return core.EncodeEAField(core.ModeAddrInd, op.Reg), nil
	case operand.PostIncrement:
		return core.EncodeEAField(core.ModePostInc, op.Reg), nil
	case operand.PreDecrement:
		return core.EncodeEAField(core.ModePreDec, op.Reg), nil
	case operand.Displacement16:
		c.mem.WriteWord(extAddr, uint16(op.Disp))
		return core.EncodeEAField(core.ModeDisp16, op.Reg), nil
	case operand.AbsoluteShort:
		v, diags := c.resolveValue(op)
		c.mem.WriteWord(extAddr, uint16(v))
		return core.EncodeEAField(core.ModeOther, core.OtherAbsShort), diags
	case operand.AbsoluteLong:
		v, diags := c.resolveValue(op)
		c.mem.WriteLong(extAddr, v)
		return core.EncodeEAField(core.ModeOther, core.OtherAbsLong), diags
	case operand.Immediate:
		v, diags := c.resolveValue(op)
		v &= size.Mask()
		if size == core.Long {
			c.mem.WriteLong(extAddr, v)
		} else {
			c.mem.WriteWord(extAddr, uint16(v))
		}
		return core.EncodeEAField(core.ModeOther, core.OtherImmediate), diags
	case operand.PCRelative:
		if op.Label == "" {
			c.mem.WriteWord(extAddr, uint16(op.Disp))
			return core.EncodeEAField(core.ModeOther, core.OtherPCDisp), nil
		}
		target, diags := c.resolveValue(op)
		disp := int32(target) - int32(extAddr)
		c.mem.WriteWord(extAddr, uint16(int16(disp)))
		return core.EncodeEAField(core.ModeOther, core.OtherPCDisp), diags
	default:
		return 0, []string{"unsupported addressing mode"}
	}
}

func (c *encCtx) encodeMove(l Line, addr uint32) []string {
	if len(l.Operands) != 2 {
		return []string{fmt.Sprintf("%s requires two operands", l.Mnemonic)}
	}
	src, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	dst, err := operand.Parse(l.Operands[1])
	if err != nil {
		return []string{err.Error()}
	}

	if dst.Mode == operand.AddrRegDirect {
		return c.encodeMovea(l, src, dst, addr)
	}
	if l.Mnemonic == "MOVEA" {
		return []string{"MOVEA destination must be an address register"}
	}

	sizeBits, ok := core.MoveSizeBits(l.Size)
	if !ok {
		return []string{fmt.Sprintf("unsupported MOVE size %s", l.Size)}
	}

	srcExtAddr := addr + 2
	srcField, diags := c.emitGeneralOperand(src, l.Size, srcExtAddr)
	dstExtAddr := srcExtAddr + uint32(extraBytes(src, l.Size))
	dstField, dDiags := c.emitGeneralOperand(dst, l.Size, dstExtAddr)
	diags = append(diags, dDiags...)

	dstMode, dstReg := core.DecodeEAField(dstField)
	opcode := sizeBits<<12 | uint16(dstReg)<<9 | uint16(dstMode)<<6 | srcField
	c.mem.WriteWord(addr, opcode)
	return diags
}

// encodeMovea synthesizes the distinct MOVEA opcode (0x207C/0x307C) rather
// than reusing MOVE's destination-mode-001 encoding. The executor only
// implements the immediate-source form: the opcode word is always followed
// by the immediate extension, so any other source mode is rejected here
// rather than silently emitting bytes the executor would misread as one.
func (c *encCtx) encodeMovea(l Line, src, dst operand.Operand, addr uint32) []string {
	if l.Size == core.Byte {
		return []string{"MOVEA does not support byte size"}
	}
	if src.Mode != operand.Immediate {
		return []string{fmt.Sprintf("%s source must be an immediate value", l.Mnemonic)}
	}
	base := uint16(0x307C)
	if l.Size == core.Long {
		base = 0x207C
	}
	opcode := base | uint16(dst.Reg)<<9
	c.mem.WriteWord(addr, opcode)

	extAddr := addr + 2
	_, diags := c.emitGeneralOperand(src, l.Size, extAddr)
	return diags
}

func (c *encCtx) encodeQuick(l Line, addr uint32, base uint16) []string {
	if len(l.Operands) != 2 {
		return []string{fmt.Sprintf("%s requires two operands", l.Mnemonic)}
	}
	src, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	dst, err := operand.Parse(l.Operands[1])
	if err != nil {
		return []string{err.Error()}
	}
	if src.Mode != operand.Immediate || src.Label != "" {
		return []string{fmt.Sprintf("%s source must be an immediate 1..8", l.Mnemonic)}
	}
	if dst.Mode != operand.DataRegDirect {
		return []string{fmt.Sprintf("%s destination must be a data register", l.Mnemonic)}
	}
	if src.Value < 1 || src.Value > 8 {
		return []string{fmt.Sprintf("%s immediate out of range 1..8: %d", l.Mnemonic, src.Value)}
	}
	sizeBits, ok := core.CommonSizeBits(l.Size)
	if !ok {
		return []string{fmt.Sprintf("unsupported %s size %s", l.Mnemonic, l.Size)}
	}
	data := src.Value % 8
	opcode := base | uint16(data)<<9 | sizeBits<<6 | uint16(dst.Reg)
	c.mem.WriteWord(addr, opcode)
	return nil
}

func (c *encCtx) encodeImmOp(l Line, addr uint32, base uint16) []string {
	if len(l.Operands) != 2 {
		return []string{fmt.Sprintf("%s requires two operands", l.Mnemonic)}
	}
	src, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	dst, err := operand.Parse(l.Operands[1])
	if err != nil {
		return []string{err.Error()}
	}
	if src.Mode != operand.Immediate {
		return []string{fmt.Sprintf("%s source must be immediate", l.Mnemonic)}
	}
	if dst.Mode != operand.DataRegDirect {
		return []string{fmt.Sprintf("%s destination must be a data register", l.Mnemonic)}
	}
	sizeBits, ok := core.CommonSizeBits(l.Size)
	if !ok {
		return []string{fmt.Sprintf("unsupported %s size %s", l.Mnemonic, l.Size)}
	}
	opcode := base | sizeBits<<6 | uint16(dst.Reg)
	c.mem.WriteWord(addr, opcode)

	v, diags := c.resolveValue(src)
	v &= l.Size.Mask()
	if l.Size == core.Long {
		c.mem.WriteLong(addr+2, v)
	} else {
		c.mem.WriteWord(addr+2, uint16(v))
	}
	return diags
}

func (c *encCtx) encodeRegOp(l Line, addr uint32, base uint16) []string {
	if len(l.Operands) != 2 {
		return []string{fmt.Sprintf("%s requires two operands", l.Mnemonic)}
	}
	src, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	dst, err := operand.Parse(l.Operands[1])
	if err != nil {
		return []string{err.Error()}
	}
	if src.Mode != operand.DataRegDirect || dst.Mode != operand.DataRegDirect {
		return []string{fmt.Sprintf("%s requires two data registers", l.Mnemonic)}
	}
	sizeBits, ok := core.CommonSizeBits(l.Size)
	if !ok {
		return []string{fmt.Sprintf("unsupported %s size %s", l.Mnemonic, l.Size)}
	}
	opcode := base | uint16(dst.Reg)<<9 | sizeBits<<6 | uint16(src.Reg)
	c.mem.WriteWord(addr, opcode)
	return nil
}

func (c *encCtx) encodeBitOp(l Line, addr uint32, immBase, regBase uint16) []string {
	if len(l.Operands) != 2 {
		return []string{fmt.Sprintf("%s requires two operands", l.Mnemonic)}
	}
	src, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	dst, err := operand.Parse(l.Operands[1])
	if err != nil {
		return []string{err.Error()}
	}
	if dst.Mode != operand.DataRegDirect {
		return []string{fmt.Sprintf("%s destination must be a data register", l.Mnemonic)}
	}
	if src.Mode == operand.Immediate {
		opcode := immBase | uint16(dst.Reg)
		c.mem.WriteWord(addr, opcode)
		v, diags := c.resolveValue(src)
		c.mem.WriteWord(addr+2, uint16(v))
		return diags
	}
	if src.Mode != operand.DataRegDirect {
		return []string{fmt.Sprintf("%s source must be a data register or immediate", l.Mnemonic)}
	}
	opcode := regBase | uint16(src.Reg)<<9 | uint16(dst.Reg)
	c.mem.WriteWord(addr, opcode)
	return nil
}

func (c *encCtx) encodeBranch(l Line, addr uint32, cond core.Cond) []string {
	if len(l.Operands) != 1 {
		return []string{fmt.Sprintf("%s requires one operand", l.Mnemonic)}
	}
	target, err := operand.Parse(l.Operands[0])
	if err != nil {
		return []string{err.Error()}
	}
	v, diags := c.resolveValue(target)
	disp := int32(v) - int32(addr+2)
	if disp < -128 || disp > 127 {
		diags = append(diags, fmt.Sprintf("branch target out of range: %d", disp))
		disp = 0
	}
	opcode := 0x6000 | uint16(cond)<<8 | uint16(uint8(int8(disp)))
	c.mem.WriteWord(addr, opcode)
	return diags
}

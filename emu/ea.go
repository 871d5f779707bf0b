package emu

import (
	"github.com/sarchlab/m68ksim/core"
	"github.com/sarchlab/m68ksim/mem"
)

// EAEngine resolves, reads, and writes effective addresses the same way
// the assembler's encoder packs them (core.EncodeEAField / DecodeEAField),
// so the executor's decode side cannot drift from the encoder's.
type EAEngine struct {
	regs *RegFile
	mem  *mem.Memory
}

// NewEAEngine constructs an EAEngine bound to regs and m.
func NewEAEngine(regs *RegFile, m *mem.Memory) *EAEngine {
	return &EAEngine{regs: regs, mem: m}
}

// resolveAddress computes the memory address an indirect EA refers to,
// consuming any extension words from PC and applying post-increment or
// pre-decrement side effects exactly once. Byte-sized (An)+/-(An) on A7
// always move by 2 to preserve stack alignment.
func (e *EAEngine) resolveAddress(mode, reg uint8, size core.Size) uint32 {
	step := size.Bytes()
	if reg == 7 && step == 1 {
		step = 2
	}

	switch mode {
	case core.ModeAddrInd:
		return e.regs.A[reg]
	case core.ModePostInc:
		addr := e.regs.A[reg]
		e.regs.A[reg] += step
		return addr
	case core.ModePreDec:
		e.regs.A[reg] -= step
		return e.regs.A[reg]
	case core.ModeDisp16:
		disp := int16(e.mem.ReadWord(e.regs.PC))
		e.regs.PC += 2
		return e.regs.A[reg] + uint32(disp)
	case core.ModeOther:
		switch reg {
		case core.OtherAbsShort:
			v := e.mem.ReadWord(e.regs.PC)
			e.regs.PC += 2
			return uint32(int32(int16(v)))
		case core.OtherAbsLong:
			v := e.mem.ReadLong(e.regs.PC)
			e.regs.PC += 4
			return v
		case core.OtherPCDisp:
			extAddr := e.regs.PC
			disp := int16(e.mem.ReadWord(e.regs.PC))
			e.regs.PC += 2
			return uint32(int32(extAddr) + int32(disp))
		}
	}
	return 0
}

func (e *EAEngine) readMem(addr uint32, size core.Size) uint32 {
	switch size {
	case core.Byte:
		return uint32(e.mem.ReadByte(addr))
	case core.Word:
		return uint32(e.mem.ReadWord(addr))
	default:
		return e.mem.ReadLong(addr)
	}
}

func (e *EAEngine) writeMem(addr uint32, v uint32, size core.Size) {
	switch size {
	case core.Byte:
		e.mem.WriteByte(addr, byte(v))
	case core.Word:
		e.mem.WriteWord(addr, uint16(v))
	default:
		e.mem.WriteLong(addr, v)
	}
}

// Read returns the value an effective address names, advancing PC past
// any extension words the addressing mode consumes.
func (e *EAEngine) Read(mode, reg uint8, size core.Size) uint32 {
	switch mode {
	case core.ModeDataReg:
		return e.regs.D[reg] & size.Mask()
	case core.ModeAddrReg:
		return e.regs.A[reg] & size.Mask()
	case core.ModeOther:
		if reg == core.OtherImmediate {
			if size == core.Long {
				v := e.mem.ReadLong(e.regs.PC)
				e.regs.PC += 4
				return v
			}
			v := uint32(e.mem.ReadWord(e.regs.PC))
			e.regs.PC += 2
			return v & size.Mask()
		}
	}
	addr := e.resolveAddress(mode, reg, size)
	return e.readMem(addr, size)
}

// Write stores value into the effective address. Dn writes mask into the
// low byte/word, leaving the register's higher bits untouched; An writes
// always produce a full 32-bit result, sign-extending from a 16-bit
// source for word-sized writes.
func (e *EAEngine) Write(mode, reg uint8, size core.Size, value uint32) {
	switch mode {
	case core.ModeDataReg:
		e.regs.D[reg] = (e.regs.D[reg] &^ size.Mask()) | (value & size.Mask())
		return
	case core.ModeAddrReg:
		if size == core.Word {
			e.regs.A[reg] = uint32(int32(int16(value)))
		} else {
			e.regs.A[reg] = value
		}
		return
	}
	addr := e.resolveAddress(mode, reg, size)
	e.writeMem(addr, value, size)
}

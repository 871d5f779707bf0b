package emu

import "github.com/sarchlab/m68ksim/core"

// opEntry is one opcode-pattern table row: a decoded opcode matches iff
// (opcode & mask) == value. Entries are scanned in order, most specific
// first, so overlapping encodings resolve unambiguously (e.g. MOVEA's
// 0x207C/0x307C patterns, which the broad MOVE.L/MOVE.W entries would also
// match, are listed ahead of them).
type opEntry struct {
	mask, value uint16
	handler     func(e *Emulator, opcode uint16)
}

// commonSize reverses core.CommonSizeBits: bits 7-6 of a non-MOVE opcode.
func commonSize(opcode uint16) (core.Size, bool) {
	switch (opcode >> 6) & 0x3 {
	case 0x0:
		return core.Byte, true
	case 0x1:
		return core.Word, true
	case 0x2:
		return core.Long, true
	default:
		return 0, false
	}
}

func opNOP(e *Emulator, opcode uint16) {}

func opMovea(size core.Size) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		dstReg := uint8((opcode >> 9) & 0x7)
		var v uint32
		if size == core.Long {
			v = e.memory.ReadLong(e.regs.PC)
			e.regs.PC += 4
		} else {
			v = uint32(e.memory.ReadWord(e.regs.PC))
			e.regs.PC += 2
		}
		e.ea.Write(core.ModeAddrReg, dstReg, size, v)
	}
}

func opMove(size core.Size) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		srcMode, srcReg := core.DecodeEAField(opcode & 0x3F)
		dstReg := uint8((opcode >> 9) & 0x7)
		dstMode := uint8((opcode >> 6) & 0x7)

		v := e.ea.Read(srcMode, srcReg, size)
		e.ea.Write(dstMode, dstReg, size, v)
		e.alu.SetMoveFlags(v, size)
	}
}

func opQuick(sub bool) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		size, ok := commonSize(opcode)
		if !ok {
			return
		}
		data := uint32((opcode >> 9) & 0x7)
		if data == 0 {
			data = 8
		}
		dstReg := uint8(opcode & 0x7)

		dst := e.ea.Read(core.ModeDataReg, dstReg, size)
		var result uint32
		if sub {
			result = dst - data
		} else {
			result = dst + data
		}
		e.ea.Write(core.ModeDataReg, dstReg, size, result)
		if sub {
			e.alu.SetSubFlags(data, dst, result, size)
		} else {
			e.alu.SetAddFlags(data, dst, result, size)
		}
	}
}

type immOp int

const (
	immAdd immOp = iota
	immSub
	immAnd
)

func opImmediate(op immOp) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		size, ok := commonSize(opcode)
		if !ok {
			return
		}
		dstReg := uint8(opcode & 0x7)

		imm := e.ea.Read(core.ModeOther, core.OtherImmediate, size)
		dst := e.ea.Read(core.ModeDataReg, dstReg, size)

		var result uint32
		switch op {
		case immAdd:
			result = dst + imm
		case immSub:
			result = dst - imm
		case immAnd:
			result = dst & imm
		}
		e.ea.Write(core.ModeDataReg, dstReg, size, result)

		switch op {
		case immAdd:
			e.alu.SetAddFlags(imm, dst, result, size)
		case immSub:
			e.alu.SetSubFlags(imm, dst, result, size)
		case immAnd:
			e.alu.SetLogicFlags(result, size)
		}
	}
}

func opRegArith(sub bool) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		size, ok := commonSize(opcode)
		if !ok {
			return
		}
		srcReg := uint8(opcode & 0x7)
		dstReg := uint8((opcode >> 9) & 0x7)

		src := e.ea.Read(core.ModeDataReg, srcReg, size)
		dst := e.ea.Read(core.ModeDataReg, dstReg, size)
		var result uint32
		if sub {
			result = dst - src
		} else {
			result = dst + src
		}
		e.ea.Write(core.ModeDataReg, dstReg, size, result)
		if sub {
			e.alu.SetSubFlags(src, dst, result, size)
		} else {
			e.alu.SetAddFlags(src, dst, result, size)
		}
	}
}

type bitOp int

const (
	bitTest bitOp = iota
	bitChange
	bitClear
	bitSet
)

func applyBitOp(e *Emulator, dstReg uint8, bitNum uint32, op bitOp) {
	bitNum &= 0x1F
	mask := uint32(1) << bitNum
	v := e.regs.D[dstReg]
	wasSet := v&mask != 0
	e.alu.SetBitTestFlag(wasSet)

	switch op {
	case bitChange:
		e.regs.D[dstReg] = v ^ mask
	case bitClear:
		e.regs.D[dstReg] = v &^ mask
	case bitSet:
		e.regs.D[dstReg] = v | mask
	}
}

func opBitImm(op bitOp) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		dstReg := uint8(opcode & 0x7)
		bitNum := uint32(e.memory.ReadWord(e.regs.PC))
		e.regs.PC += 2
		applyBitOp(e, dstReg, bitNum, op)
	}
}

func opBitReg(op bitOp) func(*Emulator, uint16) {
	return func(e *Emulator, opcode uint16) {
		dstReg := uint8(opcode & 0x7)
		srcReg := uint8((opcode >> 9) & 0x7)
		bitNum := e.regs.D[srcReg]
		applyBitOp(e, dstReg, bitNum, op)
	}
}

func opBcc(e *Emulator, opcode uint16) {
	cond := core.Cond((opcode >> 8) & 0xF)
	disp := int8(opcode & 0xFF)
	e.branch.Bcc(cond, disp)
}

// buildOpcodeTable returns the ordered opcode-pattern table. RTS is
// handled separately by the main loop (it has no operation beyond
// halting), so it is not listed here.
func buildOpcodeTable() []opEntry {
	return []opEntry{
		{0xFFFF, 0x4E71, opNOP},

		{0xF1FF, 0x207C, opMovea(core.Long)},
		{0xF1FF, 0x307C, opMovea(core.Word)},

		{0xF138, 0x5000, opQuick(false)},
		{0xF138, 0x5100, opQuick(true)},
		{0xF138, 0xD000, opRegArith(false)},
		{0xF138, 0x9000, opRegArith(true)},

		{0xFF38, 0x0600, opImmediate(immAdd)},
		{0xFF38, 0x0400, opImmediate(immSub)},
		{0xFF38, 0x0200, opImmediate(immAnd)},

		{0xFFF8, 0x0800, opBitImm(bitTest)},
		{0xFFF8, 0x0840, opBitImm(bitChange)},
		{0xFFF8, 0x0880, opBitImm(bitClear)},
		{0xFFF8, 0x08C0, opBitImm(bitSet)},
		{0xF1F8, 0x0100, opBitReg(bitTest)},
		{0xF1F8, 0x0140, opBitReg(bitChange)},
		{0xF1F8, 0x0180, opBitReg(bitClear)},
		{0xF1F8, 0x01C0, opBitReg(bitSet)},

		{0xF000, 0x6000, opBcc},

		{0xF000, 0x1000, opMove(core.Byte)},
		{0xF000, 0x2000, opMove(core.Long)},
		{0xF000, 0x3000, opMove(core.Word)},
	}
}

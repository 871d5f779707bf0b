package asm

import (
	"fmt"

	"github.com/sarchlab/m68ksim/core"
	"github.com/sarchlab/m68ksim/operand"
)

// extraBytes returns how many extension bytes an operand contributes to an
// instruction's encoded length, beyond the base opcode word. Shared between
// the sizer and the encoder so the two cannot disagree.
func extraBytes(op operand.Operand, size core.Size) int {
	switch op.Mode {
	case operand.DataRegDirect, operand.AddrRegDirect, operand.AddrRegIndirect,
		operand.PostIncrement, operand.PreDecrement:
		return 0
	case operand.Displacement16, operand.PCRelative:
		return 2
	case operand.AbsoluteShort:
		return 2
	case operand.AbsoluteLong:
		return 4
	case operand.Immediate:
		if size == core.Long {
			return 4
		}
		return 2
	default:
		return 0
	}
}

// Size returns the byte length of the encoded instruction for a parsed
// line. Pass 1 uses this to assign label addresses; pass 2's encoder must
// emit exactly this many bytes.
func Size(l Line) (int, error) {
	switch l.Mnemonic {
	case "NOP", "RTS":
		return 2, nil

	case "ADDQ", "SUBQ":
		return 2, nil

	case "ADD", "SUB":
		return 2, nil

	case "ADDI", "SUBI", "ANDI":
		if len(l.Operands) != 2 {
			return 0, fmt.Errorf("%s requires two operands", l.Mnemonic)
		}
		src, err := operand.Parse(l.Operands[0])
		if err != nil {
			return 0, err
		}
		return 2 + extraBytes(src, l.Size), nil

	case "BTST", "BCHG", "BCLR", "BSET":
		if len(l.Operands) != 2 {
			return 0, fmt.Errorf("%s requires two operands", l.Mnemonic)
		}
		src, err := operand.Parse(l.Operands[0])
		if err != nil {
			return 0, err
		}
		if src.Mode == operand.Immediate {
			return 4, nil
		}
		return 2, nil

	case "MOVE", "MOVEA":
		if len(l.Operands) != 2 {
			return 0, fmt.Errorf("%s requires two operands", l.Mnemonic)
		}
		src, err := operand.Parse(l.Operands[0])
		if err != nil {
			return 0, err
		}
		dst, err := operand.Parse(l.Operands[1])
		if err != nil {
			return 0, err
		}
		return 2 + extraBytes(src, l.Size) + extraBytes(dst, l.Size), nil

	default:
		if _, ok := core.LookupCond(l.Mnemonic); ok {
			return 2, nil
		}
		return 0, fmt.Errorf("unsupported mnemonic %q", l.Mnemonic)
	}
}

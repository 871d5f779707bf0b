package core

// EA mode field values (bits 5-3 of the six-bit effective-address field).
const (
	ModeDataReg  uint8 = 0 // Dn
	ModeAddrReg  uint8 = 1 // An
	ModeAddrInd  uint8 = 2 // (An)
	ModePostInc  uint8 = 3 // (An)+
	ModePreDec   uint8 = 4 // -(An)
	ModeDisp16   uint8 = 5 // d16(An)
	ModeIndex8   uint8 = 6 // d8(An,Xn) - not supported by this subset
	ModeOther    uint8 = 7 // sub-selected by the register field below
)

// Register-field sub-modes used when Mode == ModeOther.
const (
	OtherAbsShort  uint8 = 0 // (xxx).W
	OtherAbsLong   uint8 = 1 // (xxx).L
	OtherPCDisp    uint8 = 2 // d16(PC)
	OtherPCIndex   uint8 = 3 // d8(PC,Xn) - not supported by this subset
	OtherImmediate uint8 = 4 // #<data>
)

// EncodeEAField packs a mode/register pair into the standard six-bit field.
func EncodeEAField(mode, reg uint8) uint16 {
	return uint16(mode&0x7)<<3 | uint16(reg&0x7)
}

// DecodeEAField splits the standard six-bit field back into mode and register.
func DecodeEAField(field uint16) (mode, reg uint8) {
	return uint8((field >> 3) & 0x7), uint8(field & 0x7)
}

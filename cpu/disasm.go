package cpu

import "fmt"

// regNames matches the register index layout in package mem: R0..R9, OUT,
// IN, JSR, PCL, PCM, PCH.
var regNames = [16]string{
	"R0", "R1", "R2", "R3", "R4",
	"R5", "R6", "R7", "R8", "R9",
	"OUT", "IN", "JSR", "PCL", "PCM", "PCH",
}

var conditionNames = [4]string{"C", "NC", "Z", "NZ"}

// operandText renders one operand of a decoded instruction the way
// original_source/ops.c's get_info_* family does: named register, indirect
// pair, pointer, or literal, depending on the operand's mode.
func operandText(mode Mode, n Nibbles) string {
	switch mode {
	case ModeRegX:
		return regNames[n.N2]
	case ModeRegY:
		return regNames[n.N3]
	case ModeR0, ModePCMByte:
		if mode == ModePCMByte {
			return "PC"
		}
		return "R0"
	case ModeLitNN:
		return fmt.Sprintf("[%#02x]", (n.N2<<4)|n.N3)
	case ModeIndirectXY:
		return fmt.Sprintf("[%s:%s]", regNames[n.N2], regNames[n.N3])
	case ModeLitN3:
		return fmt.Sprintf("%#x", n.N3)
	case ModeImm8:
		return fmt.Sprintf("%#02x", imm8(n))
	case ModeBitM:
		return fmt.Sprintf("%#x", n.N3&0x3)
	case ModeCond:
		return conditionNames[n.N3>>2]
	case ModeRGIn, ModeRGOut:
		rg := n.N3 >> 2
		if rg < 3 {
			return regNames[rg]
		}
		return "RS"
	default:
		return ""
	}
}

// Disassemble renders a decoded instruction as "MNEMONIC dst,cnd,src",
// omitting any operand the descriptor leaves unused.
func Disassemble(desc Descriptor, n Nibbles) string {
	out := desc.Mnemonic
	sep := " "
	appendOperand := func(mode Mode) {
		if mode == ModeNone {
			return
		}
		out += sep + operandText(mode, n)
		sep = ","
	}
	appendOperand(desc.DstMode)
	appendOperand(desc.CndMode)
	appendOperand(desc.SrcMode)
	return out
}

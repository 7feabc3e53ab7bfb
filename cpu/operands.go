package cpu

import "nibbler/mem"

// resolveAddr returns the flat address an address-bearing operand mode
// refers to. It never applies an SFR or jump trap; callers decide whether a
// trap applies based on the Descriptor's flags.
func (vm *VM) resolveAddr(mode Mode, n Nibbles) byte {
	switch mode {
	case ModeRegX:
		return n.N2
	case ModeRegY:
		return n.N3
	case ModeLitNN:
		return (n.N2 << 4) | n.N3
	case ModeIndirectXY:
		x := vm.Mem.Reg(n.N2)
		y := vm.Mem.Reg(n.N3)
		return (x << 4) | y
	case ModeR0:
		return mem.R0
	case ModePCMByte:
		return mem.RegPCM
	case ModeRGIn:
		return vm.resolveRG(n.N3, false)
	case ModeRGOut:
		return vm.resolveRG(n.N3, true)
	default:
		return 0
	}
}

// resolveRG implements the RG operand group (spec.md §4.3): the top two
// bits of n3 select R0, R1, R2, or (selector 3) the IN/OUT pair, with the
// alternate InB/OutB pair substituted when WrFlags.InOutPos is set.
func (vm *VM) resolveRG(n3 byte, out bool) byte {
	switch n3 >> 2 {
	case 0:
		return mem.R0
	case 1:
		return mem.R1
	case 2:
		return mem.R2
	default:
		altBank := vm.Mem.SFR(mem.SFRWrFlags)&mem.WrFlagInOutPos != 0
		if out {
			if altBank {
				return mem.SFRPageStart + mem.SFROutB
			}
			return mem.RegOut
		}
		if altBank {
			return mem.SFRPageStart + mem.SFRInB
		}
		return mem.RegIn
	}
}

// srcValue resolves a source operand to its 4-bit value, per spec.md §4.1's
// operand table. Address-bearing modes are read through the SFR trap only
// when canRdSFR is set (MOV R0,[NN], the only form flagged CAN_RD_SFR).
func (vm *VM) srcValue(mode Mode, n Nibbles, canRdSFR bool) byte {
	switch mode {
	case ModeLitN3:
		return n.N3 & 0xf
	case ModeBitM:
		return n.N3 & 0x3
	case ModeCond:
		return n.N3 >> 2
	case ModeImm8:
		return imm8(n)
	case ModeNone:
		return 0
	default:
		addr := vm.resolveAddr(mode, n)
		if canRdSFR && mem.IsSFRAddress(addr) {
			return vm.readSFR(addr)
		}
		return vm.Mem.Raw(addr)
	}
}

// imm8 resolves a whole-byte literal operand (n2<<4)|n3, used by MOV PC,NN
// and JR rather than the nibble-sized srcValue path.
func imm8(n Nibbles) byte { return (n.N2 << 4) | n.N3 }

// writeDst writes a resolved value to a descriptor's destination operand,
// routing through the SFR write trap and the PC-write jump trap as the
// descriptor's flags dictate.
func (vm *VM) writeDst(mode Mode, n Nibbles, v byte, desc Descriptor) {
	addr := vm.resolveAddr(mode, n)
	if desc.Flags.has(FlagCanWrSFR) && mem.IsSFRAddress(addr) {
		vm.writeSFR(addr, v)
	} else {
		vm.Mem.SetRaw(addr, v)
	}
	if desc.Flags.has(FlagCanJump) {
		vm.maybeJumpTrap(addr)
	}
}

// writeDstByte implements the DST_BYTE form (MOV PC,NN): the resolved
// address takes the low nibble of v, address+1 takes the high nibble.
func (vm *VM) writeDstByte(mode Mode, n Nibbles, v byte, desc Descriptor) {
	addr := vm.resolveAddr(mode, n)
	vm.Mem.SetRaw(addr, v&0xf)
	vm.Mem.SetRaw(addr+1, (v>>4)&0xf)
	if desc.Flags.has(FlagCanJump) {
		vm.maybeJumpTrap(addr)
	}
}

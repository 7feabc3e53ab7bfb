package cpu

import (
	"nibbler/mask"
	"nibbler/mem"
)

// execMOV implements every MOV addressing form, including the two forms
// that route entirely through the SFR trap (MOV R0,[NN] / MOV [NN],R0) and
// the DST_BYTE form (MOV PC,NN). Mirrors original_source/ops.c's op_mov.
func (vm *VM) execMOV(desc Descriptor, n Nibbles) {
	if desc.Flags.has(FlagCanRdSFR) {
		addr := vm.resolveAddr(desc.SrcMode, n)
		var v byte
		if mem.IsSFRAddress(addr) {
			v = vm.readSFR(addr)
		} else {
			v = vm.Mem.Raw(addr)
		}
		vm.writeDst(desc.DstMode, n, v, desc)
		return
	}
	if desc.Flags.has(FlagCanWrSFR) {
		addr := vm.resolveAddr(desc.DstMode, n)
		v := vm.srcValue(desc.SrcMode, n, false)
		if mem.IsSFRAddress(addr) {
			vm.writeSFR(addr, v)
		} else {
			vm.Mem.SetRaw(addr, v)
		}
		return
	}

	src := vm.srcValue(desc.SrcMode, n, false)
	if desc.Flags.has(FlagDstByte) {
		vm.writeDstByte(desc.DstMode, n, src, desc)
		return
	}
	vm.writeDst(desc.DstMode, n, src, desc)
}

// execJR adds a signed byte offset to PC.
func (vm *VM) execJR(desc Descriptor, n Nibbles) {
	offset := mask.SignExtend8(imm8(n))
	vm.advancePC(offset)
}

// execRET pops the call stack into PC and stores a literal return value
// into R0. A stack already at depth 0 is a fatal underflow.
func (vm *VM) execRET(desc Descriptor, n Nibbles) {
	if vm.SP == 0 {
		vm.fail("RET", "stack underflow")
		return
	}
	r0 := vm.srcValue(desc.SrcMode, n, false)
	vm.writeDst(desc.DstMode, n, r0, desc)

	vm.SP--
	frame := mem.StackFrame(vm.SP)
	low := vm.Mem.Raw(frame)
	mid := vm.Mem.Raw(frame + 1)
	high := vm.Mem.Raw(frame + 2)
	vm.PC = uint16(high)<<8 | uint16(mid)<<4 | uint16(low)
}

// execSKIP advances PC by m (0 meaning 4) additional words when the
// selected condition holds.
func (vm *VM) execSKIP(desc Descriptor, n Nibbles) {
	cond := vm.srcValue(desc.CndMode, n, false)
	m := int(vm.srcValue(desc.SrcMode, n, false))
	if m == 0 {
		m = 4
	}

	var hit bool
	switch cond {
	case 0:
		hit = vm.Flags.Carry
	case 1:
		hit = !vm.Flags.Carry
	case 2:
		hit = vm.Flags.Zero
	case 3:
		hit = !vm.Flags.Zero
	}
	if hit {
		vm.advancePC(m)
	}
}

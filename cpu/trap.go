package cpu

import (
	"nibbler/mem"
	"nibbler/rng"
)

// readSFR applies the read side-effects of spec.md §4.5: RdFlags clears its
// UserSync bit, KeyStatus clears its JustPress bit, and Random returns the
// currently latched nibble before advancing the generator for the next
// read. All other SFRs read as plain storage.
func (vm *VM) readSFR(addr byte) byte {
	offset := addr - mem.SFRPageStart
	v := vm.Mem.SFR(offset)
	switch offset {
	case mem.SFRRdFlags:
		vm.Mem.SetSFR(offset, v&^mem.RdFlagUserSync)
	case mem.SFRKeyStatus:
		vm.Mem.SetSFR(offset, v&^mem.KeyJustPress)
	case mem.SFRRandom:
		vm.Mem.SetSFR(offset, rng.Nibble(vm.RNG.Next()))
	}
	return v
}

// writeSFR applies the write side-effects of spec.md §4.5: writing Random
// re-seeds the generator from the written nibble (or draws OS entropy for
// the 0xf sentinel) and stores the re-derived nibble of that seed, with no
// extra LCG step. Every other SFR write behaves like a plain memory write.
func (vm *VM) writeSFR(addr byte, v byte) {
	offset := addr - mem.SFRPageStart
	if offset != mem.SFRRandom {
		vm.Mem.SetSFR(offset, v)
		return
	}
	if err := vm.RNG.SeedFromNibble(v); err != nil {
		vm.Err = err
		vm.Halted = true
		return
	}
	vm.Mem.SetSFR(offset, rng.Nibble(vm.RNG.Peek()))
}

// setOverflow updates both the Overflow status flag and the SFR RdFlags
// VFlag bit, which mirrors Overflow continuously rather than latching on a
// read (unlike UserSync, which is a one-shot sticky bit).
func (vm *VM) setOverflow(v bool) {
	vm.Flags.Overflow = v
	cur := vm.Mem.SFR(mem.SFRRdFlags)
	if v {
		vm.Mem.SetSFR(mem.SFRRdFlags, cur|mem.RdFlagVFlag)
	} else {
		vm.Mem.SetSFR(mem.SFRRdFlags, cur&^mem.RdFlagVFlag)
	}
}

// maybeJumpTrap implements the PC-write trap of spec.md §4.4: a write whose
// destination is the JSR register pushes the return address and jumps;
// a write to PCL jumps without pushing. Both assemble the new PC from
// PCH:PCM and the just-written low byte.
func (vm *VM) maybeJumpTrap(addr byte) {
	switch addr {
	case mem.RegJSR:
		if vm.SP >= mem.StackFrames {
			vm.fail("JSR", "stack overflow")
			return
		}
		frame := mem.StackFrame(vm.SP)
		vm.Mem.SetRaw(frame, byte(vm.PC&0xf))
		vm.Mem.SetRaw(frame+1, byte((vm.PC>>4)&0xf))
		vm.Mem.SetRaw(frame+2, byte((vm.PC>>8)&0xf))
		vm.SP++
		vm.PC = vm.assemblePC(vm.Mem.Reg(mem.RegJSR))
	case mem.RegPCL:
		vm.PC = vm.assemblePC(vm.Mem.Reg(mem.RegPCL))
	}
}

// assemblePC combines the PCH/PCM registers with an explicit low nibble
// into a 12-bit address.
func (vm *VM) assemblePC(low byte) uint16 {
	pch := vm.Mem.Reg(mem.RegPCH)
	pcm := vm.Mem.Reg(mem.RegPCM)
	return uint16(pch)<<8 | uint16(pcm)<<4 | uint16(low&0xf)
}

// fail records a fatal error and stops the cycle engine, mirroring the
// fatal stack-overflow/underflow behavior original_source/ops.c implements
// by calling exit(1).
func (vm *VM) fail(op, msg string) {
	vm.Err = fatalf(op, msg)
	vm.Halted = true
}

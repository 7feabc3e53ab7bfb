package cpu

import "nibbler/mask"

// addWithCarry computes dst+src+carryIn over nibble operands, returning the
// stored nibble result and the Carry/Zero/Overflow flags, mirroring
// original_source/ops.c's op_add/op_adc (the carry/zero tests run on the
// unmasked sum, the stored result is masked to 4 bits).
func addWithCarry(dst, src, carryIn byte) (result byte, carry, zero, overflow bool) {
	sum := dst + src + carryIn
	carry = sum&0x10 != 0
	zero = sum&0xf == 0
	sresult := int(mask.SignExtend4(dst)) + int(mask.SignExtend4(src)) + int(carryIn)
	overflow = sresult < -8 || sresult > 7
	return sum & 0xf, carry, zero, overflow
}

// subWithBorrow computes dst-src-borrowIn over nibble operands. Carry here
// means "no borrow" (set when the unmasked result's bit 4 is clear),
// mirroring update_borrow_flag.
func subWithBorrow(dst, src, borrowIn byte) (result byte, carry, zero, overflow bool) {
	diff := dst - src - borrowIn
	carry = diff&0x10 == 0
	zero = diff&0xf == 0
	sresult := int(mask.SignExtend4(dst)) - int(mask.SignExtend4(src)) - int(borrowIn)
	overflow = sresult < -8 || sresult > 7
	return diff & 0xf, carry, zero, overflow
}

func btoi(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) execADD(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	src := vm.srcValue(desc.SrcMode, n, false)
	result, carry, zero, overflow := addWithCarry(dst, src, 0)
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
	vm.setOverflow(overflow)
}

func (vm *VM) execADC(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	src := vm.srcValue(desc.SrcMode, n, false)
	result, carry, zero, overflow := addWithCarry(dst, src, btoi(vm.Flags.Carry))
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
	vm.setOverflow(overflow)
}

func (vm *VM) execSUB(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	src := vm.srcValue(desc.SrcMode, n, false)
	result, carry, zero, overflow := subWithBorrow(dst, src, 0)
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
	vm.setOverflow(overflow)
}

func (vm *VM) execSBB(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	src := vm.srcValue(desc.SrcMode, n, false)
	result, carry, zero, overflow := subWithBorrow(dst, src, 1-btoi(vm.Flags.Carry))
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
	vm.setOverflow(overflow)
}

func (vm *VM) execCP(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	src := vm.srcValue(desc.SrcMode, n, false)
	_, carry, zero, overflow := subWithBorrow(dst, src, 0)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
	vm.setOverflow(overflow)
}

func (vm *VM) execINC(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	result, carry, zero, _ := addWithCarry(dst, 1, 0)
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
}

func (vm *VM) execDEC(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	dst := vm.Mem.Raw(addr)
	result, carry, zero, _ := subWithBorrow(dst, 1, 0)
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Carry, vm.Flags.Zero = carry, zero
}

// execDSZ decrements the destination nibble and, if it lands on zero, skips
// the following instruction word. Flags are left untouched (spec.md §9's
// Open Question ruling).
func (vm *VM) execDSZ(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	result := (vm.Mem.Raw(addr) - 1) & 0xf
	vm.Mem.SetRaw(addr, result)
	if result == 0 {
		vm.advancePC(1)
	}
}

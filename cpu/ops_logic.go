package cpu

// execOR, execAND and execXOR implement bitwise OR/AND/XOR. When the
// UPDATE_CARRY flag is set (the literal-operand forms OR/AND/XOR R0,N),
// the Carry flag is forced set, cleared, or toggled respectively, matching
// original_source/ops.c's op_or/op_and/op_xor.
func (vm *VM) execOR(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	result := vm.Mem.Raw(addr) | vm.srcValue(desc.SrcMode, n, false)
	result &= 0xf
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Zero = result == 0
	if desc.Flags.has(FlagUpdateCarry) {
		vm.Flags.Carry = true
	}
}

func (vm *VM) execAND(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	result := vm.Mem.Raw(addr) & vm.srcValue(desc.SrcMode, n, false)
	result &= 0xf
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Zero = result == 0
	if desc.Flags.has(FlagUpdateCarry) {
		vm.Flags.Carry = false
	}
}

func (vm *VM) execXOR(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	result := vm.Mem.Raw(addr) ^ vm.srcValue(desc.SrcMode, n, false)
	result &= 0xf
	vm.writeDst(desc.DstMode, n, result, desc)
	vm.Flags.Zero = result == 0
	if desc.Flags.has(FlagUpdateCarry) {
		vm.Flags.Carry = !vm.Flags.Carry
	}
}

// execEXR swaps the first n (1..16, 0 meaning 16) nibbles of the main and
// alternate register pages.
func (vm *VM) execEXR(desc Descriptor, n Nibbles) {
	count := int(vm.srcValue(desc.SrcMode, n, false))
	if count == 0 {
		count = 16
	}
	vm.Mem.ExchangeRegisters(count)
}

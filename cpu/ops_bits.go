package cpu

// execBIT tests bit m of the destination nibble, setting Zero when the bit
// is clear. It never writes back.
func (vm *VM) execBIT(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	m := vm.srcValue(desc.SrcMode, n, false)
	result := vm.Mem.Raw(addr) & (1 << m)
	vm.Flags.Zero = result == 0
}

func (vm *VM) execBSET(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	m := vm.srcValue(desc.SrcMode, n, false)
	vm.Mem.SetRaw(addr, (vm.Mem.Raw(addr)|(1<<m))&0xf)
}

func (vm *VM) execBCLR(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	m := vm.srcValue(desc.SrcMode, n, false)
	vm.Mem.SetRaw(addr, vm.Mem.Raw(addr)&^(1<<m)&0xf)
}

func (vm *VM) execBTG(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	m := vm.srcValue(desc.SrcMode, n, false)
	vm.Mem.SetRaw(addr, (vm.Mem.Raw(addr)^(1<<m))&0xf)
}

// execRRC rotates the destination nibble right through the Carry flag: the
// old bit 0 becomes the new Carry, and the old Carry becomes the new bit 3.
func (vm *VM) execRRC(desc Descriptor, n Nibbles) {
	addr := vm.resolveAddr(desc.DstMode, n)
	v := vm.Mem.Raw(addr)
	oldCarry := vm.Flags.Carry
	vm.Flags.Carry = v&0x1 != 0
	result := v >> 1
	if oldCarry {
		result |= 0x8
	}
	vm.Mem.SetRaw(addr, result)
	vm.Flags.Zero = result == 0
}

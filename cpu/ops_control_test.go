package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nibbler/mem"
)

func TestMOVRegisterToRegister(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2)) // MOV R1,R2
	vm.Mem.SetReg(mem.R2, 0x7)
	vm.Step()
	assert.Equal(t, byte(0x7), vm.Mem.Reg(mem.R1))
}

func TestMOVIndirectWritesR0ThroughXYPointer(t *testing.T) {
	vm := newTestVM(t, word(0xa, 1, 2)) // MOV [R1:R2],R0
	vm.Mem.SetReg(mem.R1, 0x0)          // high nibble of the pointer
	vm.Mem.SetReg(mem.R2, 0x3)          // low nibble of the pointer -> flat addr 0x03
	vm.Mem.SetReg(mem.R0, 0x9)
	vm.Step()
	assert.Equal(t, byte(0x9), vm.Mem.Raw(0x03))
}

func TestMOVPointerFormsRouteThroughSFRTrap(t *testing.T) {
	vm := newTestVM(t, word(0xc, 0xf, 0)) // MOV [NN],R0 with NN = SFRPageStart offset 0 (SFRPage)
	vm.Mem.SetReg(mem.R0, 0x7)
	vm.Step()
	assert.Equal(t, byte(0x7), vm.Mem.SFR(mem.SFRPage))
}

// A full call sequence: load PCM/PCH via MOV PC,NN, stage the low byte in a
// register, then let a CAN_JUMP-flagged MOV write it into the JSR register
// to trigger the push-then-jump trap.
func TestJSRViaMovPCThenMovJSR(t *testing.T) {
	movPC := word(0xe, 2, 3)       // MOV PC, 0x23 -> PCM=3, PCH=2
	loadLow := word(9, 5, 4)       // MOV R5, 4
	fireJSR := word(8, 0xc, 5)     // MOV JSR, R5 -> jump trap
	vm := newTestVM(t, loadLow, movPC, fireJSR)

	vm.Step() // MOV R5,4
	vm.Step() // MOV PC,0x23
	assert.Equal(t, byte(0x3), vm.Mem.Reg(mem.RegPCM))
	assert.Equal(t, byte(0x2), vm.Mem.Reg(mem.RegPCH))

	// Step fetches and advances PC before executing, so the return address
	// pushed by the trap is one past the fireJSR word's own address.
	returnAddr := vm.PC + 1
	vm.Step() // MOV JSR,R5 -> triggers call
	assert.Equal(t, uint16(0x234), vm.PC)
	assert.Equal(t, byte(1), vm.SP)

	frame := mem.StackFrame(0)
	assert.Equal(t, byte(returnAddr&0xf), vm.Mem.Raw(frame))
	assert.Equal(t, byte((returnAddr>>4)&0xf), vm.Mem.Raw(frame+1))
	assert.Equal(t, byte((returnAddr>>8)&0xf), vm.Mem.Raw(frame+2))
}

func TestRETPopsStackAndWritesR0(t *testing.T) {
	vm := newTestVM(t, word(0, 0xe, 7)) // wide row 0xe: RET R0,7
	vm.SP = 1
	frame := mem.StackFrame(0)
	vm.Mem.SetRaw(frame, 0x4)
	vm.Mem.SetRaw(frame+1, 0x3)
	vm.Mem.SetRaw(frame+2, 0x2)
	vm.Step()
	assert.Equal(t, byte(0), vm.SP)
	assert.Equal(t, uint16(0x234), vm.PC)
	assert.Equal(t, byte(0x7), vm.Mem.Reg(mem.R0))
}

func TestRETUnderflowIsFatal(t *testing.T) {
	vm := newTestVM(t, word(0, 0xe, 0))
	vm.SP = 0
	vm.Step()
	assert.True(t, vm.Halted)
	assert.Error(t, vm.Err)
}

func TestSKIPAdvancesByMWhenConditionHolds(t *testing.T) {
	// SKIP Z,2: cond bits = n3>>2 = 2 (Z), m bits = n3&3 = 2
	vm := newTestVM(t, word(0, 0xf, 0x2|(2<<2)))
	vm.Flags.Zero = true
	vm.Step()
	assert.Equal(t, uint16(1+2), vm.PC)
}

func TestSKIPZeroMMeansFour(t *testing.T) {
	// SKIP C,0: cond bits = 0 (C), m = 0 -> 4
	vm := newTestVM(t, word(0, 0xf, 0))
	vm.Flags.Carry = true
	vm.Step()
	assert.Equal(t, uint16(1+4), vm.PC)
}

func TestSKIPDoesNotAdvanceWhenConditionFails(t *testing.T) {
	vm := newTestVM(t, word(0, 0xf, 0))
	vm.Flags.Carry = false
	vm.Step()
	assert.Equal(t, uint16(1), vm.PC)
}

func TestJRAddsSignedOffset(t *testing.T) {
	vm := newTestVM(t, word(0xf, 0xf, 0xc)) // JR -4
	vm.Step()
	assert.Equal(t, uint16(1-4+4096), vm.PC)
}

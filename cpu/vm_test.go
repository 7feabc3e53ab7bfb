package cpu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nibbler/mem"
	"nibbler/program"
)

// newTestVM builds a VM around the given instruction words without going
// through program.Load, so tests can assemble tiny programs directly.
func newTestVM(t *testing.T, words ...uint16) *VM {
	t.Helper()
	img := &program.Image{Length: len(words)}
	for i, w := range words {
		img.Instructions[i] = w & 0x0fff
	}
	vm, err := NewVM(img)
	assert.NoError(t, err)
	return vm
}

func TestNewVMResetDefaults(t *testing.T) {
	vm := newTestVM(t)
	assert.Equal(t, byte(0xf), vm.Mem.SFR(mem.SFRDimmer))
	assert.Equal(t, byte(0x2), vm.Mem.SFR(mem.SFRAutoOff))
	assert.Equal(t, byte(mem.SerialBaud9600), vm.Mem.SFR(mem.SFRSerCtrl))
	assert.False(t, vm.StartRef.IsZero())
	assert.Equal(t, vm.StartRef, vm.CycleStart)
	assert.Equal(t, vm.StartRef, vm.LastSync)
}

func TestAdvancePCWrapsAtProgramSize(t *testing.T) {
	vm := newTestVM(t)
	vm.PC = program.NumWords - 1
	vm.advancePC(1)
	assert.Equal(t, uint16(0), vm.PC)

	vm.PC = 0
	vm.advancePC(-1)
	assert.Equal(t, uint16(program.NumWords-1), vm.PC)
}

func TestSnapshotIsRaceFreeCopy(t *testing.T) {
	vm := newTestVM(t)
	vm.Mem.SetReg(mem.R3, 0x7)
	vm.PC = 42

	s := vm.Snapshot()
	assert.Equal(t, uint16(42), s.PC)
	assert.Equal(t, byte(0x7), s.Registers[mem.R3])

	vm.Mem.SetReg(mem.R3, 0x0)
	assert.Equal(t, byte(0x7), s.Registers[mem.R3])
}

func TestLockUnlockGuardsState(t *testing.T) {
	vm := newTestVM(t)
	vm.Lock()
	vm.Cycles = 5
	vm.Unlock()

	done := make(chan struct{})
	go func() {
		vm.Lock()
		defer vm.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Lock did not release")
	}
}

package cpu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nibbler/mem"
)

func TestCycleWaitZeroWhenPeriodElapsed(t *testing.T) {
	vm := newTestVM(t)
	vm.Mem.SetSFR(mem.SFRClock, 0) // fastest period, 1us
	vm.CycleStart = time.Now().Add(-time.Millisecond)
	assert.Equal(t, time.Duration(0), vm.CycleWait(time.Now()))
}

func TestCycleWaitPositiveWhenPeriodNotElapsed(t *testing.T) {
	vm := newTestVM(t)
	vm.Mem.SetSFR(mem.SFRClock, 0xf) // slowest period, 2s
	vm.CycleStart = time.Now()
	assert.Greater(t, vm.CycleWait(time.Now()), time.Duration(0))
}

func TestStepIncrementsCycleCount(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	assert.Equal(t, uint64(0), vm.Cycles)
	vm.Step()
	assert.Equal(t, uint64(1), vm.Cycles)
}

func TestStepLatchesUserSyncAfterSyncPeriodElapses(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	vm.Mem.SetSFR(mem.SFRSync, 0) // fastest sync period
	vm.LastSync = time.Now().Add(-time.Hour)
	vm.Step()
	assert.NotZero(t, vm.Mem.SFR(mem.SFRRdFlags)&mem.RdFlagUserSync)
}

func TestStepDoesNotLatchUserSyncBeforePeriodElapses(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	vm.Mem.SetSFR(mem.SFRSync, 0xf) // slowest sync period
	vm.LastSync = time.Now()
	vm.Step()
	assert.Zero(t, vm.Mem.SFR(mem.SFRRdFlags)&mem.RdFlagUserSync)
}

func TestStepRefreshesInputRegisterToAllOnes(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	vm.Mem.SetReg(mem.RegIn, 0x0)
	vm.Step()
	assert.Equal(t, byte(0xf), vm.Mem.Reg(mem.RegIn))
}

func TestStepRefreshesAltInputWhenSelected(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	vm.Mem.SetSFR(mem.SFRWrFlags, mem.WrFlagInOutPos)
	vm.Mem.SetSFR(mem.SFRInB, 0x0)
	vm.Step()
	assert.Equal(t, byte(0xf), vm.Mem.SFR(mem.SFRInB))
}

func TestRunStopsOnQuitSignal(t *testing.T) {
	vm := newTestVM(t, word(8, 1, 2))
	vm.Mem.SetSFR(mem.SFRClock, 0xf) // slow enough it would otherwise never progress in this test
	quit := make(chan struct{})
	close(quit)
	err := vm.Run(quit)
	assert.NoError(t, err)
}

func TestRunStopsOnFatalError(t *testing.T) {
	vm := newTestVM(t, word(0, 0xe, 0)) // RET with SP==0: immediate fatal underflow
	vm.Mem.SetSFR(mem.SFRClock, 0)      // fastest, so Run executes right away
	quit := make(chan struct{})
	err := vm.Run(quit)
	assert.Error(t, err)
	assert.True(t, vm.Halted)
}

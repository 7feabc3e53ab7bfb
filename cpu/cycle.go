package cpu

import (
	"time"

	"nibbler/mem"
)

// uiRefreshPeriod caps how long Run sleeps between cycle-readiness checks,
// per spec.md §5, so a UI polling the VM never waits longer than this for a
// fresh frame even when the selected clock period is much longer.
const uiRefreshPeriod = 5 * time.Millisecond

// CycleWait reports how long the caller should wait before the next cycle
// is due, given the Clock SFR's selected period. A zero result means the
// cycle is due now.
func (vm *VM) CycleWait(now time.Time) time.Duration {
	elapsed := now.Sub(vm.CycleStart)
	period := time.Duration(mem.ClockPeriodMicros(vm.Mem.SFR(mem.SFRClock))) * time.Microsecond
	if elapsed >= period {
		return 0
	}
	return period - elapsed
}

// Step runs exactly one fetch-decode-execute cycle: it updates UserSync and
// the input register, fetches the word at PC (advancing PC first, per
// spec.md §4.8), decodes it, and dispatches to the matching exec method.
func (vm *VM) Step() {
	now := time.Now()
	vm.CycleStart = now
	vm.updateUserSync(now)
	vm.refreshInput()

	word := vm.Prog.Word(int(vm.PC))
	vm.advancePC(1)

	desc, n := Decode(word)
	vm.execute(desc, n)

	vm.CycleEnd = time.Now()
	vm.Cycles++
}

// updateUserSync sets RdFlags.UserSync once the Sync SFR's selected period
// has elapsed since the last time it fired.
func (vm *VM) updateUserSync(now time.Time) {
	elapsed := now.Sub(vm.LastSync)
	period := time.Duration(mem.SyncPeriodMicros(vm.Mem.SFR(mem.SFRSync))) * time.Microsecond
	if elapsed < period {
		return
	}
	vm.LastSync = now
	cur := vm.Mem.SFR(mem.SFRRdFlags)
	vm.Mem.SetSFR(mem.SFRRdFlags, cur|mem.RdFlagUserSync)
}

// refreshInput sets IN (or InB, when WrFlags.InOutPos selects the
// alternate bank) to 0xf, meaning no keys pressed, before every cycle.
func (vm *VM) refreshInput() {
	if vm.Mem.SFR(mem.SFRWrFlags)&mem.WrFlagInOutPos != 0 {
		vm.Mem.SetSFR(mem.SFRInB, 0xf)
		return
	}
	vm.Mem.SetReg(mem.RegIn, 0xf)
}

// execute dispatches a decoded instruction to its implementation.
func (vm *VM) execute(desc Descriptor, n Nibbles) {
	switch desc.Op {
	case OpADD:
		vm.execADD(desc, n)
	case OpADC:
		vm.execADC(desc, n)
	case OpSUB:
		vm.execSUB(desc, n)
	case OpSBB:
		vm.execSBB(desc, n)
	case OpOR:
		vm.execOR(desc, n)
	case OpAND:
		vm.execAND(desc, n)
	case OpXOR:
		vm.execXOR(desc, n)
	case OpMOV:
		vm.execMOV(desc, n)
	case OpJR:
		vm.execJR(desc, n)
	case OpCP:
		vm.execCP(desc, n)
	case OpINC:
		vm.execINC(desc, n)
	case OpDEC:
		vm.execDEC(desc, n)
	case OpDSZ:
		vm.execDSZ(desc, n)
	case OpEXR:
		vm.execEXR(desc, n)
	case OpBIT:
		vm.execBIT(desc, n)
	case OpBSET:
		vm.execBSET(desc, n)
	case OpBCLR:
		vm.execBCLR(desc, n)
	case OpBTG:
		vm.execBTG(desc, n)
	case OpRRC:
		vm.execRRC(desc, n)
	case OpRET:
		vm.execRET(desc, n)
	case OpSKIP:
		vm.execSKIP(desc, n)
	}
}

// Run drives the cycle engine cooperatively until quit is closed or the VM
// halts on a fatal error. Between cycles it sleeps for the lesser of the
// remaining cycle wait and uiRefreshPeriod, releasing the VM lock for the
// duration so a UI goroutine can take a Snapshot while idle.
func (vm *VM) Run(quit <-chan struct{}) error {
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		vm.mu.Lock()
		if vm.Halted {
			err := vm.Err
			vm.mu.Unlock()
			return err
		}
		wait := vm.CycleWait(time.Now())
		vm.mu.Unlock()

		if wait > 0 {
			if wait > uiRefreshPeriod {
				wait = uiRefreshPeriod
			}
			time.Sleep(wait)
			continue
		}

		vm.mu.Lock()
		vm.Step()
		halted := vm.Halted
		err := vm.Err
		vm.mu.Unlock()
		if halted {
			return err
		}
	}
}

package cpu

import (
	"fmt"
	"sync"
	"time"

	"nibbler/mem"
	"nibbler/program"
	"nibbler/rng"
)

// StatusFlags holds the three condition flags the arithmetic and bit
// operations update.
type StatusFlags struct {
	Carry    bool
	Zero     bool
	Overflow bool
}

// FatalError reports a condition spec.md §7 calls fatal: a stack
// overflow/underflow or any other state the VM cannot recover from without
// a reset. The cycle engine stops on this error rather than panicking.
type FatalError struct {
	Op  string
	Msg string
}

func (e *FatalError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Msg) }

func fatalf(op, format string, args ...any) *FatalError {
	return &FatalError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// VM is the complete machine state: memory, the loaded program, the
// register-machine's PC/SP/flags, and the PRNG. It generalizes the
// teacher's CPU struct (registers plus a bus) to this machine's nibble
// registers and 12-bit program counter.
type VM struct {
	mu sync.Mutex

	Mem  mem.Memory
	Prog *program.Image

	PC    uint16
	SP    byte
	Flags StatusFlags

	RNG rng.State

	Cycles uint64
	Halted bool
	Err    error

	StartRef   time.Time
	CycleStart time.Time
	CycleEnd   time.Time
	LastSync   time.Time
}

// NewVM constructs a VM for the given program, applying the reset-state
// SFR defaults and PRNG seeding spec.md §3 requires: Dimmer full (0xf),
// AutoOff at its default timeout (0x2), SerCtrl at 9600 baud, and the PRNG
// seeded from OS entropy with the nibble of that seed, with no LCG step
// taken yet, already latched into SFR Random.
func NewVM(prog *program.Image) (*VM, error) {
	vm := &VM{Prog: prog}
	vm.Mem.SetSFR(mem.SFRDimmer, 0xf)
	vm.Mem.SetSFR(mem.SFRAutoOff, 0x2)
	vm.Mem.SetSFR(mem.SFRSerCtrl, mem.SerialBaud9600)

	seed, err := rng.InitFromEntropy()
	if err != nil {
		return nil, fmt.Errorf("cpu: seeding PRNG: %w", err)
	}
	vm.RNG = seed
	vm.Mem.SetSFR(mem.SFRRandom, rng.Nibble(vm.RNG.Peek()))

	now := time.Now()
	vm.StartRef, vm.CycleStart, vm.LastSync = now, now, now
	return vm, nil
}

// advancePC adds a signed delta to PC, wrapping at program memory size
// (spec.md §9's Open Question ruling: the PC wraps rather than halting at
// the loaded image's length).
func (vm *VM) advancePC(delta int) {
	pc := (int(vm.PC) + delta) % program.NumWords
	if pc < 0 {
		pc += program.NumWords
	}
	vm.PC = uint16(pc)
}

// Lock/Unlock let a UI goroutine take a consistent snapshot of VM state
// while the cycle engine is paused between steps; Run releases the lock
// around its own sleeps so a UI can interleave reads.
func (vm *VM) Lock()   { vm.mu.Lock() }
func (vm *VM) Unlock() { vm.mu.Unlock() }

// Snapshot is a point-in-time, race-free copy of the state a debugger or
// the terminal UI needs to render.
type Snapshot struct {
	PC        uint16
	SP        byte
	Flags     StatusFlags
	Cycles    uint64
	Halted    bool
	Err       error
	Display   [2][mem.PageSize]byte
	Registers [16]byte
}

// Snapshot copies the externally-visible VM state under lock.
func (vm *VM) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := Snapshot{
		PC:     vm.PC,
		SP:     vm.SP,
		Flags:  vm.Flags,
		Cycles: vm.Cycles,
		Halted: vm.Halted,
		Err:    vm.Err,
	}
	p0, p1 := vm.Mem.DisplayPages()
	copy(s.Display[0][:], vm.Mem.Page(p0))
	copy(s.Display[1][:], vm.Mem.Page(p1))
	for i := range s.Registers {
		s.Registers[i] = vm.Mem.Reg(byte(i))
	}
	return s
}

// Package mem implements the badge's 256-nibble address space: a single
// backing store with overlapping named views (register bank, call stack,
// data RAM, alt register bank, special function registers), matching the
// teacher's Bus pattern but sized and shaped for nibble data.
package mem

// Page geometry. 16 pages of 16 nibbles each make up the 256-nibble space.
const (
	PageSize = 0x10
	NumPages = 0x10
)

// Page 0 offsets: main register bank.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	RegOut
	RegIn
	RegJSR
	RegPCL
	RegPCM
	RegPCH
)

// Page 1 (0x10-0x1f) is the call stack: 5 frames of 3 nibbles, nibble 15
// unused.
const (
	StackPage     = 1
	StackFrames   = 5
	StackFrameLen = 3
)

// Page 14 (0xe0-0xef) is the alternate register bank, swappable with page 0
// via EXR.
const AltRegPage = 14

// Page 15 (0xf0-0xff) is the Special Function Register page. Offsets below
// are relative to the start of page 15 (i.e. address 0xf0 + offset).
const (
	SFRPage = iota
	SFRClock
	SFRSync
	SFRWrFlags
	SFRRdFlags
	SFRSerCtrl
	SFRSerLow
	SFRSerHigh
	SFRReceived
	SFRAutoOff
	SFROutB
	SFRInB
	SFRKeyStatus
	SFRKeyReg
	SFRDimmer
	SFRRandom
)

// SFRPageStart is the flat address of the first SFR (Page).
const SFRPageStart = 0xf0

// Bits of WrFlags.
const (
	WrFlagRxTxPos   = 0x1
	WrFlagInOutPos  = 0x2
	WrFlagMatrixOff = 0x4
	WrFlagLedsOff   = 0x8
)

// Bits of RdFlags.
const (
	RdFlagUserSync = 0x1
	RdFlagVFlag    = 0x2
)

// SerCtrl baud rate encodings (acknowledged, not emulated: serial peripheral
// emulation is a spec Non-goal).
const (
	SerialBaud1200 = iota
	SerialBaud2400
	SerialBaud4800
	SerialBaud9600
	SerialBaud19200
	SerialBaud38600
	SerialBaud57600
	SerialBaud115200
	SerialError
)

// KeyStatus bits, written by the UI as a key-event pulse.
const (
	KeyJustPress = 0x1
	KeyLastPress = 0x2
	KeyAnyPress  = 0x4
)

// clockPeriods maps the 16 values of SFR Clock to a cycle period.
var clockPeriods = [16]uint32{
	1, 10, 33, 100, 333, 1000, 2000, 5000,
	10000, 20000, 50000, 100000, 200000, 500000, 1000000, 2000000,
}

// syncPeriods maps the 16 values of SFR Sync to a user-sync period, in
// microseconds.
var syncPeriods = [16]uint32{
	1000, 1667, 2500, 4000, 6667, 10000, 16667, 25000,
	40000, 66667, 100000, 166667, 250000, 400000, 666667, 1000000,
}

// ClockPeriodMicros returns the cycle period, in microseconds, selected by
// the given Clock SFR nibble.
func ClockPeriodMicros(nibble byte) uint32 { return clockPeriods[nibble&0xf] }

// SyncPeriodMicros returns the user-sync period, in microseconds, selected
// by the given Sync SFR nibble.
func SyncPeriodMicros(nibble byte) uint32 { return syncPeriods[nibble&0xf] }

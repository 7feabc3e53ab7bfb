// Package cpu implements the badge microcontroller: the 12-bit instruction
// decoder, operand resolvers, operation semantics, SFR traps, the cycle
// engine, and a disassembler. It generalizes the teacher's cpu package
// (table-driven decode, one Go method per mnemonic, bus-backed state) from
// the 6502's byte-wide addressing modes to this machine's 12-bit words and
// 4-bit data.
package cpu

// Op identifies a decoded operation.
type Op uint8

const (
	OpADD Op = iota
	OpADC
	OpSUB
	OpSBB
	OpOR
	OpAND
	OpXOR
	OpMOV
	OpJR
	OpCP
	OpINC
	OpDEC
	OpDSZ
	OpEXR
	OpBIT
	OpBSET
	OpBCLR
	OpBTG
	OpRRC
	OpRET
	OpSKIP
)

var opNames = [...]string{
	"ADD", "ADC", "SUB", "SBB", "OR", "AND", "XOR", "MOV", "JR", "CP",
	"INC", "DEC", "DSZ", "EXR", "BIT", "BSET", "BCLR", "BTG", "RRC", "RET", "SKIP",
}

func (o Op) String() string { return opNames[o] }

// Mode identifies how an operand's address or value is resolved from the
// three decoded nibbles.
type Mode uint8

const (
	ModeNone       Mode = iota
	ModeRegX            // address n2 (RX)
	ModeRegY            // address n3 (RY)
	ModeLitN3           // literal value n3 (N)
	ModeLitNN           // literal/absolute value (n2<<4)|n3 (NN)
	ModeIndirectXY       // address (R[n2]<<4)|R[n3]
	ModeR0               // address 0 (R0)
	ModePCMByte           // address of PCM; write is DST_BYTE (sets PCM/PCH)
	ModeImm8              // unsigned byte literal (n2<<4)|n3, used whole
	ModeRGIn              // RG selector, read/"in" variant
	ModeRGOut             // RG selector, write/"out" variant
	ModeBitM               // two low bits of n3 (M: bit index, or SKIP's count)
	ModeCond                // two high bits of n3 (condition code)
)

// Flag bits attached to a Descriptor, mirroring spec.md §4.1.
const (
	FlagDstByte Flags = 1 << iota
	FlagCanJump
	FlagCanRdSFR
	FlagCanWrSFR
	FlagUpdateCarry
)

// Flags is a bitset of decode-table flags.
type Flags uint8

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Descriptor is a fully decoded instruction: an operation plus its operand
// modes and flags. Exactly one Descriptor is selected for every 12-bit word
// (spec.md §8 invariant).
type Descriptor struct {
	Op       Op
	DstMode  Mode
	SrcMode  Mode
	CndMode  Mode
	Flags    Flags
	Mnemonic string
}

// Nibbles holds the three decoded nibbles of a 12-bit instruction word.
type Nibbles struct {
	N1, N2, N3 byte
}

// primary is indexed by n1 (1-15); index 0 is unused (n1==0 dispatches
// through wide instead).
var primary = [16]Descriptor{
	1: {Op: OpADD, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "ADD"},
	2: {Op: OpADC, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "ADC"},
	3: {Op: OpSUB, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "SUB"},
	4: {Op: OpSBB, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "SBB"},
	5: {Op: OpOR, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "OR"},
	6: {Op: OpAND, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "AND"},
	7: {Op: OpXOR, DstMode: ModeRegX, SrcMode: ModeRegY, Mnemonic: "XOR"},
	8: {Op: OpMOV, DstMode: ModeRegX, SrcMode: ModeRegY, Flags: FlagCanJump, Mnemonic: "MOV"},
	9: {Op: OpMOV, DstMode: ModeRegX, SrcMode: ModeLitN3, Flags: FlagCanJump, Mnemonic: "MOV"},
	0xA: {Op: OpMOV, DstMode: ModeIndirectXY, SrcMode: ModeR0, Mnemonic: "MOV"},
	0xB: {Op: OpMOV, DstMode: ModeR0, SrcMode: ModeIndirectXY, Mnemonic: "MOV"},
	0xC: {Op: OpMOV, DstMode: ModeLitNN, SrcMode: ModeR0, Flags: FlagCanWrSFR, Mnemonic: "MOV"},
	0xD: {Op: OpMOV, DstMode: ModeR0, SrcMode: ModeLitNN, Flags: FlagCanRdSFR, Mnemonic: "MOV"},
	// MOV PC, NN sets PCM/PCH from an 8-bit literal; it does not by itself
	// jump. The jump fires once a later instruction (MOV RX,RY/N with dst
	// landing on PCL) writes the low byte, assembling the full address.
	0xE: {Op: OpMOV, DstMode: ModePCMByte, SrcMode: ModeImm8, Flags: FlagDstByte, Mnemonic: "MOV"},
	0xF: {Op: OpJR, SrcMode: ModeImm8, Mnemonic: "JR"},
}

// wide is indexed by n2 (n1==0); n3 supplies the remaining operand.
var wide = [16]Descriptor{
	0x0: {Op: OpCP, DstMode: ModeR0, SrcMode: ModeLitN3, Mnemonic: "CP"},
	0x1: {Op: OpADD, DstMode: ModeR0, SrcMode: ModeLitN3, Mnemonic: "ADD"},
	0x2: {Op: OpINC, DstMode: ModeRegY, Flags: FlagCanJump, Mnemonic: "INC"},
	0x3: {Op: OpDEC, DstMode: ModeRegY, Flags: FlagCanJump, Mnemonic: "DEC"},
	0x4: {Op: OpDSZ, DstMode: ModeRegY, Mnemonic: "DSZ"},
	0x5: {Op: OpOR, DstMode: ModeR0, SrcMode: ModeLitN3, Flags: FlagUpdateCarry, Mnemonic: "OR"},
	0x6: {Op: OpAND, DstMode: ModeR0, SrcMode: ModeLitN3, Flags: FlagUpdateCarry, Mnemonic: "AND"},
	0x7: {Op: OpXOR, DstMode: ModeR0, SrcMode: ModeLitN3, Flags: FlagUpdateCarry, Mnemonic: "XOR"},
	0x8: {Op: OpEXR, SrcMode: ModeLitN3, Mnemonic: "EXR"},
	0x9: {Op: OpBIT, DstMode: ModeRGIn, SrcMode: ModeBitM, Mnemonic: "BIT"},
	0xA: {Op: OpBSET, DstMode: ModeRGOut, SrcMode: ModeBitM, Mnemonic: "BSET"},
	0xB: {Op: OpBCLR, DstMode: ModeRGOut, SrcMode: ModeBitM, Mnemonic: "BCLR"},
	0xC: {Op: OpBTG, DstMode: ModeRGOut, SrcMode: ModeBitM, Mnemonic: "BTG"},
	0xD: {Op: OpRRC, DstMode: ModeRegY, Mnemonic: "RRC"},
	0xE: {Op: OpRET, DstMode: ModeR0, SrcMode: ModeLitN3, Mnemonic: "RET"},
	0xF: {Op: OpSKIP, CndMode: ModeCond, SrcMode: ModeBitM, Mnemonic: "SKIP"},
}

// Decode splits a 12-bit program word into its three nibbles and selects
// the one Descriptor that governs it (spec.md §4.1).
func Decode(word uint16) (Descriptor, Nibbles) {
	n := Nibbles{
		N1: byte(word>>8) & 0xf,
		N2: byte(word>>4) & 0xf,
		N3: byte(word) & 0xf,
	}
	if n.N1 != 0 {
		return primary[n.N1], n
	}
	return wide[n.N2], n
}

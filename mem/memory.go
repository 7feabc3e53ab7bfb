package mem

// Memory is the 256-nibble user-visible address space: a single backing
// array with four simultaneous names for the same nibbles (page index, flat
// byte address, named register, SFR symbol), following the design note in
// spec.md §9 rather than replicating storage per view. It generalizes the
// teacher's mem.Bus (a flat byte array behind Read/Write) to nibble-sized
// words plus the named accessors the badge's memory map requires.
type Memory struct {
	words [NumPages * PageSize]byte
}

// clampNibble keeps every stored word inside 0..15, the representation
// invariant for a 4-bit memory word.
func clampNibble(v byte) byte { return v & 0xf }

// Raw reads the nibble at a flat address, bypassing any SFR trap. Used by
// every operand access that does not go through the SFR trap, including
// MOV [NN]/MOV R0,[NN] when NN is outside the SFR page.
func (m *Memory) Raw(addr byte) byte { return m.words[addr] }

// SetRaw writes the nibble at a flat address, bypassing any SFR trap.
func (m *Memory) SetRaw(addr byte, v byte) { m.words[addr] = clampNibble(v) }

// Page returns the 16-nibble slice starting at page p (0-15).
func (m *Memory) Page(p byte) []byte {
	start := int(p&0xf) * PageSize
	return m.words[start : start+PageSize]
}

// Reg reads one of the 16 page-0 registers (R0..R9, OUT, IN, JSR, PCL, PCM,
// PCH).
func (m *Memory) Reg(i byte) byte { return m.words[i&0xf] }

// SetReg writes one of the 16 page-0 registers, bypassing SFR/jump traps:
// callers that need the PC-write trap semantics go through the cpu
// package's writeDst instead.
func (m *Memory) SetReg(i byte, v byte) { m.words[i&0xf] = clampNibble(v) }

// AltReg reads one of the 16 alternate-bank registers (page 14).
func (m *Memory) AltReg(i byte) byte { return m.words[AltRegPage*PageSize+int(i&0xf)] }

// SetAltReg writes one of the 16 alternate-bank registers.
func (m *Memory) SetAltReg(i byte, v byte) {
	m.words[AltRegPage*PageSize+int(i&0xf)] = clampNibble(v)
}

// ExchangeRegisters swaps the first n (1..16) nibbles of the main register
// page and the alt register page, implementing EXR.
func (m *Memory) ExchangeRegisters(n int) {
	for i := 0; i < n; i++ {
		a, b := i, AltRegPage*PageSize+i
		m.words[a], m.words[b] = m.words[b], m.words[a]
	}
}

// StackFrame returns the flat address of the low nibble of stack frame sp
// (0..4); mid is +1, high is +2.
func StackFrame(sp byte) byte {
	return byte(StackPage*PageSize) + sp*StackFrameLen
}

// SFR reads a special function register by its page-15 offset (see the
// SFR* constants), bypassing any read trap. The cpu package's readSFR
// applies the trap.
func (m *Memory) SFR(offset byte) byte { return m.words[SFRPageStart+int(offset&0xf)] }

// SetSFR writes a special function register by its page-15 offset,
// bypassing any write trap.
func (m *Memory) SetSFR(offset byte, v byte) {
	m.words[SFRPageStart+int(offset&0xf)] = clampNibble(v)
}

// IsSFRAddress reports whether a flat address falls in the SFR page.
func IsSFRAddress(addr byte) bool { return addr >= SFRPageStart }

// DisplayPages returns the two consecutive, wrapping pages making up the
// currently visible pixel matrix, per spec.md §3: (Page, Page+1 mod 16).
func (m *Memory) DisplayPages() (byte, byte) {
	p := m.SFR(SFRPage) & 0xf
	return p, (p + 1) & 0xf
}

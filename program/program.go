// Package program parses and validates the badge's binary program image
// format, producing an immutable Image for cpu.VM to execute.
//
// Format (little-endian), per spec.md §6:
//
//	0x00   6     magic = 00 FF 00 FF A5 C3
//	0x06   2     length N (word count, 1..4096)
//	0x08   2*N   N program words (low byte, high byte; high nibble ignored)
//	0x08+2N 2    checksum = (N + sum(words)) & 0xffff
package program

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// NumWords is the size of program memory in words. Program memory is
// always allocated at this full size (never sized to the loaded
// instruction count) because the PC wraps at 4096 rather than halting at
// the image's length — see spec.md §9's Open Question ruling.
const NumWords = 4096

// MaxInstructions is the largest instruction count a valid image may
// declare.
const MaxInstructions = NumWords

var magic = [6]byte{0x00, 0xff, 0x00, 0xff, 0xa5, 0xc3}

// Errors returned by Load for malformed images. These are all fatal per
// spec.md §7: load rejects the file outright.
var (
	ErrTooShort    = errors.New("program: file shorter than the 10-byte minimum header")
	ErrBadMagic    = errors.New("program: bad magic header")
	ErrBadLength   = errors.New("program: instruction count out of range (1..4096)")
	ErrTruncated   = errors.New("program: file size inconsistent with declared instruction count")
	ErrBadChecksum = errors.New("program: checksum mismatch")
)

// Image is an immutable, validated program. Instructions is always
// NumWords long; unset positions beyond the loaded length read as zero, per
// spec.md §3.
type Image struct {
	Length       int
	Instructions [NumWords]uint16
}

// Word returns the 12-bit instruction word at pc, wrapping modulo NumWords.
func (img *Image) Word(pc int) uint16 {
	return img.Instructions[pc%NumWords] & 0x0fff
}

// Load parses a raw program image. If strict is false (the default per
// spec.md §6/§7), a checksum mismatch is tolerated and merely reported via
// the returned warning string; if strict is true, it is a hard error.
func Load(data []byte, strict bool) (*Image, string, error) {
	if len(data) < 10 {
		return nil, "", ErrTooShort
	}
	var gotMagic [6]byte
	copy(gotMagic[:], data[0:6])
	if gotMagic != magic {
		return nil, "", ErrBadMagic
	}

	n := int(binary.LittleEndian.Uint16(data[6:8]))
	if n < 1 || n > MaxInstructions {
		return nil, "", ErrBadLength
	}

	wantLen := 8 + 2*n + 2
	if len(data) < wantLen {
		return nil, "", ErrTruncated
	}

	img := &Image{Length: n}
	sum := uint32(n)
	for i := 0; i < n; i++ {
		off := 8 + 2*i
		w := binary.LittleEndian.Uint16(data[off : off+2])
		w &= 0x0fff
		img.Instructions[i] = w
		sum += uint32(w)
	}

	wantChecksum := binary.LittleEndian.Uint16(data[wantLen-2 : wantLen])
	gotChecksum := uint16(sum & 0xffff)

	if gotChecksum != wantChecksum {
		msg := fmt.Sprintf("program: checksum mismatch (want %#04x, got %#04x)", wantChecksum, gotChecksum)
		if strict {
			return nil, "", fmt.Errorf("%w: %s", ErrBadChecksum, msg)
		}
		return img, msg, nil
	}

	return img, "", nil
}

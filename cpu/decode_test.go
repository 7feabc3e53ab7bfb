package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// word builds a 12-bit instruction word from its three nibbles. The top
// nibble of a uint16 is never examined by Decode, so all test words are
// built this way rather than as raw hex literals.
func word(n1, n2, n3 byte) uint16 {
	return uint16(n1)<<8 | uint16(n2)<<4 | uint16(n3)
}

// Every primary nibble 1..15 and every wide nibble (selected when nibble1 is
// 0) must decode to a distinct, named operation: decoding is a total
// function over all 4096 possible words.
func TestDecodeCoversEveryWord(t *testing.T) {
	for n1 := byte(0); n1 < 16; n1++ {
		for n2 := byte(0); n2 < 16; n2++ {
			w := word(n1, n2, 0)
			desc, n := Decode(w)
			assert.NotEmpty(t, desc.Mnemonic, "n1=%x n2=%x produced an empty mnemonic", n1, n2)
			assert.Equal(t, n1, n.N1)
			assert.Equal(t, n2, n.N2)
		}
	}
}

func TestDecodePrimaryRowsUseNibble1(t *testing.T) {
	desc, _ := Decode(word(1, 2, 3))
	assert.Equal(t, OpADD, desc.Op)
	desc, _ = Decode(word(8, 1, 2))
	assert.Equal(t, OpMOV, desc.Op)
}

func TestDecodeWideRowsUseNibble2WhenNibble1Zero(t *testing.T) {
	desc, _ := Decode(word(0, 2, 0xf))
	assert.Equal(t, OpINC, desc.Op)
	desc, _ = Decode(word(0, 0xf, 0))
	assert.Equal(t, OpSKIP, desc.Op)
}

// MOV PC,NN (row 0xE) sets PCM/PCH only; it must never carry CAN_JUMP, or a
// plain literal load into PC would fire the call/jump trap on its own.
func TestMovPCLiteralDoesNotCarryJumpFlag(t *testing.T) {
	desc, _ := Decode(word(0xe, 2, 3))
	assert.Equal(t, OpMOV, desc.Op)
	assert.False(t, desc.Flags.has(FlagCanJump))
	assert.True(t, desc.Flags.has(FlagDstByte))
	assert.Equal(t, ModePCMByte, desc.DstMode)
}

func TestJRSharesImm8ModeWithMovPC(t *testing.T) {
	desc, _ := Decode(word(0xf, 4, 5))
	assert.Equal(t, OpJR, desc.Op)
	assert.Equal(t, ModeImm8, desc.SrcMode)
}

func TestBitFamilyUsesSrcModeBitM(t *testing.T) {
	for _, row := range []byte{0x9, 0xa, 0xb, 0xc} {
		desc, _ := Decode(word(0, row, 0))
		assert.Equal(t, ModeBitM, desc.SrcMode, "row %#x", row)
		assert.Equal(t, ModeNone, desc.CndMode, "row %#x", row)
	}
}

func TestSkipUsesConditionAndBitM(t *testing.T) {
	desc, _ := Decode(word(0, 0xf, 0))
	assert.Equal(t, ModeCond, desc.CndMode)
	assert.Equal(t, ModeBitM, desc.SrcMode)
}

func TestEXRUsesPlainLiteral(t *testing.T) {
	desc, _ := Decode(word(0, 8, 0))
	assert.Equal(t, OpEXR, desc.Op)
	assert.Equal(t, ModeLitN3, desc.SrcMode)
}

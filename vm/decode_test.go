package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSext(t *testing.T) {
	assert := assert.New(t)

	for i := word(0); i < 1<<5; i++ {
		want := i
		if i&0x10 != 0 {
			want = i | 0xFFE0
		}
		assert.Equal(want, sext(i, 5), "imm5 %05b", i)
	}

	assert.Equal(word(0xFFF0), sext(0b110000, 6))
	assert.Equal(word(0x00FF), sext(0x0FF, 9))
	assert.Equal(word(0xFFFF), sext(0x1FF, 9))
	assert.Equal(word(0xFC00), sext(0x400, 11))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		instruction word
		want        Instruction
	}{
		{"add reg", 0b0001_000_001_0_00_010, Instruction{Kind: KindAddReg, DR: R0, SR1: R1, SR2: R2}},
		{"add imm", 0b0001_000_011_1_00111, Instruction{Kind: KindAddImm, DR: R0, SR1: R3, Imm: 7}},
		{"add imm negative", 0b0001_111_111_1_10000, Instruction{Kind: KindAddImm, DR: R7, SR1: R7, Imm: 0xFFF0}},
		{"and reg", 0b0101_000_001_0_00_010, Instruction{Kind: KindAndReg, DR: R0, SR1: R1, SR2: R2}},
		{"and imm", 0b0101_000_110_1_10101, Instruction{Kind: KindAndImm, DR: R0, SR1: R6, Imm: 0xFFF5}},
		{"not", 0b1001_000_001_111111, Instruction{Kind: KindNot, DR: R0, SR1: R1}},
		{"ld", 0b0010_110_111111111, Instruction{Kind: KindLd, DR: R6, Offset: 0xFFFF}},
		{"ldi", 0b1010_101_000000011, Instruction{Kind: KindLdi, DR: R5, Offset: 3}},
		{"ldr", 0b0110_010_111_100000, Instruction{Kind: KindLdr, DR: R2, Base: R7, Offset: 0xFFE0}},
		{"lea", 0b1110_011_011111111, Instruction{Kind: KindLea, DR: R3, Offset: 0x00FF}},
		{"st", 0b0011_010_111111110, Instruction{Kind: KindSt, SR: R2, Offset: 0xFFFE}},
		{"sti", 0b1011_011_100000000, Instruction{Kind: KindSti, SR: R3, Offset: 0xFF00}},
		{"str", 0b0111_100_101_011111, Instruction{Kind: KindStr, SR: R4, Base: R5, Offset: 31}},
		{"br", 0b0000_101_000000100, Instruction{Kind: KindBr, NZP: FLAG_NEG | FLAG_POS, Offset: 4}},
		{"jmp", 0b1100_000_110_000000, Instruction{Kind: KindJmp, Base: R6}},
		{"ret", 0xC1C0, Instruction{Kind: KindJmp, Base: R7}},
		{"jsr", 0b0100_1_11111111111, Instruction{Kind: KindJsr, Offset: 0xFFFF}},
		{"jsr positive", 0b0100_1_01111111111, Instruction{Kind: KindJsr, Offset: 0x03FF}},
		{"jsrr", 0b0100_0_00_011_000000, Instruction{Kind: KindJsrr, Base: R3}},
		{"getc", 0xF020, Instruction{Kind: KindTrap, Vector: TRAP_GETC}},
		{"out", 0xF021, Instruction{Kind: KindTrap, Vector: TRAP_OUT}},
		{"puts", 0xF022, Instruction{Kind: KindTrap, Vector: TRAP_PUTS}},
		{"in", 0xF023, Instruction{Kind: KindTrap, Vector: TRAP_IN}},
		{"putsp", 0xF024, Instruction{Kind: KindTrap, Vector: TRAP_PUTSP}},
		{"halt", 0xF025, Instruction{Kind: KindTrap, Vector: TRAP_HALT}},
		{"in u16", 0xF026, Instruction{Kind: KindTrap, Vector: TRAP_IN_U16}},
		{"out u16", 0xF027, Instruction{Kind: KindTrap, Vector: TRAP_OUT_U16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			have, err := Decode(tt.instruction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, have)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		instruction word
		want        error
	}{
		{0x8000, ErrReservedOpcode}, // RTI
		{0xD000, ErrReservedOpcode},
		{0xDFFF, ErrReservedOpcode},
		{0xF000, ErrUnknownTrap},
		{0xF01F, ErrUnknownTrap},
		{0xF028, ErrUnknownTrap},
		{0xF0FF, ErrUnknownTrap},
	}

	for _, tt := range tests {
		_, err := Decode(tt.instruction)
		assert.ErrorIs(t, err, tt.want, "0x%04x", tt.instruction)
		assert.True(t, IsDecodeError(err))
	}
}

func TestDecodeTotal(t *testing.T) {
	for op := word(0); op < 16; op++ {
		_, err := Decode(op << 12)
		if op == OP_RTI || op == OP_RES || op == OP_TRAP {
			assert.Error(t, err, "opcode %04b", op)
			continue
		}
		assert.NoError(t, err, "opcode %04b", op)
	}
}

func TestInstructionString(t *testing.T) {
	tests := map[word]string{
		0x1042: "ADD R0, R1, R2",
		0x1E3D: "ADD R7, R0, #-3",
		0x5020: "AND R0, R0, #0",
		0x927F: "NOT R1, R1",
		0x21FF: "LD R0, #-1",
		0xA004: "LDI R0, #4",
		0x6440: "LDR R2, R1, #0",
		0xE5FE: "LEA R2, #-2",
		0x3401: "ST R2, #1",
		0xB7FF: "STI R3, #-1",
		0x7B7F: "STR R5, R5, #-1",
		0x07FE: "BRzp #-2",
		0x0800: "BRn #0",
		0xC1C0: "JMP R7",
		0x4802: "JSR #2",
		0x4080: "JSRR R2",
		0xF025: "TRAP x25 HALT",
		0xF026: "TRAP x26 IN_U16",
		0xF020: "TRAP x20 GETC",
	}

	for instruction, want := range tests {
		in, err := Decode(instruction)
		require.NoError(t, err)
		assert.Equal(t, want, in.String(), "0x%04x", instruction)
	}
}

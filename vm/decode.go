package vm

import "fmt"

// opcodes
const (
	OP_BR word = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI /* privileged, not supported */
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES /* reserved */
	OP_LEA
	OP_TRAP
)

// Kind tags the decoded instruction. Register and immediate forms of the same
// opcode are distinct kinds.
type Kind uint8

const (
	KindAddReg Kind = iota
	KindAddImm
	KindAndReg
	KindAndImm
	KindNot
	KindLd
	KindLdi
	KindLdr
	KindLea
	KindSt
	KindSti
	KindStr
	KindBr
	KindJmp
	KindJsr
	KindJsrr
	KindTrap
)

var kindNames = [...]string{
	KindAddReg: "ADD",
	KindAddImm: "ADD",
	KindAndReg: "AND",
	KindAndImm: "AND",
	KindNot:    "NOT",
	KindLd:     "LD",
	KindLdi:    "LDI",
	KindLdr:    "LDR",
	KindLea:    "LEA",
	KindSt:     "ST",
	KindSti:    "STI",
	KindStr:    "STR",
	KindBr:     "BR",
	KindJmp:    "JMP",
	KindJsr:    "JSR",
	KindJsrr:   "JSRR",
	KindTrap:   "TRAP",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Instruction is one decoded word. Only the fields used by Kind are set;
// Imm and Offset are already sign extended to 16 bits.
type Instruction struct {
	Kind   Kind
	DR     Register // destination
	SR     Register // store source
	SR1    Register
	SR2    Register
	Base   Register
	Imm    word
	Offset word
	NZP    word
	Vector TrapVector
}

// sign extend
func sext(x word, bitCount uint) word {
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}

func dr(instruction word) Register   { return Register((instruction >> 9) & 0b111) }
func sr1(instruction word) Register  { return Register((instruction >> 6) & 0b111) }
func sr2(instruction word) Register  { return Register(instruction & 0b111) }
func imm5(instruction word) word     { return sext(instruction&0x1F, 5) }
func offset6(instruction word) word  { return sext(instruction&0x3F, 6) }
func offset9(instruction word) word  { return sext(instruction&0x1FF, 9) }
func offset11(instruction word) word { return sext(instruction&0x7FF, 11) }

// Decode maps a raw word to an instruction. RTI, the reserved opcode and
// unknown trap vectors are rejected.
func Decode(instruction word) (Instruction, error) {
	op := instruction >> 12
	immFlag := (instruction>>5)&0b1 == 1

	switch op {
	case OP_ADD:
		if immFlag {
			return Instruction{Kind: KindAddImm, DR: dr(instruction), SR1: sr1(instruction), Imm: imm5(instruction)}, nil
		}
		return Instruction{Kind: KindAddReg, DR: dr(instruction), SR1: sr1(instruction), SR2: sr2(instruction)}, nil

	case OP_AND:
		if immFlag {
			return Instruction{Kind: KindAndImm, DR: dr(instruction), SR1: sr1(instruction), Imm: imm5(instruction)}, nil
		}
		return Instruction{Kind: KindAndReg, DR: dr(instruction), SR1: sr1(instruction), SR2: sr2(instruction)}, nil

	case OP_NOT:
		return Instruction{Kind: KindNot, DR: dr(instruction), SR1: sr1(instruction)}, nil

	case OP_LD:
		return Instruction{Kind: KindLd, DR: dr(instruction), Offset: offset9(instruction)}, nil

	case OP_LDI:
		return Instruction{Kind: KindLdi, DR: dr(instruction), Offset: offset9(instruction)}, nil

	case OP_LDR:
		return Instruction{Kind: KindLdr, DR: dr(instruction), Base: sr1(instruction), Offset: offset6(instruction)}, nil

	case OP_LEA:
		return Instruction{Kind: KindLea, DR: dr(instruction), Offset: offset9(instruction)}, nil

	case OP_ST:
		return Instruction{Kind: KindSt, SR: dr(instruction), Offset: offset9(instruction)}, nil

	case OP_STI:
		return Instruction{Kind: KindSti, SR: dr(instruction), Offset: offset9(instruction)}, nil

	case OP_STR:
		return Instruction{Kind: KindStr, SR: dr(instruction), Base: sr1(instruction), Offset: offset6(instruction)}, nil

	case OP_BR:
		return Instruction{Kind: KindBr, NZP: (instruction >> 9) & 0b111, Offset: offset9(instruction)}, nil

	case OP_JMP:
		return Instruction{Kind: KindJmp, Base: sr1(instruction)}, nil

	case OP_JSR:
		if (instruction>>11)&0b1 == 1 {
			return Instruction{Kind: KindJsr, Offset: offset11(instruction)}, nil
		}
		return Instruction{Kind: KindJsrr, Base: sr1(instruction)}, nil

	case OP_TRAP:
		vector := TrapVector(instruction & 0xFF)
		if !vector.valid() {
			return Instruction{}, &DecodeError{Word: instruction, Err: ErrUnknownTrap}
		}
		return Instruction{Kind: KindTrap, Vector: vector}, nil
	}

	// OP_RTI and OP_RES
	return Instruction{}, &DecodeError{Word: instruction, Err: ErrReservedOpcode}
}

func (in Instruction) String() string {
	switch in.Kind {
	case KindAddReg, KindAndReg:
		return fmt.Sprintf("%v %v, %v, %v", in.Kind, in.DR, in.SR1, in.SR2)
	case KindAddImm, KindAndImm:
		return fmt.Sprintf("%v %v, %v, #%d", in.Kind, in.DR, in.SR1, int16(in.Imm))
	case KindNot:
		return fmt.Sprintf("%v %v, %v", in.Kind, in.DR, in.SR1)
	case KindLd, KindLdi, KindLea:
		return fmt.Sprintf("%v %v, #%d", in.Kind, in.DR, int16(in.Offset))
	case KindLdr:
		return fmt.Sprintf("%v %v, %v, #%d", in.Kind, in.DR, in.Base, int16(in.Offset))
	case KindSt, KindSti:
		return fmt.Sprintf("%v %v, #%d", in.Kind, in.SR, int16(in.Offset))
	case KindStr:
		return fmt.Sprintf("%v %v, %v, #%d", in.Kind, in.SR, in.Base, int16(in.Offset))
	case KindBr:
		cond := ""
		if in.NZP&FLAG_NEG != 0 {
			cond += "n"
		}
		if in.NZP&FLAG_ZRO != 0 {
			cond += "z"
		}
		if in.NZP&FLAG_POS != 0 {
			cond += "p"
		}
		return fmt.Sprintf("BR%s #%d", cond, int16(in.Offset))
	case KindJmp, KindJsrr:
		return fmt.Sprintf("%v %v", in.Kind, in.Base)
	case KindJsr:
		return fmt.Sprintf("%v #%d", in.Kind, int16(in.Offset))
	case KindTrap:
		return in.Vector.String()
	}
	return in.Kind.String()
}

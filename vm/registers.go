package vm

type word = uint16

// Register identifies one cell of the register file.
type Register uint8

// general purpose registers
const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC   // program counter
	COND // condition flags
	RegisterCount
)

var registerNames = [RegisterCount]string{"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7", "PC", "COND"}

func (r Register) String() string {
	if r < RegisterCount {
		return registerNames[r]
	}
	return "R?"
}

// condition flags, exactly one is set in COND at any time
const (
	FLAG_POS word = 1 << 0
	FLAG_ZRO word = 1 << 1
	FLAG_NEG word = 1 << 2
)

type registerFile [RegisterCount]word

func newRegisterFile() registerFile {
	var regs registerFile
	regs[PC] = PCStart
	regs[COND] = FLAG_ZRO
	return regs
}

func (regs *registerFile) updateFlags(r Register) {
	if regs[r] == 0 {
		regs[COND] = FLAG_ZRO
	} else if regs[r]>>15 != 0 {
		regs[COND] = FLAG_NEG
	} else {
		regs[COND] = FLAG_POS
	}
}

// set writes a general purpose register and recomputes the condition flags from it.
func (regs *registerFile) set(r Register, value word) {
	regs[r] = value
	regs.updateFlags(r)
}

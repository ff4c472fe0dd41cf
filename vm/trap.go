package vm

import (
	"fmt"
	"strconv"
)

// TrapVector selects a system call.
type TrapVector word

const (
	TRAP_GETC    TrapVector = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT     TrapVector = 0x21 /* output a character */
	TRAP_PUTS    TrapVector = 0x22 /* output a word string */
	TRAP_IN      TrapVector = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP   TrapVector = 0x24 /* output a byte string */
	TRAP_HALT    TrapVector = 0x25 /* halt the program */
	TRAP_IN_U16  TrapVector = 0x26 /* read a decimal number terminated by a newline */
	TRAP_OUT_U16 TrapVector = 0x27 /* output R0 as a decimal number */
)

var trapNames = map[TrapVector]string{
	TRAP_GETC:    "GETC",
	TRAP_OUT:     "OUT",
	TRAP_PUTS:    "PUTS",
	TRAP_IN:      "IN",
	TRAP_PUTSP:   "PUTSP",
	TRAP_HALT:    "HALT",
	TRAP_IN_U16:  "IN_U16",
	TRAP_OUT_U16: "OUT_U16",
}

func (v TrapVector) valid() bool {
	_, ok := trapNames[v]
	return ok
}

func (v TrapVector) String() string {
	if name, ok := trapNames[v]; ok {
		return fmt.Sprintf("TRAP x%02X %s", word(v), name)
	}
	return fmt.Sprintf("TRAP x%02X", word(v))
}

func (cpu *cpu) trap(vector TrapVector) error {
	if vector == TRAP_HALT {
		cpu.halted = true
		return nil
	}

	regs := &cpu.regs
	regs[R7] = regs[PC]

	switch vector {
	case TRAP_GETC:
		c, err := cpu.console.readKey("GETC")
		if err != nil {
			return err
		}
		regs[R0] = word(c)

	case TRAP_OUT:
		if err := cpu.console.write("OUT", []byte{byte(regs[R0])}); err != nil {
			return err
		}
		return cpu.console.flush("OUT")

	case TRAP_PUTS:
		// string walks read cells directly and never poll the keyboard
		for addr := regs[R0]; cpu.memory.cells[addr] != 0; addr++ {
			if err := cpu.console.write("PUTS", []byte{byte(cpu.memory.cells[addr])}); err != nil {
				return err
			}
		}
		return cpu.console.flush("PUTS")

	case TRAP_IN:
		c, err := cpu.console.readKey("IN")
		if err != nil {
			return err
		}
		regs[R0] = word(c)
		if err := cpu.console.write("IN", []byte{c}); err != nil {
			return err
		}
		return cpu.console.flush("IN")

	case TRAP_PUTSP:
		for addr := regs[R0]; cpu.memory.cells[addr] != 0; addr++ {
			w := cpu.memory.cells[addr]
			if err := cpu.console.write("PUTSP", []byte{byte(w >> 8), byte(w)}); err != nil {
				return err
			}
		}
		return cpu.console.flush("PUTSP")

	case TRAP_IN_U16:
		var digits []byte
		for {
			c, err := cpu.console.readKey("IN_U16")
			if err != nil {
				return err
			}
			if c == '\n' {
				break
			}
			if c >= '0' && c <= '9' {
				digits = append(digits, c)
			}
		}
		if len(digits) == 0 {
			return &ParseError{Err: ErrNoDigits}
		}
		n, err := strconv.ParseUint(string(digits), 10, 16)
		if err != nil {
			return &ParseError{Digits: string(digits), Err: err}
		}
		regs[R0] = word(n)

	case TRAP_OUT_U16:
		s := strconv.FormatUint(uint64(regs[R0]), 10)
		if err := cpu.console.write("OUT_U16", []byte(s)); err != nil {
			return err
		}
		return cpu.console.flush("OUT_U16")

	default:
		return &DecodeError{Word: 0xF000 | word(vector), Err: ErrUnknownTrap}
	}
	return nil
}

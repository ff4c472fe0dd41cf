package vm

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

type cpu struct {
	halted  bool
	regs    registerFile
	memory  *memory
	console console
	trace   *log.Logger
}

func newCpu(mem *memory, console console) *cpu {
	return &cpu{
		regs:    newRegisterFile(),
		memory:  mem,
		console: console,
	}
}

func (cpu *cpu) run() error {
	for !cpu.halted {
		if err := cpu.step(); err != nil {
			return err
		}
	}
	return nil
}

// step runs one fetch, decode, execute cycle. PC is advanced before the
// instruction executes, so R7 captures the address of the next instruction.
// Any error halts the cpu.
func (cpu *cpu) step() error {
	err := cpu.cycle()
	if err != nil {
		cpu.halted = true
	}
	return err
}

func (cpu *cpu) cycle() error {
	addr := cpu.regs[PC]
	instruction, err := cpu.memory.read(addr)
	if err != nil {
		return errors.Wrapf(err, "fetch 0x%04x", addr)
	}
	cpu.regs[PC]++

	in, err := Decode(instruction)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Addr = addr
		}
		return err
	}

	if cpu.trace != nil {
		cpu.trace.Printf("0x%04x %v", addr, in)
	}

	if err := cpu.execute(in); err != nil {
		return errors.Wrapf(err, "0x%04x %v", addr, in)
	}
	return nil
}

func (cpu *cpu) execute(in Instruction) error {
	regs := &cpu.regs

	switch in.Kind {
	case KindAddReg:
		regs.set(in.DR, regs[in.SR1]+regs[in.SR2])

	case KindAddImm:
		regs.set(in.DR, regs[in.SR1]+in.Imm)

	case KindAndReg:
		regs.set(in.DR, regs[in.SR1]&regs[in.SR2])

	case KindAndImm:
		regs.set(in.DR, regs[in.SR1]&in.Imm)

	case KindNot:
		regs.set(in.DR, ^regs[in.SR1])

	case KindLd:
		value, err := cpu.memory.read(regs[PC] + in.Offset)
		if err != nil {
			return err
		}
		regs.set(in.DR, value)

	case KindLdi:
		pointer, err := cpu.memory.read(regs[PC] + in.Offset)
		if err != nil {
			return err
		}
		value, err := cpu.memory.read(pointer)
		if err != nil {
			return err
		}
		regs.set(in.DR, value)

	case KindLdr:
		value, err := cpu.memory.read(regs[in.Base] + in.Offset)
		if err != nil {
			return err
		}
		regs.set(in.DR, value)

	case KindLea:
		regs.set(in.DR, regs[PC]+in.Offset)

	case KindSt:
		cpu.memory.write(regs[PC]+in.Offset, regs[in.SR])

	case KindSti:
		pointer, err := cpu.memory.read(regs[PC] + in.Offset)
		if err != nil {
			return err
		}
		cpu.memory.write(pointer, regs[in.SR])

	case KindStr:
		cpu.memory.write(regs[in.Base]+in.Offset, regs[in.SR])

	case KindBr:
		if in.NZP&regs[COND] != 0 {
			regs[PC] += in.Offset
		}

	case KindJmp:
		regs[PC] = regs[in.Base]

	case KindJsr:
		regs[R7] = regs[PC]
		regs[PC] += in.Offset

	case KindJsrr:
		// base is read before R7 is written, JSRR R7 jumps to the old R7
		target := regs[in.Base]
		regs[R7] = regs[PC]
		regs[PC] = target

	case KindTrap:
		return cpu.trap(in.Vector)

	default:
		panic(fmt.Sprintf("unhandled instruction kind %v", in.Kind))
	}
	return nil
}

package vm

import (
	"io"
	"log"
)

// VM is a single guest machine. It is not safe for concurrent use; the
// keyboard and output stream belong to it for its whole lifetime.
type VM struct {
	memory *memory
	cpu    *cpu
}

// NewVM returns a machine with zeroed memory, PC at PCStart and COND set to
// zero. A nil keyboard behaves as a closed stream; a nil stdout discards output.
func NewVM(keyboard Input, stdout io.Writer) *VM {
	if stdout == nil {
		stdout = io.Discard
	}
	mem := newMemory(keyboard)
	return &VM{
		memory: mem,
		cpu:    newCpu(mem, console{keyboard: keyboard, stdout: stdout}),
	}
}

// SetTrace logs every executed instruction to logger. A nil logger turns
// tracing off.
func (vm *VM) SetTrace(logger *log.Logger) {
	vm.cpu.trace = logger
}

// Run executes until HALT or the first error.
func (vm *VM) Run() error {
	return vm.cpu.run()
}

// Step executes a single instruction.
func (vm *VM) Step() error {
	return vm.cpu.step()
}

func (vm *VM) Halted() bool {
	return vm.cpu.halted
}

// Register returns the value of r, or 0 when r is not a register.
func (vm *VM) Register(r Register) uint16 {
	if r >= RegisterCount {
		return 0
	}
	return vm.cpu.regs[r]
}

// SetRegister stores value in r. Writes to identifiers outside the
// register file are ignored.
func (vm *VM) SetRegister(r Register, value uint16) {
	if r >= RegisterCount {
		return
	}
	vm.cpu.regs[r] = value
}

// ReadMemory returns a cell without triggering device side effects.
func (vm *VM) ReadMemory(addr uint16) uint16 {
	return vm.memory.cells[addr]
}

func (vm *VM) WriteMemory(addr, value uint16) {
	vm.memory.write(addr, value)
}

package vm

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// PCStart is where execution begins.
const PCStart = UserSpaceStart

// memory mapped register addresses
const (
	KBSR word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// KBSR ready bit
const keyboardReady word = 1 << 15

type memory struct {
	cells    [MemorySize]word
	keyboard Input
}

func newMemory(keyboard Input) *memory {
	return &memory{keyboard: keyboard}
}

// read returns the cell at addr. Reading KBSR polls the keyboard without
// blocking and latches a pending byte into KBDR; every other address is a
// plain lookup.
func (mem *memory) read(addr word) (word, error) {
	if addr == KBSR {
		if err := mem.pollKeyboard(); err != nil {
			return 0, err
		}
	}
	return mem.cells[addr], nil
}

func (mem *memory) pollKeyboard() error {
	if mem.keyboard == nil {
		mem.cells[KBSR] = 0
		return nil
	}
	b, ok, err := mem.keyboard.PollKey()
	if err != nil {
		return &IOError{Op: "poll keyboard", Err: err}
	}
	if ok {
		mem.cells[KBSR] = keyboardReady
		mem.cells[KBDR] = word(b)
	} else {
		mem.cells[KBSR] = 0
	}
	return nil
}

func (mem *memory) write(addr, value word) {
	mem.cells[addr] = value
}

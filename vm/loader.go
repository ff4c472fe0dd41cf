package vm

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// LoadImage copies a program image into memory. The image is a stream of
// big-endian words: the origin address, then the words to place starting at
// that address. A trailing odd byte is ignored. It returns the origin and
// the number of words loaded.
func (vm *VM) LoadImage(r io.Reader) (origin uint16, n int, err error) {
	br := bufio.NewReader(r)

	origin, ok, err := readWord(br)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, ErrImageTooShort
	}

	addr := int(origin)
	for {
		value, ok, err := readWord(br)
		if err != nil {
			return origin, n, err
		}
		if !ok {
			return origin, n, nil
		}
		if addr >= MemorySize {
			return origin, n, ErrImageTooLarge
		}
		vm.memory.write(word(addr), value)
		addr++
		n++
	}
}

// readWord returns ok == false at the end of the stream, including a short read.
func readWord(br *bufio.Reader) (word, bool, error) {
	var buf [2]byte
	_, err := io.ReadFull(br, buf[:])
	switch err {
	case nil:
		return word(buf[0])<<8 | word(buf[1]), true, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return 0, false, nil
	}
	return 0, false, errors.Wrap(err, "read image")
}

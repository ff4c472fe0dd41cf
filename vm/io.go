package vm

import (
	"io"
	"sync"
)

// Input is the console input device.
type Input interface {
	// ReadKey blocks until a byte is available.
	ReadKey() (byte, error)
	// PollKey never blocks; ok is false when no byte is pending.
	PollKey() (b byte, ok bool, err error)
}

// Keyboard turns a blocking byte stream into an Input. A single goroutine
// reads the stream one byte at a time into a one slot buffer.
type Keyboard struct {
	r         io.Reader
	keyBuffer chan byte
	start     sync.Once
	err       error // valid once keyBuffer is closed
}

func NewKeyboard(r io.Reader) *Keyboard {
	return &Keyboard{
		r:         r,
		keyBuffer: make(chan byte, 1),
	}
}

func (kb *Keyboard) pollKeyboard() {
	defer close(kb.keyBuffer)
	buf := make([]byte, 1)
	for {
		n, err := kb.r.Read(buf)
		if n > 0 {
			kb.keyBuffer <- buf[0]
		}
		if err != nil {
			kb.err = err
			return
		}
	}
}

func (kb *Keyboard) ReadKey() (byte, error) {
	kb.start.Do(func() { go kb.pollKeyboard() })
	b, ok := <-kb.keyBuffer
	if !ok {
		return 0, kb.err
	}
	return b, nil
}

func (kb *Keyboard) PollKey() (byte, bool, error) {
	kb.start.Do(func() { go kb.pollKeyboard() })
	select {
	case b, ok := <-kb.keyBuffer:
		if !ok {
			return 0, false, kb.err
		}
		return b, true, nil
	default:
		return 0, false, nil
	}
}

type flusher interface {
	Flush() error
}

type console struct {
	keyboard Input
	stdout   io.Writer
}

func (c *console) readKey(op string) (byte, error) {
	if c.keyboard == nil {
		return 0, &IOError{Op: op, Err: io.EOF}
	}
	b, err := c.keyboard.ReadKey()
	if err != nil {
		return 0, &IOError{Op: op, Err: err}
	}
	return b, nil
}

func (c *console) write(op string, p []byte) error {
	if _, err := c.stdout.Write(p); err != nil {
		return &IOError{Op: op, Err: err}
	}
	return nil
}

// flush pushes buffered output to the host after each trap that writes.
func (c *console) flush(op string) error {
	if f, ok := c.stdout.(flusher); ok {
		if err := f.Flush(); err != nil {
			return &IOError{Op: op, Err: err}
		}
	}
	return nil
}

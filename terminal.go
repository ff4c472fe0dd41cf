package main

import (
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// terminal holds the host terminal settings in force before the run so they
// can be put back on every exit path.
type terminal struct {
	fd                     uintptr
	originalTerminalConfig unix.Termios
	raw                    bool
	restored               sync.Once
}

// enableRawMode turns off line buffering and echo on f. Nothing is changed
// when f is not a terminal.
func enableRawMode(f *os.File) (*terminal, error) {
	t := &terminal{fd: f.Fd()}
	if !term.IsTerminal(int(t.fd)) {
		return t, nil
	}

	if err := termios.Tcgetattr(t.fd, &t.originalTerminalConfig); err != nil {
		return nil, errors.Wrap(err, "read terminal settings")
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.fd, termios.TCSANOW, &newTermios); err != nil {
		return nil, errors.Wrap(err, "enable raw mode")
	}
	t.raw = true
	return t, nil
}

// disableRawMode is safe to call more than once and from any goroutine.
func (t *terminal) disableRawMode() {
	t.restored.Do(func() {
		if !t.raw {
			return
		}
		if err := termios.Tcsetattr(t.fd, termios.TCSANOW, &t.originalTerminalConfig); err != nil {
			log.Printf("restore terminal: %v", err)
		}
	})
}

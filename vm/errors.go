package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// decode errors
	ErrReservedOpcode = errors.New("reserved opcode")
	ErrUnknownTrap    = errors.New("unknown trap vector")

	// image errors
	ErrImageTooShort = errors.New("image has no origin")
	ErrImageTooLarge = errors.New("image runs past the end of memory")

	// IN_U16 with a newline before any digit
	ErrNoDigits = errors.New("no digits")
)

// DecodeError reports a word that is not a supported instruction.
type DecodeError struct {
	Addr word
	Word word
	Err  error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("decode 0x%04x at 0x%04x: %v", err.Word, err.Addr, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// IOError reports a failure of the console input or output stream.
type IOError struct {
	Op  string
	Err error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// ParseError reports IN_U16 input that does not fit in 16 bits.
type ParseError struct {
	Digits string
	Err    error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse %q as u16: %v", err.Digits, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// IsDecodeError reports whether err was caused by a malformed instruction.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsIOError reports whether err was caused by the console streams.
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// IsParseError reports whether err was caused by IN_U16 input.
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// Package ioctl encodes and executes Linux ioctl commands.
package ioctl

import (
	"fmt"
	"os"
	"reflect"

	"golang.org/x/sys/unix"
)

// Mode is the IOCTL data transfer direction.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Encoding layout, from <asm-generic/ioctl.h>.
const (
	numberBits = 8
	typeBits   = 8
	sizeBits   = 14
	modeBits   = 2

	numberShift = 0
	typeShift   = numberShift + numberBits
	sizeShift   = typeShift + typeBits
	modeShift   = sizeShift + sizeBits
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> modeShift & 0x03)
		size = c >> sizeShift & 0x3fff
		typ  = c >> typeShift & 0xff
		nr   = c >> numberShift & 0xff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) %c 0x%02x", str, size, rune(typ), uintptr(nr))
}

// Encode an ioctl command.
func Encode(mode Mode, size uint16, typ, nr uintptr) Command {
	return Command(mode)<<modeShift | Command(size)<<sizeShift | Command(typ)<<typeShift | Command(nr)<<numberShift
}

// Pointer encodes a command whose argument is the value referenced by ref.
func Pointer(mode Mode, ref interface{}, typ, nr uintptr) Command {
	size := uint16(reflect.TypeOf(ref).Elem().Size())
	return Encode(mode, size, typ, nr)
}

// Do executes the ioctl call with a pointer argument.
func Do(fd uintptr, command Command, ptr interface{}) error {
	var p uintptr

	if ptr != nil {
		v := reflect.ValueOf(ptr)
		p = v.Pointer()
	}
	return Call(fd, uintptr(command), p)
}

// Call does a plain ioctl system call, retrying on EINTR and EAGAIN the way
// the drmIoctl wrapper does.
func Call(fd, command, arg uintptr) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, command, arg)
		switch errno {
		case 0:
			return nil
		case unix.EINTR, unix.EAGAIN:
			continue
		default:
			return &os.SyscallError{
				Syscall: Command(command).String(),
				Err:     errno,
			}
		}
	}
}

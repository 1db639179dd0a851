package xo8

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var ErrProgramDoesNotFitIntoMemory = errors.New("the program does not fit into memory")

const (
	// Memory4K is the classic Chip-8 memory size.
	Memory4K = 4096
	// Memory64K covers the full 16-bit address space addressable by XO-Chip programs.
	Memory64K = 65536
)

const (
	startOfFont    = 0x000
	startOfStack   = 0x52
	startOfProgram = 0x200
)

// Memory of the chip-8 machine.
// The font lives at the very bottom, the call stack grows upwards from
// 0x52, and programs load at 0x200 unless an offset says otherwise.
type Memory []byte

var characters = [16 * 5]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewMemory creates a 4K memory with the font already in place.
func NewMemory() Memory {
	return NewMemoryWithSize(Memory4K)
}

// NewMemoryWithSize creates a memory of the given size with the font
// already in place.
func NewMemoryWithSize(size int) Memory {
	mem := make(Memory, size)
	mem.loadCharactersInto()
	return mem
}

// LoadProgram copies the program into memory at the default program start.
func (mem Memory) LoadProgram(program []byte) error {
	return mem.LoadProgramAt(program, startOfProgram)
}

// LoadProgramAt copies the program into memory starting at offset.
// The font is rewritten as well, so a program that scribbled over it
// gets a clean slate on reload.
func (mem Memory) LoadProgramAt(program []byte, offset uint16) error {
	if len(program) > len(mem)-int(offset) {
		return fmt.Errorf("%w: max=%d got=%d", ErrProgramDoesNotFitIntoMemory, len(mem)-int(offset), len(program))
	}

	mem.loadCharactersInto()
	copy(mem[offset:], program)

	return nil
}

func (mem Memory) loadCharactersInto() {
	copy(mem[startOfFont:], characters[:])
}

// Clone returns a copy of the memory
func (mem Memory) Clone() Memory {
	clone := make(Memory, len(mem))
	copy(clone, mem)
	return clone
}

// IsEqual compares the memory to another one
func (mem Memory) IsEqual(other Memory) bool {
	return bytes.Equal(mem, other)
}

func (mem Memory) String() string {
	var sb strings.Builder

	for line := 0; line < len(mem)/16; line++ {
		sb.WriteString(fmt.Sprintf("%04X | ", line*16))
		for i := 0; i < 16; i++ {
			sb.WriteString(fmt.Sprintf("%02X ", mem[line*16+i]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

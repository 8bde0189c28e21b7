package cpu

import (
	"errors"
	"fmt"
)

// Computation codes: the a bit followed by the ALU control bits
// zx nx zy ny f no.
const (
	CompZero     uint16 = 0b0101010
	CompOne      uint16 = 0b0111111
	CompMinusOne uint16 = 0b0111010
	CompD        uint16 = 0b0001100
	CompA        uint16 = 0b0110000
	CompNotD     uint16 = 0b0001101
	CompNotA     uint16 = 0b0110001
	CompNegD     uint16 = 0b0001111
	CompNegA     uint16 = 0b0110011
	CompDPlus1   uint16 = 0b0011111
	CompAPlus1   uint16 = 0b0110111
	CompDMinus1  uint16 = 0b0001110
	CompAMinus1  uint16 = 0b0110010
	CompDPlusA   uint16 = 0b0000010
	CompDMinusA  uint16 = 0b0010011
	CompAMinusD  uint16 = 0b0000111
	CompDAndA    uint16 = 0b0000000
	CompDOrA     uint16 = 0b0010101
	CompM        uint16 = 0b1110000
	CompNotM     uint16 = 0b1110001
	CompNegM     uint16 = 0b1110011
	CompMPlus1   uint16 = 0b1110111
	CompMMinus1  uint16 = 0b1110010
	CompDPlusM   uint16 = 0b1000010
	CompDMinusM  uint16 = 0b1010011
	CompMMinusD  uint16 = 0b1000111
	CompDAndM    uint16 = 0b1000000
	CompDOrM     uint16 = 0b1010101
)

// Destination bits.
const (
	DestM uint16 = 1 << 0
	DestD uint16 = 1 << 1
	DestA uint16 = 1 << 2
)

// Jump conditions.
const (
	JumpNone uint16 = iota
	JGT
	JEQ
	JGE
	JLT
	JNE
	JLE
	JMP
)

// Memory map.
const (
	ROMSize    = 32768
	RAMSize    = 32768
	ScreenBase = 16384
	KBD        = 24576

	// MaxAddress is the largest value an A-instruction can load.
	MaxAddress = 0x7FFF
)

var ErrProgramTooLarge = errors.New("program does not fit in ROM")

// CPU is a Hack computer: a 16-bit machine with a data register D, an
// address register A and separate instruction and data memories.
type CPU struct {
	A  uint16
	D  uint16
	PC uint16

	ROM [ROMSize]uint16
	RAM [RAMSize]uint16

	// ProgramSize is the number of ROM words loaded; running past it halts.
	ProgramSize int

	Cycles uint64
	Halted bool
}

func NewCPU() *CPU {
	return &CPU{}
}

// Load copies program into ROM and resets the registers. RAM is left alone
// so callers may prepare it before or after loading.
func (c *CPU) Load(program []uint16) error {
	if len(program) > ROMSize {
		return fmt.Errorf("%w: %d words", ErrProgramTooLarge, len(program))
	}
	c.ROM = [ROMSize]uint16{}
	copy(c.ROM[:], program)
	c.ProgramSize = len(program)
	c.Reset()
	return nil
}

// Reset clears the registers and restarts execution at address 0.
func (c *CPU) Reset() {
	c.A, c.D, c.PC = 0, 0, 0
	c.Cycles = 0
	c.Halted = c.ProgramSize == 0
}

// Peek reads a RAM word as a signed value.
func (c *CPU) Peek(addr uint16) int16 {
	return int16(c.RAM[addr&MaxAddress])
}

// Poke writes a signed value into RAM.
func (c *CPU) Poke(addr uint16, val int16) {
	c.RAM[addr&MaxAddress] = uint16(val)
}

// SetKey publishes the currently pressed key in the keyboard register;
// 0 means no key.
func (c *CPU) SetKey(code uint16) {
	c.RAM[KBD] = code
}

func (c *CPU) writeMem(addr uint16, val uint16) {
	addr &= MaxAddress
	if addr == KBD {
		return
	}
	c.RAM[addr] = val
}

// alu applies the six Hack ALU control bits to x and y.
func alu(x, y, control uint16) uint16 {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}
	var out uint16
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0x01 != 0 {
		out = ^out
	}
	return out
}

func jumps(cond uint16, out uint16) bool {
	v := int16(out)
	return (cond&JLT == JLT && v < 0) ||
		(cond&JEQ == JEQ && v == 0) ||
		(cond&JGT == JGT && v > 0)
}

// Step executes one instruction.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if int(c.PC) >= c.ProgramSize {
		c.Halted = true
		return
	}

	instr := c.ROM[c.PC]
	c.Cycles++

	if instr&0x8000 == 0 {
		c.A = instr
		c.PC++
		return
	}

	comp := (instr >> 6) & 0x7F
	dest := (instr >> 3) & 0x07
	jump := instr & 0x07

	// M and jump targets use A as it was before this instruction.
	addr := c.A
	y := c.A
	if comp&0x40 != 0 {
		y = c.RAM[addr&MaxAddress]
	}
	out := alu(c.D, y, comp&0x3F)

	if dest&DestM != 0 {
		c.writeMem(addr, out)
	}
	if dest&DestA != 0 {
		c.A = out
	}
	if dest&DestD != 0 {
		c.D = out
	}

	if jumps(jump, out) {
		// "(END) @END 0;JMP" spins forever without changing state.
		if jump == JMP && dest == 0 && addr+1 == c.PC && c.ROM[addr] == addr {
			c.Halted = true
		}
		c.PC = addr
		return
	}
	c.PC++
}

// Run steps until the program halts.
func (c *CPU) Run() {
	for !c.Halted {
		c.Step()
	}
}

// RunFor steps at most maxCycles instructions and reports whether the
// program halted.
func (c *CPU) RunFor(maxCycles int) bool {
	for i := 0; i < maxCycles && !c.Halted; i++ {
		c.Step()
	}
	return c.Halted
}

// EncodeA builds an A-instruction loading value.
func EncodeA(value uint16) uint16 {
	return value & MaxAddress
}

// EncodeC builds a C-instruction from a 7-bit comp, 3-bit dest and 3-bit
// jump field.
func EncodeC(comp, dest, jump uint16) uint16 {
	return 0xE000 | (comp&0x7F)<<6 | (dest&0x07)<<3 | jump&0x07
}

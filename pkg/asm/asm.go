// Package asm assembles Hack assembly into machine words.
package asm

import (
	"fmt"
	"hackvm/pkg/cpu"
	"strconv"
	"strings"
	"unicode"
)

var compTable = map[string]uint16{
	"0":   cpu.CompZero,
	"1":   cpu.CompOne,
	"-1":  cpu.CompMinusOne,
	"D":   cpu.CompD,
	"A":   cpu.CompA,
	"!D":  cpu.CompNotD,
	"!A":  cpu.CompNotA,
	"-D":  cpu.CompNegD,
	"-A":  cpu.CompNegA,
	"D+1": cpu.CompDPlus1,
	"A+1": cpu.CompAPlus1,
	"D-1": cpu.CompDMinus1,
	"A-1": cpu.CompAMinus1,
	"D+A": cpu.CompDPlusA,
	"D-A": cpu.CompDMinusA,
	"A-D": cpu.CompAMinusD,
	"D&A": cpu.CompDAndA,
	"D|A": cpu.CompDOrA,
	"M":   cpu.CompM,
	"!M":  cpu.CompNotM,
	"-M":  cpu.CompNegM,
	"M+1": cpu.CompMPlus1,
	"M-1": cpu.CompMMinus1,
	"D+M": cpu.CompDPlusM,
	"D-M": cpu.CompDMinusM,
	"M-D": cpu.CompMMinusD,
	"D&M": cpu.CompDAndM,
	"D|M": cpu.CompDOrM,

	// Commutative spellings.
	"1+D": cpu.CompDPlus1,
	"1+A": cpu.CompAPlus1,
	"1+M": cpu.CompMPlus1,
	"A+D": cpu.CompDPlusA,
	"A&D": cpu.CompDAndA,
	"A|D": cpu.CompDOrA,
	"M+D": cpu.CompDPlusM,
	"M&D": cpu.CompDAndM,
	"M|D": cpu.CompDOrM,
}

var jumpTable = map[string]uint16{
	"JGT": cpu.JGT,
	"JEQ": cpu.JEQ,
	"JGE": cpu.JGE,
	"JLT": cpu.JLT,
	"JNE": cpu.JNE,
	"JLE": cpu.JLE,
	"JMP": cpu.JMP,
}

var predefined = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": cpu.ScreenBase,
	"KBD":    cpu.KBD,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined[fmt.Sprintf("R%d", i)] = uint16(i)
	}
}

// firstVariable is the RAM address given to the first user variable.
const firstVariable = 16

type Assembler struct {
	symbols map[string]uint16
	nextVar uint16
}

type lineKind int

const (
	lineEmpty lineKind = iota
	lineLabel
	lineA
	lineC
)

type parsedLine struct {
	lineNo int
	kind   lineKind
	symbol string // label name or A-instruction operand
	dest   string
	comp   string
	jump   string
}

func NewAssembler() *Assembler {
	symbols := make(map[string]uint16, len(predefined))
	for k, v := range predefined {
		symbols[k] = v
	}
	return &Assembler{
		symbols: symbols,
		nextVar: firstVariable,
	}
}

// Assemble returns the machine words of code and a map from ROM address to
// source line.
func Assemble(code string) ([]uint16, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]uint16, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	parsed := make([]parsedLine, 0, len(lines))
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, nil, err
		}
		if p.kind != lineEmpty {
			parsed = append(parsed, p)
		}
	}

	if err := a.pass1(parsed); err != nil {
		return nil, nil, err
	}
	return a.pass2(parsed)
}

// pass1 binds every label to the ROM address of the instruction after it.
func (a *Assembler) pass1(lines []parsedLine) error {
	labels := make(map[string]bool)
	var address uint32

	for _, p := range lines {
		if p.kind != lineLabel {
			address++
			if address > cpu.ROMSize {
				return fmt.Errorf("program too large near line %d", p.lineNo)
			}
			continue
		}
		if labels[p.symbol] {
			return fmt.Errorf("duplicate label '%s' on line %d", p.symbol, p.lineNo)
		}
		if _, reserved := predefined[p.symbol]; reserved {
			return fmt.Errorf("label '%s' on line %d redefines a predefined symbol", p.symbol, p.lineNo)
		}
		labels[p.symbol] = true
		a.symbols[p.symbol] = uint16(address)
	}
	return nil
}

func (a *Assembler) pass2(lines []parsedLine) ([]uint16, map[uint16]int, error) {
	program := make([]uint16, 0, len(lines))
	sourceMap := make(map[uint16]int)

	for _, p := range lines {
		switch p.kind {
		case lineLabel:
			continue

		case lineA:
			val, err := a.resolve(p.symbol, p.lineNo)
			if err != nil {
				return nil, nil, err
			}
			sourceMap[uint16(len(program))] = p.lineNo
			program = append(program, cpu.EncodeA(val))

		case lineC:
			instr, err := encodeC(p)
			if err != nil {
				return nil, nil, err
			}
			sourceMap[uint16(len(program))] = p.lineNo
			program = append(program, instr)
		}
	}

	return program, sourceMap, nil
}

// resolve returns the value of a numeric literal or symbol, allocating a
// new variable for unknown symbols.
func (a *Assembler) resolve(token string, lineNo int) (uint16, error) {
	if token[0] >= '0' && token[0] <= '9' {
		value, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid constant '%s' on line %d", token, lineNo)
		}
		if value > cpu.MaxAddress {
			return 0, fmt.Errorf("constant out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	if addr, ok := a.symbols[token]; ok {
		return addr, nil
	}
	if a.nextVar >= cpu.ScreenBase {
		return 0, fmt.Errorf("out of variable space at '%s' on line %d", token, lineNo)
	}
	addr := a.nextVar
	a.symbols[token] = addr
	a.nextVar++
	return addr, nil
}

func encodeC(p parsedLine) (uint16, error) {
	comp, ok := compTable[p.comp]
	if !ok {
		return 0, fmt.Errorf("unknown computation '%s' on line %d", p.comp, p.lineNo)
	}

	var dest uint16
	for _, r := range p.dest {
		var bit uint16
		switch r {
		case 'A':
			bit = cpu.DestA
		case 'D':
			bit = cpu.DestD
		case 'M':
			bit = cpu.DestM
		default:
			return 0, fmt.Errorf("invalid destination '%s' on line %d", p.dest, p.lineNo)
		}
		if dest&bit != 0 {
			return 0, fmt.Errorf("invalid destination '%s' on line %d", p.dest, p.lineNo)
		}
		dest |= bit
	}

	var jump uint16
	if p.jump != "" {
		jump, ok = jumpTable[p.jump]
		if !ok {
			return 0, fmt.Errorf("unknown jump '%s' on line %d", p.jump, p.lineNo)
		}
	}

	return cpu.EncodeC(comp, dest, jump), nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := stripComments(raw)
	line = strings.Join(strings.Fields(line), "")
	if line == "" {
		return p, nil
	}

	switch line[0] {
	case '(':
		if !strings.HasSuffix(line, ")") {
			return p, fmt.Errorf("unterminated label on line %d", lineNo)
		}
		name := line[1 : len(line)-1]
		if !isSymbol(name) {
			return p, fmt.Errorf("invalid label '%s' on line %d", name, lineNo)
		}
		p.kind = lineLabel
		p.symbol = name
		return p, nil

	case '@':
		operand := line[1:]
		if operand == "" {
			return p, fmt.Errorf("missing operand on line %d", lineNo)
		}
		if !isNumber(operand) && !isSymbol(operand) {
			return p, fmt.Errorf("invalid operand '%s' on line %d", operand, lineNo)
		}
		p.kind = lineA
		p.symbol = operand
		return p, nil
	}

	p.kind = lineC
	rest := line
	if eq := strings.IndexByte(rest, '='); eq >= 0 {
		p.dest = rest[:eq]
		rest = rest[eq+1:]
		if p.dest == "" {
			return p, fmt.Errorf("empty destination on line %d", lineNo)
		}
	}
	if semi := strings.IndexByte(rest, ';'); semi >= 0 {
		p.jump = rest[semi+1:]
		rest = rest[:semi]
		if p.jump == "" {
			return p, fmt.Errorf("empty jump on line %d", lineNo)
		}
	}
	p.comp = rest
	return p, nil
}

func stripComments(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// isSymbol reports whether s is a Hack symbol: letters, digits, and _ . $ :
// not starting with a digit.
func isSymbol(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_.$:", r) {
			return false
		}
	}

	return true
}

// Format renders words in the .hack text form, one 16-digit binary word per
// line.
func Format(words []uint16) string {
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "%016b\n", w)
	}
	return sb.String()
}

package translator

import "fmt"

// Op is an arithmetic or logical VM command.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpNeg
	OpEq
	OpGt
	OpLt
	OpAnd
	OpOr
	OpNot
)

type opShape int

const (
	shapeBinary opShape = iota
	shapeUnary
	shapeCompare
)

// opTemplate parameterizes the shared instruction shapes. For binary and
// unary ops operand is the comp field, for comparisons the jump condition.
type opTemplate struct {
	mnemonic string
	shape    opShape
	operand  string
}

var opTemplates = [...]opTemplate{
	OpAdd: {"add", shapeBinary, "D+M"},
	OpSub: {"sub", shapeBinary, "M-D"},
	OpAnd: {"and", shapeBinary, "D&M"},
	OpOr:  {"or", shapeBinary, "D|M"},
	OpNeg: {"neg", shapeUnary, "-M"},
	OpNot: {"not", shapeUnary, "!M"},
	OpEq:  {"eq", shapeCompare, "JEQ"},
	OpGt:  {"gt", shapeCompare, "JGT"},
	OpLt:  {"lt", shapeCompare, "JLT"},
}

func ParseOp(mnemonic string) (Op, error) {
	for op, tmpl := range opTemplates {
		if tmpl.mnemonic == mnemonic {
			return Op(op), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown arithmetic command %q", ErrMalformedCommand, mnemonic)
}

func (o Op) String() string {
	return opTemplates[o].mnemonic
}

func (o Op) Unary() bool {
	return opTemplates[o].shape == shapeUnary
}

func (o Op) Comparison() bool {
	return opTemplates[o].shape == shapeCompare
}

func (e *emitter) arithmetic(op Op) {
	tmpl := opTemplates[op]
	switch tmpl.shape {
	case shapeBinary:
		e.binary(tmpl.operand)
	case shapeUnary:
		e.unary(tmpl.operand)
	case shapeCompare:
		e.compare(tmpl.operand)
	}
}

// binary pops y into D, then combines it with x in place.
func (e *emitter) binary(comp string) {
	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M")
	e.line("@SP")
	e.line("AM=M-1")
	e.line("M=%s", comp)
	e.line("@SP")
	e.line("M=M+1")
}

func (e *emitter) unary(comp string) {
	e.line("@SP")
	e.line("AM=M-1")
	e.line("M=%s", comp)
	e.line("@SP")
	e.line("M=M+1")
}

// compare computes x-y and pushes -1 when jump holds for it, 0 otherwise.
func (e *emitter) compare(jump string) {
	e.ctx.comparisons++
	isTrue := fmt.Sprintf("IF_CONDITION.%d", e.ctx.comparisons)
	done := isTrue + ".FINAL"

	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M")
	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M-D")
	e.line("@%s", isTrue)
	e.line("D;%s", jump)
	e.line("@SP")
	e.line("A=M")
	e.line("M=0")
	e.line("@%s", done)
	e.line("0;JMP")
	e.line("(%s)", isTrue)
	e.line("@SP")
	e.line("A=M")
	e.line("M=-1")
	e.line("(%s)", done)
	e.line("@SP")
	e.line("M=M+1")
}

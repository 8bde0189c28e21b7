package translator

import "fmt"

// frameSize counts the words call saves: return address, LCL, ARG, THIS, THAT.
const frameSize = 5

// Registers used by return. frameReg holds the callee's LCL; returnReg the
// address to resume at.
const (
	frameReg  = "R13"
	returnReg = "R14"
)

// scopedLabel namespaces a label by the function that declares it.
func (e *emitter) scopedLabel(name string) string {
	return e.ctx.CurrentFunction() + "$" + name
}

func (e *emitter) label(name string) {
	e.line("(%s)", e.scopedLabel(name))
}

func (e *emitter) gotoLabel(name string) {
	e.line("@%s", e.scopedLabel(name))
	e.line("0;JMP")
}

func (e *emitter) ifGoto(name string) {
	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M")
	e.line("@%s", e.scopedLabel(name))
	e.line("D;JNE")
}

func (e *emitter) function(name string, locals int) {
	e.ctx.functions = append(e.ctx.functions, name)
	e.line("(%s)", name)
	for i := 0; i < locals; i++ {
		e.line("@0")
		e.line("D=A")
		e.pushD()
	}
}

func (e *emitter) call(name string, args int) {
	e.ctx.calls++
	ret := fmt.Sprintf("RETURN_ADDRESS.%d", e.ctx.calls)

	e.line("@%s", ret)
	e.line("D=A")
	e.pushD()
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		e.line("@%s", reg)
		e.line("D=M")
		e.pushD()
	}

	// ARG = SP - args - 5
	e.line("@SP")
	e.line("D=M")
	e.line("@%d", args+frameSize)
	e.line("D=D-A")
	e.line("@ARG")
	e.line("M=D")

	// LCL = SP
	e.line("@SP")
	e.line("D=M")
	e.line("@LCL")
	e.line("M=D")

	e.line("@%s", name)
	e.line("0;JMP")
	e.line("(%s)", ret)
}

// ret unwinds the frame. THAT and THIS are restored before ARG and LCL; the
// frame pointer is read from LCL and ARG addresses the return slot, so both
// must outlive the writes that depend on them.
func (e *emitter) ret() {
	e.line("@LCL")
	e.line("D=M")
	e.line("@%s", frameReg)
	e.line("M=D")

	e.line("@%d", frameSize)
	e.line("A=D-A")
	e.line("D=M")
	e.line("@%s", returnReg)
	e.line("M=D")

	// *ARG = pop()
	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M")
	e.line("@ARG")
	e.line("A=M")
	e.line("M=D")

	// SP = ARG + 1
	e.line("@ARG")
	e.line("D=M+1")
	e.line("@SP")
	e.line("M=D")

	for _, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		e.line("@%s", frameReg)
		e.line("AM=M-1")
		e.line("D=M")
		e.line("@%s", reg)
		e.line("M=D")
	}

	e.line("@%s", returnReg)
	e.line("A=M")
	e.line("0;JMP")
}

package translator

// scratch holds the destination address of a pop while the value is fetched.
const scratch = "R13"

func (e *emitter) memoryAccess(cmd Command) error {
	seg, err := ParseSegment(cmd.Arg1)
	if err != nil {
		return malformed(cmd, cmd.Kind.String()+" SEGMENT INDEX", "unknown segment %q", cmd.Arg1)
	}
	index, err := parseCount(cmd.Arg2)
	if err != nil {
		return malformed(cmd, cmd.Kind.String()+" SEGMENT INDEX", "%q is not a non-negative integer", cmd.Arg2)
	}

	if cmd.Kind == Pop && seg == Constant {
		return malformed(cmd, "pop SEGMENT INDEX", "cannot pop into the constant segment")
	}

	if cmd.Kind == Push {
		err = e.push(seg, index)
	} else {
		err = e.pop(seg, index)
	}
	if err != nil {
		return &CommandError{Line: cmd.Line, Text: cmd.Text, Err: err}
	}
	return nil
}

func (e *emitter) push(seg Segment, index int) error {
	switch seg {
	case Constant:
		e.line("@%d", index)
		e.line("D=A")
	case Static:
		e.line("@%s", staticSymbol(e.ctx.unit, index))
		e.line("D=M")
	case Pointer, Temp:
		base, _ := seg.fixedBase()
		e.line("@%d", base)
		e.line("D=A")
		e.line("@%d", index)
		e.line("A=D+A")
		e.line("D=M")
	default:
		reg, err := seg.RegisterAlias()
		if err != nil {
			return err
		}
		e.line("@%s", reg)
		e.line("D=M")
		e.line("@%d", index)
		e.line("A=D+A")
		e.line("D=M")
	}
	e.pushD()
	return nil
}

// pop resolves the destination first: computing it needs D, which would
// otherwise hold the popped value.
func (e *emitter) pop(seg Segment, index int) error {
	switch seg {
	case Static:
		e.line("@%s", staticSymbol(e.ctx.unit, index))
		e.line("D=A")
	case Pointer, Temp:
		base, _ := seg.fixedBase()
		e.line("@%d", base)
		e.line("D=A")
		e.line("@%d", index)
		e.line("D=D+A")
	default:
		reg, err := seg.RegisterAlias()
		if err != nil {
			return err
		}
		e.line("@%s", reg)
		e.line("D=M")
		e.line("@%d", index)
		e.line("D=D+A")
	}
	e.line("@%s", scratch)
	e.line("M=D")
	e.popToScratch()
	return nil
}

func (e *emitter) pushD() {
	e.line("@SP")
	e.line("A=M")
	e.line("M=D")
	e.line("@SP")
	e.line("M=M+1")
}

func (e *emitter) popToScratch() {
	e.line("@SP")
	e.line("AM=M-1")
	e.line("D=M")
	e.line("@%s", scratch)
	e.line("A=M")
	e.line("M=D")
}

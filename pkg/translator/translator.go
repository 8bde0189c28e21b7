// Package translator turns stack-machine VM commands into Hack assembly.
//
// Pipeline: source lines → Parse → Command list → Translator → assembly lines
package translator

import (
	"fmt"
	"io"
	"strings"
)

// rootFunction scopes labels that appear before any function declaration.
const rootFunction = "__root"

// Context is the mutable state threaded through one translation pass.
type Context struct {
	comparisons int
	calls       int
	functions   []string
	unit        string
}

func newContext(unit string) Context {
	return Context{
		functions: []string{rootFunction},
		unit:      unit,
	}
}

func (c Context) clone() Context {
	c.functions = append([]string(nil), c.functions...)
	return c
}

// CurrentFunction is the innermost function label scope.
func (c *Context) CurrentFunction() string {
	return c.functions[len(c.functions)-1]
}

func (c *Context) Unit() string {
	return c.unit
}

// Translator emits Hack assembly for the VM commands of one or more units.
// It is not safe for concurrent use; run one Translator per goroutine.
type Translator struct {
	ctx Context
	out []string

	// EmitComments precedes every command's instructions with a
	// "// <command>" line.
	EmitComments bool
}

// New returns a Translator whose statics are namespaced by unit.
func New(unit string) *Translator {
	return &Translator{ctx: newContext(unit)}
}

// SetUnit switches the static namespace for the commands that follow and
// restarts label scoping at a root owned by unit. Counters carry over so
// comparison and return labels stay unique in a combined output.
func (t *Translator) SetUnit(unit string) {
	t.ctx.unit = unit
	t.ctx.functions = []string{rootFunction + "." + unit}
}

func (t *Translator) Context() *Context {
	return &t.ctx
}

// Translate classifies lines and appends their instructions. On error nothing
// is appended and the context is left as it was.
func (t *Translator) Translate(lines []string) error {
	cmds, err := Parse(lines)
	if err != nil {
		return err
	}
	return t.TranslateCommands(cmds)
}

// TranslateCommands appends the instructions for already classified
// commands, with the same all-or-nothing behaviour as Translate.
func (t *Translator) TranslateCommands(cmds []Command) error {
	saved := t.ctx.clone()
	e := &emitter{ctx: &t.ctx}

	for _, cmd := range cmds {
		if t.EmitComments {
			e.line("// %s", cmd.Text)
		}
		if err := e.command(cmd); err != nil {
			t.ctx = saved
			return err
		}
	}

	t.out = append(t.out, e.out...)
	return nil
}

// Bootstrap appends the start-up sequence: SP=256, then call Sys.init.
func (t *Translator) Bootstrap() {
	e := &emitter{ctx: &t.ctx}
	if t.EmitComments {
		e.line("// bootstrap")
	}
	e.line("@256")
	e.line("D=A")
	e.line("@SP")
	e.line("M=D")
	e.call("Sys.init", 0)
	t.out = append(t.out, e.out...)
}

// Lines returns the instructions emitted so far.
func (t *Translator) Lines() []string {
	return t.out
}

func (t *Translator) String() string {
	var sb strings.Builder
	for _, l := range t.out {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes every instruction to w, one per line.
func (t *Translator) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// Translate is a convenience wrapper translating one unit in isolation.
func Translate(unit string, lines []string) ([]string, error) {
	t := New(unit)
	if err := t.Translate(lines); err != nil {
		return nil, err
	}
	return t.Lines(), nil
}

// emitter accumulates the instructions of one Translate call.
type emitter struct {
	ctx *Context
	out []string
}

func (e *emitter) line(format string, args ...any) {
	e.out = append(e.out, fmt.Sprintf(format, args...))
}

func (e *emitter) command(cmd Command) error {
	switch cmd.Kind {
	case Arithmetic:
		op, err := ParseOp(cmd.Arg1)
		if err != nil {
			return malformed(cmd, "an arithmetic mnemonic", "%v", err)
		}
		e.arithmetic(op)
	case Push, Pop:
		return e.memoryAccess(cmd)
	case Label:
		e.label(cmd.Arg1)
	case Goto:
		e.gotoLabel(cmd.Arg1)
	case IfGoto:
		e.ifGoto(cmd.Arg1)
	case Function:
		n, err := parseCount(cmd.Arg2)
		if err != nil {
			return malformed(cmd, "function NAME NLOCALS", "%q is not a non-negative integer", cmd.Arg2)
		}
		e.function(cmd.Arg1, n)
	case Call:
		n, err := parseCount(cmd.Arg2)
		if err != nil {
			return malformed(cmd, "call NAME NARGS", "%q is not a non-negative integer", cmd.Arg2)
		}
		e.call(cmd.Arg1, n)
	case Return:
		e.ret()
	default:
		return &CommandError{Line: cmd.Line, Text: cmd.Text, Err: fmt.Errorf("%w: command kind %v", ErrUnsupportedOperation, cmd.Kind)}
	}
	return nil
}

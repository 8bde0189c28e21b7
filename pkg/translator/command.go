package translator

import (
	"errors"
	"fmt"
)

// CommandKind is the class of a VM command, selected by its first token.
type CommandKind int

const (
	Arithmetic CommandKind = iota
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Return
	Call
)

var kindNames = [...]string{
	Arithmetic: "arithmetic",
	Push:       "push",
	Pop:        "pop",
	Label:      "label",
	Goto:       "goto",
	IfGoto:     "if-goto",
	Function:   "function",
	Return:     "return",
	Call:       "call",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
	return kindNames[k]
}

// Command is one classified VM command. For Arithmetic commands Arg1 holds
// the mnemonic.
type Command struct {
	Kind CommandKind
	Arg1 string
	Arg2 string

	Line int    // 1-based source line
	Text string // source text with the comment stripped
}

func (c Command) String() string {
	return c.Text
}

var (
	ErrMalformedCommand     = errors.New("malformed command")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// CommandError reports the offending source line of a failed translation.
type CommandError struct {
	Line     int
	Text     string
	Expected string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %q (expected %s)", e.Line, e.Err, e.Text, e.Expected)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func malformed(cmd Command, expected string, format string, args ...any) error {
	return &CommandError{
		Line:     cmd.Line,
		Text:     cmd.Text,
		Expected: expected,
		Err:      fmt.Errorf("%w: "+format, append([]any{ErrMalformedCommand}, args...)...),
	}
}

// StackEffect returns the net change of the stack pointer after cmd has
// executed. Call and return move whole frames and report ok=false.
func StackEffect(cmd Command) (delta int, ok bool) {
	switch cmd.Kind {
	case Push:
		return 1, true
	case Pop, IfGoto:
		return -1, true
	case Label, Goto:
		return 0, true
	case Function:
		n, err := parseCount(cmd.Arg2)
		if err != nil {
			return 0, false
		}
		return n, true
	case Arithmetic:
		op, err := ParseOp(cmd.Arg1)
		if err != nil {
			return 0, false
		}
		if op.Unary() {
			return 0, true
		}
		return -1, true
	}
	return 0, false
}

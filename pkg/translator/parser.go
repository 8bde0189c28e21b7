package translator

import (
	"strconv"
	"strings"
)

type grammar struct {
	kind  CommandKind
	arity int
	usage string
}

var mnemonics = map[string]grammar{
	"add":      {Arithmetic, 0, "add"},
	"sub":      {Arithmetic, 0, "sub"},
	"neg":      {Arithmetic, 0, "neg"},
	"eq":       {Arithmetic, 0, "eq"},
	"gt":       {Arithmetic, 0, "gt"},
	"lt":       {Arithmetic, 0, "lt"},
	"and":      {Arithmetic, 0, "and"},
	"or":       {Arithmetic, 0, "or"},
	"not":      {Arithmetic, 0, "not"},
	"push":     {Push, 2, "push SEGMENT INDEX"},
	"pop":      {Pop, 2, "pop SEGMENT INDEX"},
	"label":    {Label, 1, "label NAME"},
	"goto":     {Goto, 1, "goto NAME"},
	"if-goto":  {IfGoto, 1, "if-goto NAME"},
	"function": {Function, 2, "function NAME NLOCALS"},
	"call":     {Call, 2, "call NAME NARGS"},
	"return":   {Return, 0, "return"},
}

// Parse classifies every line of a translation unit. Comment and blank lines
// are dropped. The first malformed line aborts the whole parse.
func Parse(lines []string) ([]Command, error) {
	cmds := make([]Command, 0, len(lines))
	for i, raw := range lines {
		cmd, ok, err := ParseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// ParseLine classifies a single source line. ok is false for lines that hold
// nothing but whitespace or a comment.
func ParseLine(raw string, lineNo int) (cmd Command, ok bool, err error) {
	line := stripComment(raw)
	if line == "" {
		return Command{}, false, nil
	}

	cmd = Command{Line: lineNo, Text: line}
	fields := strings.Fields(line)

	g, known := mnemonics[fields[0]]
	if !known {
		return Command{}, false, malformed(cmd, "a VM command", "unknown mnemonic %q", fields[0])
	}
	cmd.Kind = g.kind

	args := fields[1:]
	if len(args) != g.arity {
		return Command{}, false, malformed(cmd, g.usage, "%s takes %d argument(s), got %d", fields[0], g.arity, len(args))
	}

	switch g.kind {
	case Arithmetic:
		cmd.Arg1 = fields[0]
	case Push, Pop, Function, Call:
		cmd.Arg1, cmd.Arg2 = args[0], args[1]
		if _, err := parseCount(cmd.Arg2); err != nil {
			return Command{}, false, malformed(cmd, g.usage, "%q is not a non-negative integer", cmd.Arg2)
		}
	case Label, Goto, IfGoto:
		cmd.Arg1 = args[0]
	}

	switch g.kind {
	case Label, Goto, IfGoto, Function, Call:
		if !isIdentifier(cmd.Arg1) {
			return Command{}, false, malformed(cmd, g.usage, "%q is not a valid name", cmd.Arg1)
		}
	}

	return cmd, true, nil
}

func stripComment(raw string) string {
	if i := strings.Index(raw, "//"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func parseCount(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 15)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// isIdentifier accepts letters, digits, '_', '.', '$' and ':', not starting
// with a digit. These are the characters a Hack symbol may hold.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '_' || r == '.' || r == '$' || r == ':':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

package translator

import "fmt"

// Segment is a VM memory segment.
type Segment int

const (
	Argument Segment = iota
	Local
	Static
	Constant
	This
	That
	Pointer
	Temp
)

const (
	pointerBase = 3
	tempBase    = 5
)

var segmentNames = map[string]Segment{
	"argument": Argument,
	"local":    Local,
	"static":   Static,
	"constant": Constant,
	"this":     This,
	"that":     That,
	"pointer":  Pointer,
	"temp":     Temp,
}

func ParseSegment(name string) (Segment, error) {
	s, ok := segmentNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown segment %q", ErrMalformedCommand, name)
	}
	return s, nil
}

var segmentStrings = [...]string{
	Argument: "argument",
	Local:    "local",
	Static:   "static",
	Constant: "constant",
	This:     "this",
	That:     "that",
	Pointer:  "pointer",
	Temp:     "temp",
}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentStrings) {
		return fmt.Sprintf("Segment(%d)", int(s))
	}
	return segmentStrings[s]
}

// RegisterAlias names the register holding the segment's base address. Only
// local, argument, this and that have one.
func (s Segment) RegisterAlias() (string, error) {
	switch s {
	case Local:
		return "LCL", nil
	case Argument:
		return "ARG", nil
	case This:
		return "THIS", nil
	case That:
		return "THAT", nil
	}
	return "", fmt.Errorf("%w: segment %s has no base register", ErrUnsupportedOperation, s)
}

// fixedBase returns the RAM address of index 0 for directly addressed
// segments.
func (s Segment) fixedBase() (int, bool) {
	switch s {
	case Pointer:
		return pointerBase, true
	case Temp:
		return tempBase, true
	}
	return 0, false
}

// staticSymbol is the per-unit variable name of static slot index.
func staticSymbol(unit string, index int) string {
	return fmt.Sprintf("%s.%d", unit, index)
}

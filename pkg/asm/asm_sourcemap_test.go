package asm

import (
	"testing"
)

func TestAssembleSourceMap(t *testing.T) {
	code := `
// Line 2: Comment
@10         // Line 3: ROM 0
            // Line 4: Empty
(LOOP)      // Line 5: Label
D=D-1       // Line 6: ROM 1, also where LOOP points
@LOOP       // Line 7: ROM 2
D;JGT       // Line 8: ROM 3
`

	_, sourceMap, err := Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	tests := []struct {
		addr uint16
		line int
	}{
		{0, 3},
		{1, 6},
		{2, 7},
		{3, 8},
	}

	if len(sourceMap) != len(tests) {
		t.Errorf("len(sourceMap) = %d; want %d", len(sourceMap), len(tests))
	}
	for _, tc := range tests {
		if got := sourceMap[tc.addr]; got != tc.line {
			t.Errorf("sourceMap[%d] = %d; want %d", tc.addr, got, tc.line)
		}
	}
}

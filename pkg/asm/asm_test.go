package asm

import (
	"hackvm/pkg/cpu"
	"reflect"
	"strings"
	"testing"
)

func TestHelperFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"abc", true},
		{"_abc", true},
		{"Main.fib$LOOP", true},
		{"a:b", true},
		{"abc1", true},
		{"1abc", false},
		{"", false},
		{"ab-c", false},
	}
	for _, tc := range tests {
		if got := isSymbol(tc.input); got != tc.want {
			t.Errorf("isSymbol(%q) = %v; want %v", tc.input, got, tc.want)
		}
	}

	for _, s := range []string{"0", "123", "32767"} {
		if !isNumber(s) {
			t.Errorf("isNumber(%q) = false; want true", s)
		}
	}
	for _, s := range []string{"", "-1", "1a"} {
		if isNumber(s) {
			t.Errorf("isNumber(%q) = true; want false", s)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    parsedLine
		wantErr bool
	}{
		{"@17", parsedLine{lineNo: 1, kind: lineA, symbol: "17"}, false},
		{"  @LOOP // comment", parsedLine{lineNo: 1, kind: lineA, symbol: "LOOP"}, false},
		{"(END)", parsedLine{lineNo: 1, kind: lineLabel, symbol: "END"}, false},
		{"D=M", parsedLine{lineNo: 1, kind: lineC, dest: "D", comp: "M"}, false},
		{"AM=M-1", parsedLine{lineNo: 1, kind: lineC, dest: "AM", comp: "M-1"}, false},
		{"0;JMP", parsedLine{lineNo: 1, kind: lineC, comp: "0", jump: "JMP"}, false},
		{"D = D - A ; JGT", parsedLine{lineNo: 1, kind: lineC, dest: "D", comp: "D-A", jump: "JGT"}, false},
		{"// only a comment", parsedLine{lineNo: 1, kind: lineEmpty}, false},
		{"", parsedLine{lineNo: 1, kind: lineEmpty}, false},
		// Invalid cases
		{"@", parsedLine{lineNo: 1}, true},
		{"@1abc", parsedLine{lineNo: 1}, true},
		{"(END", parsedLine{lineNo: 1}, true},
		{"(1X)", parsedLine{lineNo: 1}, true},
		{"=M", parsedLine{lineNo: 1}, true},
		{"D;", parsedLine{lineNo: 1}, true},
	}

	for _, tc := range tests {
		got, err := parseLine(tc.line, 1)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseLine(%q) error = %v, wantErr %v", tc.line, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseLine(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    []uint16
		wantErr bool
	}{
		{
			"Add two constants",
			`
			@2
			D=A
			@3
			D=D+A
			@0
			M=D
			`,
			[]uint16{
				0b0000000000000010,
				0b1110110000010000,
				0b0000000000000011,
				0b1110000010010000,
				0b0000000000000000,
				0b1110001100001000,
			},
			false,
		},
		{
			"Labels and Jumps",
			// (LOOP) binds to address 1.
			`
			@5
			(LOOP)
			D=D-1
			@LOOP
			D;JGT
			`,
			[]uint16{
				5,
				cpu.EncodeC(cpu.CompDMinus1, cpu.DestD, cpu.JumpNone),
				1,
				cpu.EncodeC(cpu.CompD, 0, cpu.JGT),
			},
			false,
		},
		{
			"Predefined symbols",
			`
			@SP
			@LCL
			@ARG
			@THIS
			@THAT
			@R13
			@SCREEN
			@KBD
			`,
			[]uint16{0, 1, 2, 3, 4, 13, cpu.ScreenBase, cpu.KBD},
			false,
		},
		{
			"Variables from 16",
			`
			@i
			@sum
			@i
			`,
			[]uint16{16, 17, 16},
			false,
		},
		{
			"Forward label is not a variable",
			`
			@END
			0;JMP
			(END)
			@x
			`,
			[]uint16{2, cpu.EncodeC(cpu.CompZero, 0, cpu.JMP), 16},
			false,
		},
		{
			"Commutative spelling",
			"M=M+D\nM=D+M",
			[]uint16{
				cpu.EncodeC(cpu.CompDPlusM, cpu.DestM, cpu.JumpNone),
				cpu.EncodeC(cpu.CompDPlusM, cpu.DestM, cpu.JumpNone),
			},
			false,
		},
		{"Duplicate label", "(A)\n(A)\n@0", nil, true},
		{"Predefined label", "(SP)\n@0", nil, true},
		{"Constant out of range", "@32768", nil, true},
		{"Unknown computation", "D=D*A", nil, true},
		{"Unknown jump", "0;JMPX", nil, true},
		{"Repeated destination", "DD=A", nil, true},
		{"Bad destination", "X=A", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Assemble(tc.code)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Assemble() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Assemble() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssembleErrorsNameTheLine(t *testing.T) {
	_, _, err := Assemble("@0\nD=A\nD=Q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name line 3", err)
	}
}

func TestCompTableRoundTrip(t *testing.T) {
	// Every computation must encode and decode back to the same 7 bits.
	for comp, bits := range compTable {
		word := cpu.EncodeC(bits, cpu.DestD, cpu.JumpNone)
		if got := (word >> 6) & 0x7F; got != bits {
			t.Errorf("comp %q round-trips to %07b, want %07b", comp, got, bits)
		}
	}
}

func TestAssemblerIsStateful(t *testing.T) {
	a := NewAssembler()
	if _, _, err := a.Assemble("@x\n@y"); err != nil {
		t.Fatal(err)
	}
	got, _, err := a.Assemble("@z\n@x")
	if err != nil {
		t.Fatal(err)
	}
	if want := []uint16{18, 16}; !reflect.DeepEqual(got, want) {
		t.Errorf("second Assemble = %v, want %v", got, want)
	}
}

func TestFormat(t *testing.T) {
	got := Format([]uint16{0, 0xEC10})
	want := "0000000000000000\n1110110000010000\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

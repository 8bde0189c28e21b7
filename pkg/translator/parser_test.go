package translator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StripsCommentsAndBlankLines(t *testing.T) {
	lines := []string{
		"//this is comment line",
		"push constant 7 // here also comment",
		"",
		"   \t  ",
		"   add    //whitespace should be trimmed",
	}

	cmds, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, Command{Kind: Push, Arg1: "constant", Arg2: "7", Line: 2, Text: "push constant 7"}, cmds[0])
	assert.Equal(t, Command{Kind: Arithmetic, Arg1: "add", Line: 5, Text: "add"}, cmds[1])
}

func TestParseLine_Kinds(t *testing.T) {
	tests := []struct {
		line string
		kind CommandKind
		arg1 string
		arg2 string
	}{
		{"add", Arithmetic, "add", ""},
		{"sub", Arithmetic, "sub", ""},
		{"neg", Arithmetic, "neg", ""},
		{"eq", Arithmetic, "eq", ""},
		{"gt", Arithmetic, "gt", ""},
		{"lt", Arithmetic, "lt", ""},
		{"and", Arithmetic, "and", ""},
		{"or", Arithmetic, "or", ""},
		{"not", Arithmetic, "not", ""},
		{"push local 2", Push, "local", "2"},
		{"pop  that\t5", Pop, "that", "5"},
		{"label LOOP_START", Label, "LOOP_START", ""},
		{"goto END", Goto, "END", ""},
		{"if-goto LOOP_START", IfGoto, "LOOP_START", ""},
		{"function Main.fibonacci 3", Function, "Main.fibonacci", "3"},
		{"call Math.multiply 2", Call, "Math.multiply", "2"},
		{"return", Return, "", ""},
	}

	for _, tc := range tests {
		cmd, ok, err := ParseLine(tc.line, 1)
		require.NoError(t, err, tc.line)
		require.True(t, ok, tc.line)
		assert.Equal(t, tc.kind, cmd.Kind, tc.line)
		assert.Equal(t, tc.arg1, cmd.Arg1, tc.line)
		assert.Equal(t, tc.arg2, cmd.Arg2, tc.line)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []string{
		"foo bar",
		"foo",
		"Add",
		"push constant",
		"push constant 1 2",
		"pop local x",
		"push local -1",
		"label",
		"goto A B",
		"function Foo",
		"function Foo many",
		"call Foo -2",
		"return 1",
		"add 1",
		"push constant 99999",
		"label 9x",
		"goto a-b",
		"if-goto 1LOOP",
		"function 2Main.f 0",
		"call Main#f 1",
	}

	for _, line := range tests {
		_, _, err := ParseLine(line, 7)
		require.Error(t, err, line)
		assert.True(t, errors.Is(err, ErrMalformedCommand), "%q: %v", line, err)

		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr), line)
		assert.Equal(t, 7, cmdErr.Line)
	}
}

func TestParse_AbortsOnFirstMalformedLine(t *testing.T) {
	cmds, err := Parse([]string{"push constant 1", "foo bar", "add"})
	assert.Nil(t, cmds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `"foo"`)
}

func TestParseLine_CommentOnly(t *testing.T) {
	_, ok, err := ParseLine("   // push constant 1", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "if-goto", IfGoto.String())
	assert.Equal(t, "CommandKind(42)", CommandKind(42).String())
}

func TestStackEffect(t *testing.T) {
	tests := []struct {
		line  string
		delta int
		ok    bool
	}{
		{"push constant 1", 1, true},
		{"pop local 0", -1, true},
		{"add", -1, true},
		{"eq", -1, true},
		{"neg", 0, true},
		{"not", 0, true},
		{"label X", 0, true},
		{"goto X", 0, true},
		{"if-goto X", -1, true},
		{"function F 3", 3, true},
		{"call F 2", 0, false},
		{"return", 0, false},
	}

	for _, tc := range tests {
		cmd, _, err := ParseLine(tc.line, 1)
		require.NoError(t, err)
		delta, ok := StackEffect(cmd)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.delta, delta, tc.line)
	}
}

package cli

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint16
		ok   bool
	}{
		{[]byte("a"), 'a', true},
		{[]byte("Z"), 'Z', true},
		{[]byte(" "), ' ', true},
		{[]byte("\r"), keyNewline, true},
		{[]byte("\n"), keyNewline, true},
		{[]byte{0x7F}, keyBackspace, true},
		{[]byte{0x1B}, keyEscape, true},
		{[]byte("\x1b[A"), keyUp, true},
		{[]byte("\x1b[B"), keyDown, true},
		{[]byte("\x1b[C"), keyRight, true},
		{[]byte("\x1b[D"), keyLeft, true},
		{[]byte("\x1b[Z"), 0, false},
		{[]byte{0x03}, 0, false},
		{nil, 0, false},
	}

	for _, tc := range tests {
		got, ok := decodeKey(tc.in)
		assert.Equal(t, tc.ok, ok, "%q", tc.in)
		assert.Equal(t, tc.want, got, "%q", tc.in)
	}
}

func TestTerminalKeys_Current(t *testing.T) {
	k := &terminalKeys{}
	assert.Equal(t, uint16(0), k.Current())

	k.key.Store('x')
	k.at.Store(time.Now().UnixNano())
	assert.Equal(t, uint16('x'), k.Current())

	k.at.Store(time.Now().Add(-2 * keyHold).UnixNano())
	assert.Equal(t, uint16(0), k.Current())

	assert.False(t, k.Quit())
	k.quit.Store(true)
	assert.True(t, k.Quit())
}

func TestTerminalKeys_ReaderExitsAfterStop(t *testing.T) {
	k := &terminalKeys{done: make(chan struct{})}
	r, w := io.Pipe()
	go k.read(r)

	_, err := w.Write([]byte("a"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return k.Current() == 'a' }, time.Second, time.Millisecond)

	k.Stop()
	_, err = w.Write([]byte("b"))
	require.NoError(t, err)

	select {
	case <-k.done:
	case <-time.After(time.Second):
		t.Fatal("reader still running after Stop")
	}
	assert.Equal(t, uint32('a'), k.key.Load())
	assert.False(t, k.Quit())
}

func TestTerminalKeys_CtrlCQuits(t *testing.T) {
	k := &terminalKeys{done: make(chan struct{})}
	r, w := io.Pipe()
	go k.read(r)

	_, err := w.Write([]byte{0x03})
	require.NoError(t, err)
	<-k.done
	assert.True(t, k.Quit())
}

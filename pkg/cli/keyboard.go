package cli

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// Hack keyboard codes for keys without a printable character.
const (
	keyNewline   = 128
	keyBackspace = 129
	keyLeft      = 130
	keyUp        = 131
	keyRight     = 132
	keyDown      = 133
	keyEscape    = 140
)

// keyHold is how long a key counts as pressed after its byte arrives; a
// terminal reports presses but never releases.
const keyHold = 120 * time.Millisecond

// terminalKeys reads raw stdin and tracks the most recent key.
type terminalKeys struct {
	fd       int
	oldState *term.State
	key      atomic.Uint32
	at       atomic.Int64
	quit     atomic.Bool
	stopped  atomic.Bool
	done     chan struct{}
}

func startTerminalKeys(in *os.File) (*terminalKeys, error) {
	k := &terminalKeys{fd: int(in.Fd()), done: make(chan struct{})}
	if !term.IsTerminal(k.fd) {
		return nil, fmt.Errorf("interactive mode needs a terminal on stdin")
	}

	// Raw mode disables echo and line buffering.
	oldState, err := term.MakeRaw(k.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	k.oldState = oldState

	go k.read(in)
	return k, nil
}

// read runs until in fails, Ctrl-C arrives or a read completes after Stop.
// A read already blocked on a terminal cannot be interrupted, so after Stop
// the goroutine lingers until the next byte or EOF; its input is discarded.
func (k *terminalKeys) read(in io.Reader) {
	defer close(k.done)
	buf := make([]byte, 8)
	for {
		n, err := in.Read(buf)
		if k.stopped.Load() {
			return
		}
		if err != nil {
			k.quit.Store(true)
			return
		}
		if code, ok := decodeKey(buf[:n]); ok {
			k.key.Store(uint32(code))
			k.at.Store(time.Now().UnixNano())
		}
		if n == 1 && buf[0] == 0x03 {
			k.quit.Store(true)
			return
		}
	}
}

// decodeKey maps a chunk of terminal input to a Hack key code.
func decodeKey(b []byte) (uint16, bool) {
	if len(b) == 0 {
		return 0, false
	}
	if len(b) >= 3 && b[0] == 0x1B && b[1] == '[' {
		switch b[2] {
		case 'A':
			return keyUp, true
		case 'B':
			return keyDown, true
		case 'C':
			return keyRight, true
		case 'D':
			return keyLeft, true
		}
		return 0, false
	}
	switch c := b[0]; {
	case c == '\r' || c == '\n':
		return keyNewline, true
	case c == 0x7F || c == 0x08:
		return keyBackspace, true
	case c == 0x1B:
		return keyEscape, true
	case c >= 0x20 && c < 0x7F:
		return uint16(c), true
	}
	return 0, false
}

// Current returns the key to publish in KBD now.
func (k *terminalKeys) Current() uint16 {
	if time.Since(time.Unix(0, k.at.Load())) > keyHold {
		return 0
	}
	return uint16(k.key.Load())
}

func (k *terminalKeys) Quit() bool {
	return k.quit.Load()
}

// Stop restores the terminal state and tells the reader to exit.
func (k *terminalKeys) Stop() {
	k.stopped.Store(true)
	if k.oldState != nil {
		_ = term.Restore(k.fd, k.oldState)
		k.oldState = nil
	}
}

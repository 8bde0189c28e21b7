// Package script drives a Hack emulator from Lua test scripts.
//
// Scripts see these globals:
//
//	set(addr, value)    write RAM
//	get(addr)           read RAM as a signed value
//	reg(name)           read "A", "D" or "PC"
//	run(cycles)         execute up to cycles instructions, returns halted
//	expect(addr, value) raise an error unless RAM[addr] == value
//	print(...)          write to the script output
package script

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"hackvm/pkg/cpu"
)

// Run executes src against c, writing print output to out.
func Run(c *cpu.CPU, src string, out io.Writer) error {
	L := lua.NewState()
	defer L.Close()

	h := &host{cpu: c, out: out}
	h.register(L)

	if err := L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

type host struct {
	cpu *cpu.CPU
	out io.Writer
}

func (h *host) register(L *lua.LState) {
	L.SetGlobal("set", L.NewFunction(h.set))
	L.SetGlobal("get", L.NewFunction(h.get))
	L.SetGlobal("reg", L.NewFunction(h.reg))
	L.SetGlobal("run", L.NewFunction(h.run))
	L.SetGlobal("expect", L.NewFunction(h.expect))
	L.SetGlobal("print", L.NewFunction(h.print))
}

func checkAddress(L *lua.LState, n int) uint16 {
	addr := L.CheckInt(n)
	if addr < 0 || addr > cpu.MaxAddress {
		L.ArgError(n, fmt.Sprintf("address %d out of range", addr))
	}
	return uint16(addr)
}

func (h *host) set(L *lua.LState) int {
	addr := checkAddress(L, 1)
	h.cpu.Poke(addr, int16(L.CheckInt(2)))
	return 0
}

func (h *host) get(L *lua.LState) int {
	addr := checkAddress(L, 1)
	L.Push(lua.LNumber(h.cpu.Peek(addr)))
	return 1
}

func (h *host) reg(L *lua.LState) int {
	var v uint16
	switch strings.ToUpper(L.CheckString(1)) {
	case "A":
		v = h.cpu.A
	case "D":
		v = h.cpu.D
	case "PC":
		v = h.cpu.PC
	default:
		L.ArgError(1, "register must be A, D or PC")
	}
	L.Push(lua.LNumber(int16(v)))
	return 1
}

func (h *host) run(L *lua.LState) int {
	cycles := L.CheckInt(1)
	L.Push(lua.LBool(h.cpu.RunFor(cycles)))
	return 1
}

func (h *host) expect(L *lua.LState) int {
	addr := checkAddress(L, 1)
	want := int16(L.CheckInt(2))
	if got := h.cpu.Peek(addr); got != want {
		L.RaiseError("RAM[%d] = %d, want %d", addr, got, want)
	}
	return 0
}

func (h *host) print(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

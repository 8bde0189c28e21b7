package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"hackvm/pkg/cpu"
	"hackvm/pkg/toolchain"
	"hackvm/pkg/utils"
)

const statusHeight = 16

// specialKeys maps non-printing keys to Hack keyboard codes.
var specialKeys = map[ebiten.Key]uint16{
	ebiten.KeyEnter:       128,
	ebiten.KeyNumpadEnter: 128,
	ebiten.KeyBackspace:   129,
	ebiten.KeyArrowLeft:   130,
	ebiten.KeyArrowUp:     131,
	ebiten.KeyArrowRight:  132,
	ebiten.KeyArrowDown:   133,
	ebiten.KeyHome:        134,
	ebiten.KeyEnd:         135,
	ebiten.KeyPageUp:      136,
	ebiten.KeyPageDown:    137,
	ebiten.KeyInsert:      138,
	ebiten.KeyDelete:      139,
	ebiten.KeyEscape:      140,
	ebiten.KeyF1:          141,
	ebiten.KeyF2:          142,
	ebiten.KeyF3:          143,
	ebiten.KeyF4:          144,
	ebiten.KeyF5:          145,
	ebiten.KeyF6:          146,
	ebiten.KeyF7:          147,
	ebiten.KeyF8:          148,
	ebiten.KeyF9:          149,
	ebiten.KeyF10:         150,
	ebiten.KeyF11:         151,
	ebiten.KeyF12:         152,
}

type Game struct {
	vm          *cpu.CPU
	screenImg   *ebiten.Image // reused 512×256 canvas
	cyclesFrame int
	lastChar    uint16
	paused      bool
}

// currentKey returns the Hack code of the key held this frame, or 0.
func (g *Game) currentKey() uint16 {
	for k, code := range specialKeys {
		if ebiten.IsKeyPressed(k) {
			return code
		}
	}
	if chars := ebiten.AppendInputChars(nil); len(chars) > 0 {
		g.lastChar = uint16(chars[len(chars)-1])
	}
	if len(inpututil.AppendPressedKeys(nil)) == 0 {
		g.lastChar = 0
	}
	return g.lastChar
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyPause) {
		g.paused = !g.paused
	}
	g.vm.SetKey(g.currentKey())

	if g.paused {
		return nil
	}
	for i := 0; i < g.cyclesFrame; i++ {
		// Break early once the program has finished.
		if g.vm.Halted {
			break
		}
		g.vm.Step()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(cpu.ScreenWidth, cpu.ScreenHeight)
	}
	g.screenImg.WritePixels(g.vm.GetFramebufferRGBA())
	screen.DrawImage(g.screenImg, nil)

	state := "running"
	switch {
	case g.vm.Halted:
		state = "halted"
	case g.paused:
		state = "paused"
	}
	status := fmt.Sprintf("%s  PC=%d  SP=%d  KBD=%d  cycles=%d", state, g.vm.PC, g.vm.RAM[0], g.vm.RAM[cpu.KBD], g.vm.Cycles)
	text.Draw(screen, status, basicfont.Face7x13, 4, cpu.ScreenHeight+statusHeight-4, color.RGBA{190, 190, 190, 255})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.ScreenWidth, cpu.ScreenHeight + statusHeight
}

func main() {
	cyclesFrame := flag.Int("cycles", 50000, "instructions executed per frame")
	showAsm := flag.Bool("show-asm", false, "print the generated assembly")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: desktop [options] <file.vm | dir | file.asm>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	fullPath, _, err := utils.GetPathInfo(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to resolve %s: %v", flag.Arg(0), err)
	}

	asm, program, err := toolchain.Compile(fullPath, toolchain.Options{Bootstrap: toolchain.BootstrapAuto})
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}
	if *showAsm {
		print("Generated Assembly:\n", *asm, "\n")
	}

	vm := cpu.NewCPU()
	if err := vm.Load(program); err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	// Programs built without start-up code still need a stack.
	if vm.RAM[0] == 0 {
		vm.RAM[0] = 256
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cpu.ScreenWidth*2, (cpu.ScreenHeight+statusHeight)*2)
	ebiten.SetWindowTitle("Hack Desktop")

	game := &Game{vm: vm, cyclesFrame: *cyclesFrame}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

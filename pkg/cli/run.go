package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hackvm/pkg/cpu"
	"hackvm/pkg/script"
	"hackvm/pkg/toolchain"
)

var (
	runCycles   int
	runScript   string
	runDumps    []string
	runStack    uint16
	interactive bool
	snapshotOut string
	restoreFrom string
	screenshot  string
	showAsm     bool
)

// sliceCycles is how many instructions run between keyboard polls in
// interactive mode.
const sliceCycles = 20000

var RunCmd = &cobra.Command{
	Use:   "run [file.vm | dir | file.asm]",
	Short: "Build a program and execute it on the Hack emulator",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && restoreFrom == "" {
			return fmt.Errorf("nothing to do: provide a program path or --restore <snapshot>")
		}
		if len(args) == 1 && restoreFrom != "" {
			return fmt.Errorf("use either a program path or --restore, not both")
		}

		vm := cpu.NewCPU()
		if restoreFrom != "" {
			if err := vm.RestoreFromFile(restoreFrom); err != nil {
				return fmt.Errorf("restore %s: %w", restoreFrom, err)
			}
			log.Printf("restored %s at PC=%d", restoreFrom, vm.PC)
		} else {
			if err := loadProgram(cmd.OutOrStdout(), vm, args[0]); err != nil {
				return err
			}
		}

		if err := execute(cmd.OutOrStdout(), vm); err != nil {
			return err
		}
		log.Printf("ran %d cycles, halted=%v", vm.Cycles, vm.Halted)

		for _, d := range runDumps {
			if err := dumpRAM(cmd.OutOrStdout(), vm, d); err != nil {
				return err
			}
		}
		if screenshot != "" {
			if err := vm.SaveScreenshot(screenshot); err != nil {
				return fmt.Errorf("screenshot: %w", err)
			}
		}
		if snapshotOut != "" {
			if err := vm.HibernateToFile(snapshotOut); err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
		}
		return nil
	},
}

func loadProgram(out io.Writer, vm *cpu.CPU, path string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	assembly, program, err := toolchain.Compile(path, opts)
	if err != nil {
		return err
	}
	if showAsm {
		fmt.Fprintf(out, "Generated Assembly:\n%s\n", *assembly)
	}
	if err := vm.Load(program); err != nil {
		return err
	}
	log.Printf("loaded %d words from %s", len(program), path)

	if runStack != 0 {
		vm.RAM[0] = runStack
	}
	return nil
}

func execute(out io.Writer, vm *cpu.CPU) error {
	if runScript != "" {
		src, err := os.ReadFile(runScript)
		if err != nil {
			return err
		}
		return script.Run(vm, string(src), out)
	}

	if !interactive {
		if !vm.RunFor(runCycles) {
			fmt.Fprintf(out, "stopped after %d cycles without halting (PC=%d)\n", runCycles, vm.PC)
		}
		return nil
	}

	keys, err := startTerminalKeys(os.Stdin)
	if err != nil {
		return err
	}
	defer keys.Stop()

	for !vm.Halted && !keys.Quit() {
		vm.SetKey(keys.Current())
		vm.RunFor(sliceCycles)
		time.Sleep(time.Millisecond)
	}
	return nil
}

// dumpRAM prints count words starting at addr for an argument of the form
// "addr:count" or "addr".
func dumpRAM(out io.Writer, vm *cpu.CPU, arg string) error {
	addrText, countText, found := strings.Cut(arg, ":")
	addr, err := strconv.ParseUint(addrText, 0, 16)
	if err != nil || addr > cpu.MaxAddress {
		return fmt.Errorf("invalid dump address %q", arg)
	}
	count := uint64(1)
	if found {
		count, err = strconv.ParseUint(countText, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid dump count %q", arg)
		}
	}
	for i := uint64(0); i < count && addr+i <= cpu.MaxAddress; i++ {
		a := uint16(addr + i)
		fmt.Fprintf(out, "RAM[%d] = %d\n", a, vm.Peek(a))
	}
	return nil
}

func init() {
	RunCmd.Flags().IntVar(&runCycles, "cycles", 1_000_000, "maximum instructions to execute")
	RunCmd.Flags().StringVar(&runScript, "script", "", "Lua script that drives the emulator instead of a plain run")
	RunCmd.Flags().StringArrayVar(&runDumps, "dump", nil, "print RAM after the run, as addr or addr:count (repeatable)")
	RunCmd.Flags().Uint16Var(&runStack, "sp", 256, "initial stack pointer (0 leaves RAM[0] untouched)")
	RunCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "feed the terminal keyboard to KBD until the program halts (Ctrl-C quits)")
	RunCmd.Flags().StringVar(&snapshotOut, "snapshot", "", "write a machine snapshot (.zip) after the run")
	RunCmd.Flags().StringVar(&restoreFrom, "restore", "", "resume from a machine snapshot instead of building a program")
	RunCmd.Flags().StringVar(&screenshot, "screenshot", "", "write the screen as PNG after the run")
	RunCmd.Flags().BoolVar(&showAsm, "show-asm", false, "print the generated assembly")
	addBuildFlags(RunCmd)
}

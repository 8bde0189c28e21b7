package cli

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hackvm/pkg/asm"
	"hackvm/pkg/utils"
)

var asmOut string

var AsmCmd = &cobra.Command{
	Use:   "asm [file.asm]",
	Short: "Assemble Hack assembly into .hack machine code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := utils.ReadLines(args[0])
		if err != nil {
			return err
		}

		program, _, err := asm.Assemble(strings.Join(lines, "\n"))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		log.Printf("assembled %d words", len(program))

		out := asmOut
		if out == "" {
			out = utils.OutputPath(args[0], ".hack")
		}
		if err := os.WriteFile(out, []byte(asm.Format(program)), 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "assembled %d words -> %s\n", len(program), out)
		return nil
	},
}

func init() {
	AsmCmd.Flags().StringVarP(&asmOut, "out", "o", "", "output .hack path (default: next to the input)")
}

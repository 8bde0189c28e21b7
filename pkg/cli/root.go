// Package cli implements the hackvm command line.
package cli

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hackvm",
	Short: "VM translator, assembler and emulator for the Hack platform",
	Long: `hackvm translates stack-machine VM code into Hack assembly and runs it.

Commands:
  translate  Translate a .vm file or a directory of .vm files into .asm
  parse      Show the classified commands of a .vm file
  asm        Assemble a .asm file into .hack machine code
  run        Build and execute a program on the emulator
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		log.SetPrefix("hackvm: ")
		if !verbose {
			log.SetOutput(io.Discard)
		} else {
			log.SetOutput(os.Stderr)
		}
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(TranslateCmd, ParseCmd, AsmCmd, RunCmd)
}

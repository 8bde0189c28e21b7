package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"hackvm/pkg/toolchain"
	"hackvm/pkg/translator"
	"hackvm/pkg/utils"
)

var (
	translateOut string
	bootstrap    bool
	noBootstrap  bool
	emitComments bool
)

// dumper shows Command fields rather than their String form.
var dumper = spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}

var TranslateCmd = &cobra.Command{
	Use:   "translate [file.vm | dir]",
	Short: "Translate VM code into Hack assembly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}

		sources, err := utils.DiscoverSources(args[0])
		if err != nil {
			return err
		}
		log.Printf("translating %d unit(s)", len(sources))

		assembly, err := toolchain.TranslateFiles(sources, opts)
		if err != nil {
			return err
		}

		out := translateOut
		if out == "" {
			out = utils.OutputPath(args[0], ".asm")
		}
		if err := os.WriteFile(out, []byte(assembly), 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "translated %s -> %s\n", args[0], out)
		return nil
	},
}

var ParseCmd = &cobra.Command{
	Use:   "parse [file.vm]",
	Short: "Dump the classified commands of a VM file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := utils.ReadLines(args[0])
		if err != nil {
			return err
		}
		cmds, err := translator.Parse(lines)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Commands (%d)\n", len(cmds))
		dumper.Fdump(cmd.OutOrStdout(), cmds)
		return nil
	},
}

func buildOptions() (toolchain.Options, error) {
	opts := toolchain.Options{Comments: emitComments}
	switch {
	case bootstrap && noBootstrap:
		return opts, fmt.Errorf("use either --bootstrap or --no-bootstrap, not both")
	case bootstrap:
		opts.Bootstrap = toolchain.BootstrapOn
	case noBootstrap:
		opts.Bootstrap = toolchain.BootstrapOff
	}
	return opts, nil
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&bootstrap, "bootstrap", false, "always emit the SP=256 / call Sys.init start-up code")
	cmd.Flags().BoolVar(&noBootstrap, "no-bootstrap", false, "never emit start-up code (default: only when Sys.vm is present)")
	cmd.Flags().BoolVar(&emitComments, "comments", false, "annotate the output with the source VM commands")
}

func init() {
	TranslateCmd.Flags().StringVarP(&translateOut, "out", "o", "", "output .asm path (default: next to the input)")
	addBuildFlags(TranslateCmd)
}

// Package toolchain wires the translator, the assembler and the source
// utilities into whole-program builds.
//
// Pipeline: .vm files → translator → Hack assembly → asm → ROM words
package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"hackvm/pkg/asm"
	"hackvm/pkg/translator"
	"hackvm/pkg/utils"
)

type BootstrapMode int

const (
	// BootstrapAuto emits the start-up code when a Sys.vm unit is present.
	BootstrapAuto BootstrapMode = iota
	BootstrapOn
	BootstrapOff
)

type Options struct {
	Bootstrap BootstrapMode
	Comments  bool
}

// TranslateFiles translates the given .vm files, in order, into one assembly
// program. A single Translator is shared so comparison and return labels do
// not collide across units.
func TranslateFiles(paths []string, opts Options) (string, error) {
	t := translator.New("")
	t.EmitComments = opts.Comments

	if wantsBootstrap(paths, opts.Bootstrap) {
		t.Bootstrap()
	}

	for _, path := range paths {
		lines, err := utils.ReadLines(path)
		if err != nil {
			return "", err
		}
		t.SetUnit(utils.UnitName(path))
		if err := t.Translate(lines); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
	}

	return t.String(), nil
}

func wantsBootstrap(paths []string, mode BootstrapMode) bool {
	switch mode {
	case BootstrapOn:
		return true
	case BootstrapOff:
		return false
	}
	for _, p := range paths {
		if filepath.Base(p) == "Sys"+utils.SourceExt {
			return true
		}
	}
	return false
}

// Compile builds path, which may be a .vm file, a directory of .vm files or a
// .asm file, into ROM words. The assembly text is returned as well, also when
// assembling fails.
func Compile(path string, opts Options) (*string, []uint16, error) {
	var assembly string

	if strings.EqualFold(filepath.Ext(path), ".asm") {
		lines, err := utils.ReadLines(path)
		if err != nil {
			return nil, nil, err
		}
		assembly = strings.Join(lines, "\n")
	} else {
		sources, err := utils.DiscoverSources(path)
		if err != nil {
			return nil, nil, err
		}
		assembly, err = TranslateFiles(sources, opts)
		if err != nil {
			return nil, nil, err
		}
	}

	program, _, err := asm.Assemble(assembly)
	if err != nil {
		return &assembly, nil, fmt.Errorf("assembly error: %w", err)
	}

	return &assembly, program, nil
}

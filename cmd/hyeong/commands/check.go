// cmd/hyeong/commands/check.go
package commands

import (
	"fmt"
	"os"

	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/parser"
)

// CheckCommand parses a source file and prints its normalized
// instruction dump without executing it, one line per instruction in
// "loc type_h_d : area" form.
func CheckCommand(args []string) error {
	if len(args) < 1 {
		return hyeongerrors.New(hyeongerrors.ParseError, "usage: hyeong check <file>")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return hyeongerrors.Wrap(hyeongerrors.InputError, err)
	}

	instrs, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	for _, in := range instrs {
		fmt.Printf("%d:%d %s_%d_%d : %s\n",
			in.Loc.Line, in.Loc.Column, in.Op, in.HangulCount, in.DotCount, in.Area.String())
	}
	return nil
}

// cmd/hyeong/commands/build.go
package commands

import (
	"os"
	"strings"

	"github.com/llir/llvm/ir"

	"github.com/hyeong-lang/hyeong/internal/buildgen"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/optimize"
	"github.com/hyeong-lang/hyeong/internal/parser"
)

// BuildCommand parses a source file and emits its LLVM IR translation
// to <file>.ll, or to the path given with -o ("-" for stdout). -O0,
// -O1, and -O2 select how hard the optimizer rewrites the instruction
// stream before translation.
func BuildCommand(args []string) error {
	level, args := optLevelFlag(args)

	outPath := ""
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			outPath = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	args = rest

	if len(args) < 1 {
		return hyeongerrors.New(hyeongerrors.ParseError, "usage: hyeong build [-O0|-O1|-O2] [-o <out.ll>] <file>")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return hyeongerrors.Wrap(hyeongerrors.InputError, err)
	}

	instrs, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	var mod *ir.Module
	if level == optimize.Level0 {
		mod, err = buildgen.Generate(instrs)
	} else {
		mod, err = buildgen.Generate(optimize.Optimize(instrs, level))
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(args[0], ".hyeong") + ".ll"
	}
	if outPath == "-" {
		_, err := os.Stdout.WriteString(mod.String())
		return err
	}
	if err := os.WriteFile(outPath, []byte(mod.String()), 0o644); err != nil {
		return hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}
	return nil
}

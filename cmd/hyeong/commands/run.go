// cmd/hyeong/commands/run.go
package commands

import (
	"bufio"
	"os"
	"time"

	"github.com/hyeong-lang/hyeong/internal/engine"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/optimize"
	"github.com/hyeong-lang/hyeong/internal/parser"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

// stdioSink adapts a *bufio.Writer to engine.Sink.
type stdioSink struct{ w *bufio.Writer }

func (s stdioSink) WriteByte(b byte) error     { return s.w.WriteByte(b) }
func (s stdioSink) WriteString(x string) error { _, err := s.w.WriteString(x); return err }

// stdioSource adapts a *bufio.Reader to engine.Source.
type stdioSource struct{ r *bufio.Reader }

func (s stdioSource) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	return line, err
}

// optLevelFlag parses a "-O0"/"-O1"/"-O2" flag from any position in
// args, returning the optimize.Level (Level2 when no flag is given;
// the last flag wins) and the remaining positional args.
func optLevelFlag(args []string) (optimize.Level, []string) {
	level := optimize.Level2
	rest := make([]string, 0, len(args))
	for _, a := range args {
		switch a {
		case "-O0":
			level = optimize.Level0
		case "-O1":
			level = optimize.Level1
		case "-O2":
			level = optimize.Level2
		default:
			rest = append(rest, a)
		}
	}
	return level, rest
}

// RunCommand parses and executes a source file to completion, writing
// stack-1/2 output to stdout/stderr and reading stack-0 input from
// stdin.
func RunCommand(args []string) error {
	level, args := optLevelFlag(args)
	if len(args) < 1 {
		return hyeongerrors.New(hyeongerrors.ParseError, "usage: hyeong run [-O0|-O1|-O2] <file>")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return hyeongerrors.Wrap(hyeongerrors.InputError, err)
	}

	instrs, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	errOut := bufio.NewWriter(os.Stderr)
	defer out.Flush()
	defer errOut.Flush()

	in := stdioSource{bufio.NewReader(os.Stdin)}
	sinkOut := stdioSink{out}
	sinkErr := stdioSink{errOut}

	startedAt := time.Now()
	exitCode, err := runProgram(instrs, level, sinkOut, sinkErr, in)
	if err != nil {
		return err
	}
	out.Flush()
	errOut.Flush()
	recordSession(args[0], "run", exitCode, startedAt)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// runProgram optimizes instrs at level and runs them on a fresh
// StateModel, dispatching to the generic engine for whichever
// instruction flavor the level produced.
func runProgram(instrs []program.Instruction, level optimize.Level, out, errSink engine.Sink, in engine.Source) (int, error) {
	if level == optimize.Level0 {
		m := state.New[program.Instruction]()
		engine.Load(m, instrs...)
		return engine.Run(m, out, errSink, in)
	}
	opt := optimize.Optimize(instrs, level)
	m := state.New[program.OptInstruction]()
	engine.Load(m, opt...)
	return engine.Run(m, out, errSink, in)
}

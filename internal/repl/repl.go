// Package repl implements the interactive prompt started when the CLI
// is invoked with no subcommand: each line is parsed as hyeong source,
// appended to one persistent StateModel, and run to completion.
package repl

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/hyeong-lang/hyeong/internal/engine"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/parser"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

// stdSink/stdSource mirror cmd/hyeong/commands' bufio adapters; kept
// separate since the REPL writes straight through without buffering
// (each line's output needs to land before the next prompt).
type stdSink struct{ f *os.File }

func (s stdSink) WriteByte(b byte) error     { _, err := s.f.Write([]byte{b}); return err }
func (s stdSink) WriteString(x string) error { _, err := s.f.WriteString(x); return err }

type stdSource struct{ r *bufio.Reader }

func (s stdSource) ReadLine() (string, error) { return s.r.ReadString('\n') }

// Start runs the interactive REPL: each line of input is parsed as
// hyeong source, appended to a persistent StateModel's code vector,
// and run to completion (or the next fatal halt). There is no separate
// compile stage here, so parse feeds the engine directly.
func Start() {
	colorize := isatty.IsTerminal(os.Stdout.Fd())
	prompt := ">>> "
	if colorize {
		prompt = "\033[36m>>> \033[0m"
	}

	fmt.Println("hyeong REPL | type 'exit' to quit")

	m := state.New[program.Instruction]()
	out := stdSink{os.Stdout}
	errOut := stdSink{os.Stderr}

	// One shared reader serves both REPL lines and any stack-0 pop a
	// program performs: the two never read concurrently, so one buffer
	// over stdin is correct and avoids losing bytes to two
	// independently-buffered readers.
	stdin := bufio.NewReader(os.Stdin)
	in := stdSource{stdin}

	for {
		fmt.Print(prompt)
		raw, err := stdin.ReadString('\n')
		if err != nil && raw == "" {
			break
		}
		line := strings.TrimRight(raw, "\r\n")
		if line == "exit" {
			break
		}
		if line == "" {
			if err != nil {
				break
			}
			continue
		}

		instrs, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, hyeongerrors.Line(err.(*hyeongerrors.HyeongError)))
			continue
		}

		engine.Load(m, instrs...)

		start := time.Now()
		exitCode, runErr := engine.Run(m, out, errOut, in)
		elapsed := time.Since(start)

		if runErr != nil {
			fmt.Fprintln(os.Stderr, hyeongerrors.Line(runErr.(*hyeongerrors.HyeongError)))
			continue
		}
		if exitCode != 0 {
			fmt.Printf("\n[process exited with code %d]\n", exitCode)
			return
		}
		if elapsed > 50*time.Millisecond {
			fmt.Fprintf(os.Stderr, "[%s]\n", humanize.RelTime(start, time.Now(), "ago", ""))
		}
	}
}

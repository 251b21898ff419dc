// cmd/hyeong/commands/debug.go
package commands

import (
	"bufio"
	"os"
	"strconv"
	"time"

	"github.com/hyeong-lang/hyeong/internal/debugger"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/parser"
)

// DebugCommand parses a source file and opens an interactive debugger
// session against it over stdin/stdout. -w <addr> additionally serves
// step events to external debugger UI shells over a websocket.
func DebugCommand(args []string) error {
	from := 0
	wsAddr := ""
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-f" && i+1 < len(args):
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return hyeongerrors.New(hyeongerrors.ParseError, "usage: hyeong debug <file> [-f <from>] [-w <addr>]")
			}
			from = n
			i++
		case args[i] == "-w" && i+1 < len(args):
			wsAddr = args[i+1]
			i++
		default:
			rest = append(rest, args[i])
		}
	}
	args = rest
	if len(args) < 1 {
		return hyeongerrors.New(hyeongerrors.ParseError, "usage: hyeong debug <file> [-f <from>] [-w <addr>]")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return hyeongerrors.Wrap(hyeongerrors.InputError, err)
	}

	instrs, err := parser.Parse(string(src))
	if err != nil {
		return err
	}

	out := stdioSink{bufio.NewWriter(os.Stdout)}
	errOut := stdioSink{bufio.NewWriter(os.Stderr)}
	defer out.w.Flush()
	defer errOut.w.Flush()

	// A single shared reader serves both debugger commands and any
	// stack-0 pop the debugged program performs: the two never read
	// concurrently, so one buffer over stdin is correct and avoids
	// losing bytes to two independently-buffered readers.
	stdin := bufio.NewReader(os.Stdin)
	in := stdioSource{stdin}

	startedAt := time.Now()
	exitCode, err := debugger.RunInteractive(instrs, out, errOut, in, stdin, from, wsAddr)
	if err != nil {
		return err
	}
	recordSession(args[0], "debug", exitCode, startedAt)
	return nil
}

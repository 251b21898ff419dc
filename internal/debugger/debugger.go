// Package debugger implements an interactive step debugger over a
// hyeong program: next/previous/run/state/break/help/exit commands
// dispatched from a bufio.Reader prompt, with backward stepping
// powered by structural state.Model clones rather than an undo log.
package debugger

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/hyeong-lang/hyeong/internal/engine"
	"github.com/hyeong-lang/hyeong/internal/program"
	"github.com/hyeong-lang/hyeong/internal/state"
)

// Debugger wraps a StateModel with breakpoints and a history stack of
// prior states, giving `previous` its backward-stepping ability by
// cloning the model before every step and popping to go back.
type Debugger struct {
	SessionID   uuid.UUID
	model       *state.Model[program.Instruction]
	history     []*state.Model[program.Instruction]
	breakpoints map[int]bool
	out, errOut engine.Sink
	in          engine.Source
	halted      bool
	exitCode    int
	steps       int
}

// New builds a Debugger loaded with instrs, ready to step from
// instruction 0.
func New(instrs []program.Instruction, out, errOut engine.Sink, in engine.Source) *Debugger {
	m := state.New[program.Instruction]()
	engine.Load(m, instrs...)
	return &Debugger{
		SessionID:   uuid.New(),
		model:       m,
		breakpoints: make(map[int]bool),
		out:         out,
		errOut:      errOut,
		in:          in,
	}
}

// AddBreakpoint registers ip as a breakpoint instruction index.
func (d *Debugger) AddBreakpoint(ip int) { d.breakpoints[ip] = true }

// RemoveBreakpoint clears a previously set breakpoint.
func (d *Debugger) RemoveBreakpoint(ip int) { delete(d.breakpoints, ip) }

// ListBreakpoints returns the set breakpoint instruction indices.
func (d *Debugger) ListBreakpoints() []int {
	out := make([]int, 0, len(d.breakpoints))
	for ip := range d.breakpoints {
		out = append(out, ip)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Halted reports whether the program has finished.
func (d *Debugger) Halted() bool { return d.halted }

// ExitCode returns the process exit code once Halted is true.
func (d *Debugger) ExitCode() int { return d.exitCode }

// IP returns the current instruction pointer.
func (d *Debugger) IP() int { return d.model.IP }

// Next executes exactly one instruction, pushing the pre-step state
// onto the history stack so Previous can undo it.
func (d *Debugger) Next() error {
	if d.halted {
		return nil
	}
	d.history = append(d.history, d.model.Clone())
	res, err := engine.Step(d.model, d.out, d.errOut, d.in)
	if err != nil {
		return err
	}
	d.steps++
	if res.Status == engine.Halted {
		d.halted = true
		d.exitCode = res.ExitCode
	} else if d.model.IP >= d.model.CodeLen() {
		// the instruction pointer left the code vector: a normal halt,
		// reported now rather than on a redundant extra step
		d.halted = true
	}
	return nil
}

// Previous restores the state from immediately before the last Next,
// or reports false if there is no history to unwind.
func (d *Debugger) Previous() bool {
	if len(d.history) == 0 {
		return false
	}
	last := len(d.history) - 1
	d.model = d.history[last]
	d.history = d.history[:last]
	d.halted = false
	d.exitCode = 0
	d.steps--
	return true
}

// Run steps until a breakpoint is hit or the program halts. It always
// advances at least one instruction first, so calling Run while
// sitting on a breakpoint steps past it instead of stopping instantly.
func (d *Debugger) Run() error {
	if err := d.Next(); err != nil {
		return err
	}
	for !d.halted && !d.breakpoints[d.model.IP] {
		if err := d.Next(); err != nil {
			return err
		}
	}
	return nil
}

// State renders the stacks touched so far, one line per stack.
func (d *Debugger) State() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ip=%d current=%d\n", d.model.IP, d.model.Current)
	for _, idx := range d.model.StackIndices() {
		fmt.Fprintf(&b, "  stack[%d]:", idx)
		for _, n := range d.model.Stack(idx) {
			fmt.Fprintf(&b, " %s", n.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RunInteractive drives the `(hyeong-debug) ` command prompt: next,
// previous, run, state, break <ip>, delete <ip>, list, help, exit. A
// non-zero from fast-forwards execution to that instruction index
// before the first prompt. A non-empty wsAddr starts a websocket
// listener on that address and broadcasts a step event to every
// connected debugger UI shell after each next/previous/run. It
// returns the program's exit code (0 if the session ended via `exit`
// before the program halted).
func RunInteractive(instrs []program.Instruction, out, errOut engine.Sink, in engine.Source, stdin *bufio.Reader, from int, wsAddr string) (int, error) {
	d := New(instrs, out, errOut, in)
	fmt.Printf("hyeong debugger session %s\n", d.SessionID)

	var srv *Server
	if wsAddr != "" {
		srv = NewServer(d)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", srv.HandleWebSocket)
		go func() {
			if err := http.ListenAndServe(wsAddr, mux); err != nil {
				log.Printf("[error] websocket listener: %v", err)
			}
		}()
		fmt.Printf("streaming step events on ws://%s/ws\n", wsAddr)
	}
	broadcast := func() {
		if srv != nil {
			srv.Broadcast()
		}
	}

	if from > 0 {
		d.AddBreakpoint(from)
		if err := d.Run(); err != nil {
			return 0, err
		}
		d.RemoveBreakpoint(from)
		broadcast()
		if d.Halted() {
			fmt.Printf("[process exited with code %d]\n", d.ExitCode())
			return d.ExitCode(), nil
		}
		printStatus(d)
	}

	for {
		fmt.Print("(hyeong-debug) ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return 0, nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "next", "n":
			if err := d.Next(); err != nil {
				return 0, err
			}
			broadcast()
			printStatus(d)
		case "previous", "p":
			if !d.Previous() {
				fmt.Println("no history to step back through")
			}
			broadcast()
			printStatus(d)
		case "run", "r":
			if err := d.Run(); err != nil {
				return 0, err
			}
			broadcast()
			printStatus(d)
		case "state", "s":
			fmt.Print(d.State())
		case "break", "b":
			if len(fields) < 2 {
				fmt.Println("usage: break <ip>")
				continue
			}
			ip, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: break <ip>")
				continue
			}
			d.AddBreakpoint(ip)
		case "delete":
			if len(fields) < 2 {
				fmt.Println("usage: delete <ip>")
				continue
			}
			ip, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: delete <ip>")
				continue
			}
			d.RemoveBreakpoint(ip)
		case "list", "l":
			fmt.Println(d.ListBreakpoints())
		case "help", "h":
			printHelp()
		case "exit", "quit", "q":
			return 0, nil
		default:
			fmt.Printf("unknown command %q, try 'help'\n", fields[0])
		}

		if d.Halted() {
			broadcast()
			fmt.Printf("[process exited with code %d]\n", d.ExitCode())
			return d.ExitCode(), nil
		}
	}
}

func printStatus(d *Debugger) {
	if d.Halted() {
		return
	}
	fmt.Printf("-> ip=%d (%s instructions executed)\n", d.IP(), humanize.Comma(int64(d.steps)))
}

func printHelp() {
	fmt.Println(`commands:
  next (n)        execute one instruction
  previous (p)    undo the last instruction
  run (r)         run until a breakpoint or halt
  state (s)       print the current stacks
  break (b) <ip>  set a breakpoint at instruction index ip
  delete <ip>     remove a breakpoint
  list (l)        list breakpoints
  exit (q)        quit the debugger`)
}

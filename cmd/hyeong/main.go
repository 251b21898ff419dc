// cmd/hyeong/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyeong-lang/hyeong/cmd/hyeong/commands"
	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/repl"
)

const version = "0.1.0"

// commandAliases: short letters dispatch to the same command as their
// full name.
var commandAliases = map[string]string{
	"r": "run",
	"c": "check",
	"d": "debug",
	"i": "install",
	"u": "uninstall",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		repl.Start()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		showVersion()
		return
	}

	var err error
	switch cmd {
	case "run":
		err = commands.RunCommand(args[1:])
	case "check":
		err = commands.CheckCommand(args[1:])
	case "debug":
		err = commands.DebugCommand(args[1:])
	case "build":
		err = commands.BuildCommand(args[1:])
	case "install":
		err = commands.InstallCommand(args[1:])
	case "uninstall":
		err = commands.UninstallCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		showUsage()
		os.Exit(2)
	}

	if err != nil {
		var hyErr *hyeongerrors.HyeongError
		if errors.As(err, &hyErr) {
			fmt.Fprintln(os.Stderr, hyeongerrors.Line(hyErr))
			if strings.HasPrefix(hyErr.Detail, "usage:") {
				os.Exit(2)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`hyeong - a stack machine for the 하이엉/형 language

Usage:
  hyeong                 start the REPL
  hyeong run <file>      parse and execute a source file
  hyeong check <file>    print the normalized instruction dump
  hyeong debug <file>    step through a source file interactively
  hyeong build <file>    emit an LLVM IR translation of a source file
  hyeong install         fetch and smoke-build the runtime support module
  hyeong uninstall       remove the runtime support module

Aliases: r=run, c=check, d=debug, i=install, u=uninstall`)
}

func showVersion() {
	fmt.Printf("hyeong version %s\n", version)
}

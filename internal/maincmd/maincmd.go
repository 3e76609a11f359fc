// Package maincmd implements the command-line surface: no arguments
// starts a REPL on stdin, one argument executes the named source file,
// and anything else is a usage error.
package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/loxvm/loxvm/lang/vm"
)

const binName = "loxvm"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Bytecode compiler and virtual machine for the %[1]s scripting language.

With no <path>, starts an interactive REPL reading from stdin.
With one <path>, compiles and runs the script at that path.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the CLI entry point, built on github.com/mna/mainer for flag
// parsing, the Stdio abstraction and exit-code reporting.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("too many arguments: expected at most one path")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(64)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.ExitCode(0)
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.ExitCode(0)
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 0 {
		return mainer.ExitCode(runREPL(ctx, stdio))
	}
	return mainer.ExitCode(runFile(ctx, stdio, c.args[0]))
}

// runFile reads path, compiles it and runs it to completion, returning
// the process exit code for the outcome.
func runFile(_ context.Context, stdio mainer.Stdio, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return 74
	}

	machine := &vm.VM{Stdout: stdio.Stdout, Stderr: stdio.Stderr}
	code, _, _ := machine.Run(string(src))
	return code
}

// runREPL reads one line at a time from stdin, compiling and running each
// as its own program, printing `> ` as a prompt. A compile or runtime
// error in one line does not end the session.
func runREPL(_ context.Context, stdio mainer.Stdio) int {
	machine := &vm.VM{Stdout: stdio.Stdout, Stderr: stdio.Stderr}
	scanner := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		runREPLLine(machine, line)
	}
	return 0
}

// runREPLLine implements the REPL's bare-expression convenience: it first
// tries compiling line as an implicit print of its value, and only falls
// back to compiling it verbatim (so statements like `var x = 1;` still
// work) if that trial compile fails. The trial's compile errors are never
// shown; the verbatim fallback reports its errors normally.
func runREPLLine(machine *vm.VM, line string) {
	if fn, err := machine.Compile("print " + line + ";"); err == nil {
		machine.RunFunction(fn)
		return
	}
	machine.Run(line)
}

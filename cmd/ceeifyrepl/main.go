/*
Ceeifyrepl is an interactive read-compile-print loop: type a block of
source, leave a blank line to submit it, and see the translated output (or
a diagnostic) immediately.

Usage:

	ceeifyrepl [flags]

The flags are:

	-v, --version
		Print version info and exit.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline, even if launched in a tty.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"ceeify"
)

const (
	ExitSuccess = iota
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Print version info and exit")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of using GNU readline")
)

// lineSource is the minimal interface both reader modes satisfy.
type lineSource interface {
	ReadLine() (string, error)
	Close() error
}

type directSource struct{ r *bufio.Reader }

func (d directSource) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}
func (d directSource) Close() error { return nil }

type readlineSource struct{ rl *readline.Instance }

func (r readlineSource) ReadLine() (string, error) { return r.rl.Readline() }
func (r readlineSource) Close() error              { return r.rl.Close() }

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println("ceeifyrepl v0.1.0")
		return
	}

	var src lineSource
	if *flagDirect {
		src = directSource{r: bufio.NewReader(os.Stdin)}
	} else {
		rl, err := readline.NewEx(&readline.Config{Prompt: "ceeify> "})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err)
			returnCode = ExitInitError
			return
		}
		src = readlineSource{rl: rl}
	}
	defer src.Close()

	fmt.Println("ceeify interactive translator. Enter a block, then a blank line to compile it. Ctrl-D to quit.")

	var lines []string
	for {
		line, err := src.ReadLine()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				fmt.Println("Goodbye")
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return
		}

		if strings.TrimSpace(line) == "" && len(lines) > 0 {
			src2 := strings.Join(lines, "\n") + "\n"
			lines = lines[:0]

			res, compileErr := ceeify.CompileSource("<repl>", src2, ceeify.Options{Emit: true})
			if compileErr != nil {
				fmt.Println(compileErr.FullMessage())
				continue
			}
			fmt.Print(res.Output)
			continue
		}

		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
}

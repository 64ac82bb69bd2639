// Package cli provides the line-oriented front end: terminal I/O, output
// formatting and the meta-commands that only make sense on a terminal.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/shell"
)

// CLI reads commands line by line and prints their output.
type CLI struct {
	Shell     *shell.Shell
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI on stdin and stdout.
func New(sh *shell.Shell) *CLI {
	return &CLI{
		Shell: sh,
		In:    os.Stdin,
		Out:   os.Stdout,
	}
}

// Run prints the selected session, then loops: prompt, input, dispatch,
// output. It returns on /quit or end of input.
func (c *CLI) Run() {
	c.printSystem(fmt.Sprintf("%d sessions loaded. Type /help for commands.", len(c.Shell.Data.Sessions)))
	for _, line := range c.Shell.Selected() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(c.Shell.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the CLI should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd, _, _ := strings.Cut(input, " ")

	switch cmd {
	case "/state":
		c.cmdState()
		return false

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.Shell.Logger.SetLevel(log.DebugLevel)
			c.printSystem("Trace output enabled.")
		} else {
			c.Shell.Logger.SetLevel(log.InfoLevel)
			c.printSystem("Trace output disabled.")
		}
		return false

	case "/help":
		c.printResult(c.Shell.Step(input))
		c.printLine("  /state               Show the current selection")
		c.printLine("  /trace               Toggle debug logging")
		return false
	}

	r := c.Shell.Step(input)
	for _, line := range r.Output {
		c.printSystem(line)
	}
	return r.Quit
}

func (c *CLI) cmdState() {
	st := c.Shell.Status()
	c.printSystem(fmt.Sprintf("Session: %s (%s)", st.Session, st.Kind))
	c.printSystem(fmt.Sprintf("Seed: 0x%016X", st.Seed))
	c.printSystem(fmt.Sprintf("Depth: %d", st.Depth))
	c.printSystem(fmt.Sprintf("Criteria: %s", st.Criteria))
	if st.Searched {
		c.printSystem(fmt.Sprintf("Results: %d", st.Results))
	}
}

func (c *CLI) printResult(result shell.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

// Permute searches mass outbreak spawners for the action paths that lead
// to a wanted spawn.
// Usage: permute [flags] <data_directory>
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/nathoo/permutemmo/cli"
	"github.com/nathoo/permutemmo/engine/spawn"
	"github.com/nathoo/permutemmo/loader"
	"github.com/nathoo/permutemmo/report"
	"github.com/nathoo/permutemmo/shell"
	"github.com/nathoo/permutemmo/structure"
	"github.com/nathoo/permutemmo/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: permute [--version] [--verbose] [--no-tui] [--script <file>] [--session <name>] [--seed <hex>] [--depth <n>] [--criteria <expr>] [--dump] [--json] [--blocks <file>] [--data] <data_directory>"

type options struct {
	dataDir  string
	session  string
	seed     string
	depth    int
	criteria string
	script   string
	blocks   string
	dump     bool
	json     bool
	plain    bool
	verbose  bool
}

func main() {
	opts := options{depth: -1}

	args := os.Args[1:]
	// value returns the argument following flag i.
	value := func(i *int) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", args[*i])
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("permute %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--no-tui", "--plain":
			opts.plain = true
		case "--verbose":
			opts.verbose = true
		case "--dump":
			opts.dump = true
		case "--json":
			opts.json = true
		case "--data":
			opts.dataDir = value(&i)
		case "--session":
			opts.session = value(&i)
		case "--seed":
			opts.seed = value(&i)
		case "--criteria":
			opts.criteria = value(&i)
		case "--script":
			opts.script = value(&i)
		case "--blocks":
			opts.blocks = value(&i)
		case "--depth":
			n, err := strconv.Atoi(value(&i))
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "--depth needs a non-negative number\n")
				os.Exit(1)
			}
			opts.depth = n
		default:
			if opts.dataDir == "" {
				opts.dataDir = args[i]
			}
		}
	}

	if opts.dataDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "permute"})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	data, err := loader.Load(opts.dataDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	if !opts.verbose {
		if lvl, err := log.ParseLevel(data.Settings.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}
	}
	logger.Debug("data loaded",
		"dir", opts.dataDir,
		"species", data.Catalog.SpeciesCount(),
		"tables", len(data.Catalog.TableIDs()),
		"sessions", len(data.Sessions))

	sh, err := newShell(data, logger, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case opts.blocks != "":
		err = runBlocks(sh, opts.blocks, os.Stdout)
	case opts.dump || opts.json:
		err = runBatch(sh, opts, os.Stdout)
	case opts.script != "":
		err = runScript(sh, opts.script)
	case opts.plain || !isTerminal():
		cli.New(sh).Run()
	default:
		// The log would draw over the alternate screen.
		logger.SetOutput(io.Discard)
		err = tui.Run(sh)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newShell applies the command-line overrides to a fresh shell.
func newShell(data *loader.Data, logger *log.Logger, opts options) (*shell.Shell, error) {
	sh, err := shell.New(data, logger)
	if err != nil {
		return nil, err
	}
	if opts.session != "" {
		if err := sh.Use(opts.session); err != nil {
			return nil, err
		}
	}
	if opts.seed != "" {
		seed, err := spawn.ParseHash(opts.seed)
		if err != nil {
			return nil, fmt.Errorf("--seed: %w", err)
		}
		sh.SetSeed(seed)
	}
	if opts.depth >= 0 {
		if err := sh.SetDepth(opts.depth); err != nil {
			return nil, err
		}
	}
	if opts.criteria != "" {
		if err := sh.SetCriteria(opts.criteria); err != nil {
			return nil, err
		}
	}
	return sh, nil
}

// runBatch searches once and prints the report, the dump or the save JSON.
func runBatch(sh *shell.Shell, opts options, w io.Writer) error {
	m, err := sh.Search()
	if err != nil {
		return err
	}
	if opts.json {
		b, err := sh.Export()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if !m.HasResults() {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	for _, line := range report.Dump(m) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// runBlocks searches every spawner of an outbreak block dump. The block
// kind is told apart by size.
func runBlocks(sh *shell.Shell, path string, w io.Writer) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := func(id uint16) string {
		if sp, ok := sh.Data.Catalog.Species(id); ok {
			return sp.Name
		}
		return fmt.Sprintf("#%d", id)
	}

	var lines []string
	switch len(b) {
	case structure.MassiveSetSize:
		set, err := structure.DecodeMassiveSet(b)
		if err != nil {
			return err
		}
		lines, err = report.MassiveOutbreaks(set, sh.SearchGraph, name, sh.Raw())
		if err != nil {
			return err
		}
	case structure.MassSetSize:
		set, err := structure.DecodeMassSet(b)
		if err != nil {
			return err
		}
		lines, err = report.MassOutbreaks(set, sh.SearchGraph, name, sh.Raw())
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: %d bytes is neither a mass (%d) nor a massive (%d) outbreak block",
			path, len(b), structure.MassSetSize, structure.MassiveSetSize)
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// runScript plays a command file through the CLI, echoing each command.
func runScript(sh *shell.Shell, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	c := cli.New(sh)
	c.In = f
	c.EchoInput = true
	c.Run()
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

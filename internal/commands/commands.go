package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"

	"scatter/internal/logger"
)

const prefix = "cmd "

// ErrNotCommand is returned by Parse for lines that do not start with "cmd ".
var ErrNotCommand = errors.New("commands: not a command line")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on Flags; Run receives the positional arguments left after parsing them.
type Command struct {
	Name  string
	Usage string
	Flags *pflag.FlagSet
	Run   func(args []string) error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
	log  *logger.Logger
}

// NewRegistry returns a registry with only the help command, which writes to log.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{cmds: make(map[string]*Command), log: log}
	r.Register("help", "list commands", nil, func([]string) error {
		for _, line := range r.Help() {
			r.log.Log(line)
		}
		return nil
	})
	return r
}

// NewFlags returns a flag set suitable for Register: errors are returned, never printed or fatal.
func NewFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "count").
// fs may be nil for commands without flags; run is called after fs.Parse succeeds.
func (r *Registry) Register(name, usage string, fs *pflag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = NewFlags(name)
	}
	r.cmds[name] = &Command{Name: name, Usage: usage, Flags: fs, Run: run}
}

// Parse interprets line as a terminal line. If line starts with "cmd " (case-sensitive), the rest is split
// like a shell would (quotes group words) and returned. Other lines yield ErrNotCommand.
func Parse(line string) ([]string, error) {
	if !strings.HasPrefix(line, prefix) {
		return nil, ErrNotCommand
	}
	rest := strings.TrimSpace(line[len(prefix):])
	if rest == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	return args, nil
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Flags are reset to their defaults first so values never leak between runs.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	cmd.Flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	if err := cmd.Flags.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return cmd.Run(cmd.Flags.Args())
}

// Run parses line and executes it. It is what the terminal calls on enter.
func (r *Registry) Run(line string) error {
	args, err := Parse(line)
	if err != nil {
		return err
	}
	return r.Execute(args)
}

// Help returns one line per command, sorted by name, with flag usage indented below.
func (r *Registry) Help() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []string
	for _, name := range names {
		cmd := r.cmds[name]
		out = append(out, fmt.Sprintf("cmd %s - %s", name, cmd.Usage))
		if u := strings.TrimRight(cmd.Flags.FlagUsages(), "\n"); u != "" {
			out = append(out, strings.Split(u, "\n")...)
		}
	}
	return out
}

// Has reports whether a command is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.cmds[name]
	return ok
}

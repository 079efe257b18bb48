package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	stdin  io.Reader
	stderr io.Writer
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := r.flagSet("interactive")
	c := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stderr: os.Stderr}
	fs.Usage = usageFunc(c)
	fs.Var(&c.execs, "e", "execute a command and exit (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *interactiveCmd) Run() error {
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := c.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(c.stderr, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stderr, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := c.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(c.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command in a child root that shares this session.
// It reports true when the loop should end.
func (c *interactiveCmd) executeLine(line string) (bool, error) {
	if c.context().Err() != nil {
		return true, c.context().Err()
	}
	args, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		return false, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "interactive":
		return false, nil
	}
	err = c.root.shell().Run(args)
	if errors.Is(err, flag.ErrHelp) {
		return false, nil
	}
	return false, err
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/regionshot/internal/capture"
)

var stdout io.Writer = os.Stdout

type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := r.flagSet("monitors")
	cmd := &monitorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *monitorsCmd) Run() error {
	mons, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	fmt.Fprintln(stdout, "monitors (* marks the primary monitor):")
	for _, mon := range mons {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		r := mon.Rect
		fmt.Fprintf(stdout, "%s %d: %-10s %dx%d%+d%+d\n", marker, mon.Index, monitorName(mon), r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	return nil
}

func (c *monitorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func monitorName(mon capture.MonitorInfo) string {
	if name := strings.TrimSpace(mon.Name); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", mon.Index)
}

type windowsCmd struct {
	*root
	fs       *flag.FlagSet
	selector string
}

func parseWindowsCmd(args []string, r *root) (*windowsCmd, error) {
	fs := r.flagSet("windows")
	cmd := &windowsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cmd.selector = strings.TrimSpace(strings.Join(fs.Args(), " "))
	return cmd, nil
}

func (c *windowsCmd) Run() error {
	windows, err := listWindowsFn(c.context())
	if err != nil && len(windows) == 0 {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if c.selector != "" {
		win, err := capture.SelectWindow(c.selector, windows)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, formatWindowLabel(win))
		return nil
	}
	fmt.Fprintln(stdout, "available windows (* marks the active window):")
	for _, win := range windows {
		marker := " "
		if win.Active {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%s %s\n", marker, formatWindowLabel(win))
	}
	fmt.Fprintln(stdout, "selectors: index:<n>, id:<hex>, pid:<pid>, exec:<name>, class:<name>, title:<text>, substring match")
	return nil
}

func (c *windowsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func formatWindowLabel(win capture.WindowInfo) string {
	title := strings.TrimSpace(win.Title)
	if title == "" {
		title = "(untitled)"
	}
	parts := []string{fmt.Sprintf("%d: 0x%08x %q", win.Index, win.ID, title)}
	if win.Class != "" {
		parts = append(parts, "class="+win.Class)
	}
	if win.Executable != "" {
		parts = append(parts, "exec="+win.Executable)
	}
	if win.PID != 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", win.PID))
	}
	r := win.Rect
	parts = append(parts, fmt.Sprintf("%dx%d%+d%+d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	return strings.Join(parts, " ")
}

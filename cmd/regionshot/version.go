package main

import (
	"flag"
	"fmt"
	"strings"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Program() string {
	return v.r.Program() + " version"
}

func (v *versionCmd) FlagSet() *flag.FlagSet {
	return nil
}

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.r.program, version)
	if c := strings.TrimSpace(commit); c != "" {
		line += " commit " + c
	}
	if d := strings.TrimSpace(date); d != "" {
		line += " built " + d
	}
	fmt.Fprintln(stdout, line)
	return nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/geom"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := stdout
	t.Cleanup(func() { stdout = orig })
	var buf bytes.Buffer
	stdout = &buf
	return &buf
}

func TestInteractiveSharesSession(t *testing.T) {
	stubDesktop(t)
	runOverlayFn = drag(geom.Pt(5, 5), geom.Pt(25, 15))
	dir := t.TempDir()
	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "with space.png")

	var errOut bytes.Buffer
	cmd := &interactiveCmd{
		root:   testRoot(),
		stdin:  strings.NewReader("region -output " + first + "\nregion -last -output '" + second + "'\nexit\nregion\n"),
		stderr: &errOut,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	a, b := readPNG(t, first), readPNG(t, second)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("second capture did not reuse the first region")
	}
}

func TestInteractiveExecFlags(t *testing.T) {
	stubDesktop(t)
	out := captureStdout(t)
	cmd, err := parseInteractiveCmd([]string{"-e", "monitors", "-e", "exit", "-e", "version"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "HDMI-1") {
		t.Fatalf("monitors not listed: %q", out.String())
	}
	if strings.Contains(out.String(), "version") {
		t.Fatalf("commands after exit must not run: %q", out.String())
	}
}

func TestInteractiveReportsErrorsAndContinues(t *testing.T) {
	stubDesktop(t)
	out := captureStdout(t)
	var errOut bytes.Buffer
	cmd := &interactiveCmd{
		root:   testRoot(),
		stdin:  strings.NewReader("region -last -stdout\nregion -bogus\nunclosed 'quote\nmonitors\n"),
		stderr: &errOut,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if !strings.Contains(errOut.String(), errNoLastRegion.Error()) {
		t.Fatalf("expected last region error, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "DP-1") {
		t.Fatalf("loop stopped early: %q", out.String())
	}
}

func TestShellReturnsFlagErrors(t *testing.T) {
	err := testRoot().shell().Run([]string{"-no-such-flag"})
	if err == nil || errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected a flag error, got %v", err)
	}
}

func TestExecuteLineStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := testRoot()
	r.ctx = ctx
	done, err := (&interactiveCmd{root: r}).executeLine("monitors")
	if !done || !errors.Is(err, context.Canceled) {
		t.Fatalf("executeLine = %v, %v", done, err)
	}
}

func TestUsageRendersTemplates(t *testing.T) {
	r := testRoot()
	r.fs = flag.NewFlagSet("regionshot", flag.ContinueOnError)
	r.bindFlags()
	help := (&UsageError{of: r}).Error()
	for _, want := range []string{"Usage: regionshot", "region", "-theme"} {
		if !strings.Contains(help, want) {
			t.Errorf("root help missing %q:\n%s", want, help)
		}
	}

	c, err := parseRegionCmd(nil, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if help := (&UsageError{of: c}).Error(); !strings.Contains(help, "-to-clipboard") || !strings.Contains(help, "regionshot region") {
		t.Errorf("region help incomplete:\n%s", help)
	}
}

func TestConfigPrint(t *testing.T) {
	out := captureStdout(t)
	cmd, err := parseConfigCmd([]string{"print"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "[region]") {
		t.Fatalf("missing region section: %q", out.String())
	}
}

func TestWindowsSelector(t *testing.T) {
	stubDesktop(t)
	out := captureStdout(t)
	orig := listWindowsFn
	t.Cleanup(func() { listWindowsFn = orig })
	listWindowsFn = func(context.Context) ([]capture.WindowInfo, error) {
		return []capture.WindowInfo{
			{Index: 0, ID: 0x2a, Title: "Terminal", Class: "xterm", Active: true},
			{Index: 1, ID: 0x2b, Title: "Browser", Class: "firefox", PID: 42},
		}, nil
	}
	cmd, err := parseWindowsCmd([]string{"class:firefox"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out.String()); !strings.HasPrefix(got, `1: 0x0000002b "Browser" class=firefox pid=42`) {
		t.Fatalf("unexpected output %q", got)
	}
}

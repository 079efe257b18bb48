package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"

	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/notify"
	"github.com/example/regionshot/internal/result"
	"github.com/example/regionshot/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	ctx           context.Context
	fs            *flag.FlagSet
	program       string
	onError       flag.ErrorHandling
	session       *result.Session
	notifier      *notify.Notifier
	config        *config.Config
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
	activeTheme   *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

func (r *root) flagSet(name string) *flag.FlagSet {
	onError := flag.ExitOnError
	if r != nil {
		onError = r.onError
	}
	return flag.NewFlagSet(name, onError)
}

func newRoot(ctx context.Context) *root {
	prefs := notify.LoadPreferences(os.LookupEnv)
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		ctx:      ctx,
		fs:       flag.NewFlagSet("regionshot", flag.ExitOnError),
		program:  "regionshot",
		onError:  flag.ExitOnError,
		session:  result.NewSession(),
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.captureAlerts = cfg.Notify.Capture
	r.saveAlerts = cfg.Notify.Save
	r.copyAlerts = cfg.Notify.Copy
	r.bindFlags()
	return r
}

// bindFlags registers the global flags with the current values as defaults.
func (r *root) bindFlags() {
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", r.captureAlerts, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", r.saveAlerts, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", r.copyAlerts, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", r.themeName, "color theme to use: default, dark, contrast or a .theme file")
	r.fs.Usage = usageFunc(r)
}

// shell is the root used by interactive mode. Flag errors are returned
// instead of exiting and the session is shared with the parent.
func (r *root) shell() *root {
	child := &root{
		ctx:           r.ctx,
		fs:            flag.NewFlagSet(r.program, flag.ContinueOnError),
		program:       r.program,
		onError:       flag.ContinueOnError,
		session:       r.session,
		notifier:      r.notifier,
		config:        r.config,
		captureAlerts: r.captureAlerts,
		saveAlerts:    r.saveAlerts,
		copyAlerts:    r.copyAlerts,
		themeName:     r.themeName,
		activeTheme:   r.activeTheme,
	}
	child.bindFlags()
	return child
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.activeTheme == nil || r.themeName != "" {
		r.activeTheme = r.loadTheme()
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "region":
		cmd, err = parseRegionCmd(subArgs, r)
	case "editor":
		cmd, err = parseEditorCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "monitors":
		cmd, err = parseMonitorsCmd(subArgs, r)
	case "windows":
		cmd, err = parseWindowsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadTheme resolves the theme name from the flag, then the config, which
// already carries REGIONSHOT_THEME. Themes defined in the config win over
// files.
func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && !strings.EqualFold(name, "default") {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	r := newRoot(ctx)
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			stop()
			os.Exit(1)
		}
	}
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

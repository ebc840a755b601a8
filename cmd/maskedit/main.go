package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/config"
	"github.com/example/maskedit/internal/loader"
	"github.com/example/maskedit/internal/notify"
	"github.com/example/maskedit/internal/objstore"
	"github.com/example/maskedit/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	store      *objstore.Store
	saveAlerts bool
	copyAlerts bool
	logLevel   string
	themeName  string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func newRoot() *root {
	cfgLoader := config.NewLoader(version, configPathOverride)
	cfg, err := cfgLoader.Load()
	if err != nil {
		logrus.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("maskedit", flag.ExitOnError),
		program:  "maskedit",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
		store:    objstore.New(),
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme for the editor window (default, dark, or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	level, err := logrus.ParseLevel(r.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	if r.themeName != "" {
		r.config.Theme = r.themeName
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "fit":
		cmd, err = parseFitCmd(subArgs, r)
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

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLoader builds an image loader sharing the root's object store. HTTP
// credentials come from MASKEDIT_HTTP_TOKEN or MASKEDIT_HTTP_USER and
// MASKEDIT_HTTP_PASSWORD.
func (r *root) newLoader() *loader.Loader {
	creds := loader.Credentials{
		BearerToken: os.Getenv("MASKEDIT_HTTP_TOKEN"),
		Username:    os.Getenv("MASKEDIT_HTTP_USER"),
		Password:    os.Getenv("MASKEDIT_HTTP_PASSWORD"),
	}
	return loader.New(loader.WithObjectStore(r.store), loader.WithCredentials(creds))
}

// outputDest falls back to the configured save directory.
func (r *root) outputDest(output string) string {
	if output != "" || r.config == nil {
		return output
	}
	return r.config.SaveDir
}

// strokeColor parses value, or returns the configured colour when value is
// empty.
func (r *root) strokeColor(value string) (color.RGBA, error) {
	if strings.TrimSpace(value) == "" {
		if r.config == nil {
			return color.RGBA{A: 255}, nil
		}
		return r.config.Color, nil
	}
	c, err := theme.ParseColor(value)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid -color: %w", err)
	}
	return c, nil
}

func (r *root) activeTheme() *theme.Theme {
	t, err := r.config.ResolveTheme(theme.NewLoader())
	if err != nil {
		logrus.WithError(err).Warnf("failed to load theme %q, using default", r.config.Theme)
		return theme.Default()
	}
	return t
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

// imageSize is used in log fields.
func imageSize(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/canvas"
	"github.com/example/maskedit/internal/clipboard"
	"github.com/example/maskedit/internal/editor"
	"github.com/example/maskedit/internal/export"
	"github.com/example/maskedit/internal/script"
)

// applyCmd replays a stroke script over an image and exports the result.
type applyCmd struct {
	*root
	fs           *flag.FlagSet
	program      string
	file         string
	scriptPath   string
	output       string
	colorSpec    string
	thickness    int
	container    string
	containerW   int
	containerH   int
	toClipboard  bool
	printDataURL bool

	stdin  io.Reader
	stdout io.Writer
}

func (a *applyCmd) Program() string        { return a.program }
func (a *applyCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	a := &applyCmd{root: r, fs: fs, program: r.subcommand("apply"), stdin: os.Stdin, stdout: os.Stdout}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image URL, s3:// location or path to mask")
	fs.StringVar(&a.scriptPath, "script", "", "stroke script to replay, - for stdin")
	fs.StringVar(&a.output, "output", "", "file, directory or s3://bucket/prefix/ to write (defaults to save_dir)")
	fs.StringVar(&a.colorSpec, "color", "", "stroke color name or hex value (defaults to config color)")
	fs.IntVar(&a.thickness, "thickness", r.config.Thickness.Value, "initial stroke thickness in display pixels")
	fs.StringVar(&a.container, "container", fmt.Sprintf("%dx%d", r.config.Container.Width, r.config.Container.Height), "display container size WxH used to scale stroke widths")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "also copy the result to the clipboard, as text when -data-url is set")
	fs.BoolVar(&a.printDataURL, "data-url", false, "print the result as a data URL instead of saving it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" {
		return nil, &UsageError{of: a, msg: "-file is required"}
	}
	if a.scriptPath == "" {
		return nil, &UsageError{of: a, msg: "-script is required"}
	}
	w, h, err := parseSize(a.container)
	if err != nil {
		return nil, fmt.Errorf("invalid -container: %w", err)
	}
	a.containerW, a.containerH = w, h
	return a, nil
}

// parseSize reads "WxH" with positive integers.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("width and height must be positive")
	}
	return w, h, nil
}

func (a *applyCmd) readScript() ([]script.Command, error) {
	var r io.Reader = a.stdin
	if a.scriptPath != "-" {
		f, err := os.Open(a.scriptPath)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	cmds, err := script.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.scriptPath, err)
	}
	return cmds, nil
}

func (a *applyCmd) Run() error {
	cmds, err := a.readScript()
	if err != nil {
		return err
	}
	col, err := a.strokeColor(a.colorSpec)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cv := canvas.New(1, 1, canvas.WithJPEGQuality(a.config.Export.JPEGQuality))
	thickness := a.config.NewThickness()
	thickness.Set(a.thickness)
	ed := editor.New(editor.Options{
		Engine:    cv,
		Container: editor.FixedContainer{Width: float64(a.containerW), Height: float64(a.containerH)},
		Thickness: thickness,
		Loader:    a.newLoader(),
		Color:     col,
	})
	if err := ed.DrawImage(ctx, a.file); err != nil {
		return err
	}

	res := script.Run(ed, cmds)
	logrus.WithFields(logrus.Fields{
		"source":  a.file,
		"size":    imageSize(cv.Frame()),
		"scale":   ed.Geometry().ScaleFactor,
		"strokes": res.Strokes,
		"visible": len(cv.Objects()),
		"noops":   res.NoOps,
	}).Info("script applied")

	var dataURL string
	if a.printDataURL {
		dataURL, err = cv.DataURL(ed.MIME())
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fmt.Fprintln(a.stdout, dataURL)
	} else {
		sink, err := export.NewSink(a.outputDest(a.output), a.store)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		loc, err := ed.SaveImage(ctx, sink)
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		fmt.Fprintln(a.stdout, loc)
		a.notifySave(loc)
	}

	if a.toClipboard {
		// With -data-url the text itself is copied, ready to paste into a page.
		var copyErr error
		if dataURL != "" {
			copyErr = clipboard.WriteText(dataURL)
		} else {
			copyErr = clipboard.WriteImage(cv.Frame())
		}
		if copyErr != nil {
			return fmt.Errorf("copy to clipboard: %w", copyErr)
		}
		a.notifyCopy(export.FileName(a.file, ed.MIME()))
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/canvas"
	"github.com/example/maskedit/internal/export"
	"github.com/example/maskedit/internal/ui"
)

// editCmd opens an image in the editor window.
type editCmd struct {
	*root
	fs        *flag.FlagSet
	program   string
	file      string
	output    string
	colorSpec string
	thickness int
}

func (e *editCmd) Program() string        { return e.program }
func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs, program: r.subcommand("edit")}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image URL, s3:// location or path to edit")
	fs.StringVar(&e.output, "output", "", "where Ctrl+S saves: file, directory or s3://bucket/prefix/ (defaults to save_dir)")
	fs.StringVar(&e.colorSpec, "color", "", "stroke color name or hex value (defaults to config color)")
	fs.IntVar(&e.thickness, "thickness", r.config.Thickness.Value, "initial stroke thickness in display pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && fs.NArg() == 1 {
		e.file = fs.Arg(0)
	}
	if e.file == "" {
		return nil, &UsageError{of: e, msg: "an image is required"}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	col, err := e.strokeColor(e.colorSpec)
	if err != nil {
		return err
	}
	sink, err := export.NewSink(e.outputDest(e.output), e.store)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	thickness := e.config.NewThickness()
	thickness.Set(e.thickness)

	app := ui.New(ui.Options{
		Canvas:    canvas.New(1, 1, canvas.WithJPEGQuality(e.config.Export.JPEGQuality)),
		Loader:    e.newLoader(),
		Thickness: thickness,
		Color:     col,
		Theme:     e.activeTheme(),
		Sink:      sink,
		Notifier:  e.notifier,
		Width:     e.config.Container.Width,
		Height:    e.config.Container.Height,
	})
	if err := app.Load(context.Background(), e.file); err != nil {
		return err
	}
	g := app.Editor().Geometry()
	logrus.WithFields(logrus.Fields{
		"source":  e.file,
		"display": fmt.Sprintf("%.0fx%.0f", g.DisplayWidth, g.DisplayHeight),
		"scale":   g.ScaleFactor,
	}).Info("editing")
	app.Run()
	return nil
}

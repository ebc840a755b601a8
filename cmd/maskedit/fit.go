package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/example/maskedit/internal/editor"
)

// fitCmd prints the display geometry for an image and container size.
type fitCmd struct {
	*root
	fs      *flag.FlagSet
	program string
	dims    [4]float64
	stdout  io.Writer
}

func (f *fitCmd) Program() string        { return f.program }
func (f *fitCmd) FlagSet() *flag.FlagSet { return f.fs }

func parseFitCmd(args []string, r *root) (*fitCmd, error) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	f := &fitCmd{root: r, fs: fs, program: r.subcommand("fit"), stdout: os.Stdout}
	fs.Usage = usageFunc(f)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 4 {
		return nil, &UsageError{of: f}
	}
	names := [4]string{"native width", "native height", "container width", "container height"}
	for i, raw := range fs.Args() {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %v", names[i], v)
		}
		f.dims[i] = v
	}
	return f, nil
}

func (f *fitCmd) Run() error {
	g := editor.ComputeDisplayGeometry(f.dims[0], f.dims[1], f.dims[2], f.dims[3])
	fmt.Fprintf(f.stdout, "native %gx%g display %gx%g scale %g\n",
		g.NativeWidth, g.NativeHeight, g.DisplayWidth, g.DisplayHeight, g.ScaleFactor)
	return nil
}

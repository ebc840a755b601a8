// Package script replays recorded pointer and history commands against an
// editor. Scripts are line oriented:
//
//	# comment
//	thickness 12
//	down 10 10
//	move 80 40
//	up
//	line 0 0 100 100
//	undo
//	redo
//	reset
//
// Coordinates are in backing-store pixels.
package script

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Op identifies a script command.
type Op string

const (
	OpDown      Op = "down"
	OpMove      Op = "move"
	OpUp        Op = "up"
	OpLine      Op = "line"
	OpUndo      Op = "undo"
	OpRedo      Op = "redo"
	OpReset     Op = "reset"
	OpThickness Op = "thickness"
)

var arity = map[Op]int{
	OpDown:      2,
	OpMove:      2,
	OpUp:        0,
	OpLine:      4,
	OpUndo:      0,
	OpRedo:      0,
	OpReset:     0,
	OpThickness: 1,
}

// Command is one parsed script line.
type Command struct {
	Op   Op
	Args []float64
	Line int
}

func (c Command) String() string {
	parts := []string{string(c.Op)}
	for _, a := range c.Args {
		parts = append(parts, strconv.FormatFloat(a, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

// SyntaxError reports a malformed script line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads commands from r. Blank lines and lines starting with # are
// skipped; commands are case-insensitive.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		op := Op(strings.ToLower(fields[0]))
		want, ok := arity[op]
		if !ok {
			return nil, &SyntaxError{Line: n, Msg: fmt.Sprintf("unknown command %q", fields[0])}
		}
		if len(fields)-1 != want {
			return nil, &SyntaxError{Line: n, Msg: fmt.Sprintf("%s takes %d arguments, got %d", op, want, len(fields)-1)}
		}
		args := make([]float64, want)
		for i, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &SyntaxError{Line: n, Msg: fmt.Sprintf("invalid number %q", raw)}
			}
			args[i] = v
		}
		cmds = append(cmds, Command{Op: op, Args: args, Line: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// Package render draws text frames of built-in environments.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uilive"
)

// Screen redraws a multi-line frame in place on a terminal.
type Screen struct {
	writer *uilive.Writer
}

// NewScreen draws to out, or to stdout when out is nil.
func NewScreen(out io.Writer) *Screen {
	if out == nil {
		out = os.Stdout
	}
	writer := uilive.New()
	writer.Out = out
	return &Screen{writer: writer}
}

// Draw replaces the previously drawn frame with frame.
func (s *Screen) Draw(frame string) error {
	if _, err := fmt.Fprint(s.writer, frame); err != nil {
		return err
	}
	return s.writer.Flush()
}

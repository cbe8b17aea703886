package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	infoTag  = color.New(color.FgCyan, color.Bold)
	warnTag  = color.New(color.FgYellow, color.Bold)
	errorTag = color.New(color.FgRed, color.Bold)
)

// Status writes bracket-tagged progress lines, normally to stderr.
type Status struct {
	out io.Writer
	tag string
}

// NewStatus creates a Status that tags every line with [tag].
func NewStatus(out io.Writer, tag string) *Status {
	return &Status{out: out, tag: tag}
}

func (s *Status) Infof(format string, args ...interface{}) {
	s.write(infoTag, format, args...)
}

func (s *Status) Warnf(format string, args ...interface{}) {
	s.write(warnTag, format, args...)
}

func (s *Status) Errorf(format string, args ...interface{}) {
	s.write(errorTag, format, args...)
}

func (s *Status) write(c *color.Color, format string, args ...interface{}) {
	c.Fprintf(s.out, "[%s]", s.tag)
	fmt.Fprintf(s.out, " "+format+"\n", args...)
}

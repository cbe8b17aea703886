package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mj1618/botlite/internal/telegram"
)

// Color palette for chat prefixes
var colorPalette = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgYellow),
	color.New(color.FgGreen),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
	color.New(color.FgHiCyan),
	color.New(color.FgHiYellow),
	color.New(color.FgHiGreen),
	color.New(color.FgHiMagenta),
}

// PrefixedWriter wraps an io.Writer and prefixes each line with a colored label.
// It buffers partial lines and only writes complete lines to prevent interleaving.
type PrefixedWriter struct {
	out    io.Writer
	prefix string
	color  *color.Color
	mu     *sync.Mutex // shared across a ChatWriters group
	buf    bytes.Buffer
}

// NewPrefixedWriter creates a PrefixedWriter. The mutex should be shared by
// every writer on the same output.
func NewPrefixedWriter(out io.Writer, prefix string, c *color.Color, mu *sync.Mutex) *PrefixedWriter {
	return &PrefixedWriter{
		out:    out,
		prefix: prefix,
		color:  c,
		mu:     mu,
	}
}

// Write implements io.Writer. Only complete lines are written through.
func (w *PrefixedWriter) Write(p []byte) (n int, err error) {
	n = len(p)

	w.buf.Write(p)

	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// No complete line yet
			w.buf.Write(line)
			break
		}
		w.writeLine(line)
	}

	return n, nil
}

func (w *PrefixedWriter) writeLine(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.color.Fprintf(w.out, "%s | ", w.prefix)
	w.out.Write(line)
}

// Flush writes any buffered partial line, terminated with a newline.
func (w *PrefixedWriter) Flush() {
	if w.buf.Len() == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.color.Fprintf(w.out, "%s | ", w.prefix)
	w.out.Write(w.buf.Bytes())
	w.out.Write([]byte("\n"))
	w.buf.Reset()
}

// ChatWriters hands out one PrefixedWriter per chat label. Colors are
// assigned from the palette in first-seen order.
type ChatWriters struct {
	out     io.Writer
	width   int
	mu      *sync.Mutex
	writers map[string]*PrefixedWriter
}

// NewChatWriters creates a group whose prefixes are padded or cut to width.
func NewChatWriters(out io.Writer, width int) *ChatWriters {
	return &ChatWriters{
		out:     out,
		width:   width,
		mu:      &sync.Mutex{},
		writers: make(map[string]*PrefixedWriter),
	}
}

// For returns the writer for label, creating it on first use.
func (g *ChatWriters) For(label string) *PrefixedWriter {
	if w, ok := g.writers[label]; ok {
		return w
	}
	c := colorPalette[len(g.writers)%len(colorPalette)]
	w := NewPrefixedWriter(g.out, fitWidth(label, g.width), c, g.mu)
	g.writers[label] = w
	return w
}

// FlushAll flushes all writers in the group.
func (g *ChatWriters) FlushAll() {
	for _, w := range g.writers {
		w.Flush()
	}
}

// WriteMessage writes one summary line for msg under its chat's prefix.
func (g *ChatWriters) WriteMessage(msg *telegram.Message) {
	fmt.Fprintln(g.For(ChatLabel(msg.Chat)), MessageSummary(msg))
}

// ChatLabel returns a human-readable name for a chat.
func ChatLabel(c telegram.Chat) string {
	switch {
	case c.Username != "":
		return "@" + c.Username
	case c.Title != "":
		return c.Title
	case c.FirstName != "" || c.LastName != "":
		return strings.TrimSpace(c.FirstName + " " + c.LastName)
	default:
		return fmt.Sprintf("chat-%d", c.ID)
	}
}

// MessageSummary renders a message as one line of text.
func MessageSummary(m *telegram.Message) string {
	var parts []string
	if m.From != nil && m.From.Username != "" {
		parts = append(parts, "@"+m.From.Username+":")
	}
	if m.Animation != nil {
		parts = append(parts, "[animation "+m.Animation.FileID+"]")
	}
	switch {
	case m.Text != "":
		parts = append(parts, m.Text)
	case m.Caption != "":
		parts = append(parts, m.Caption)
	}
	if len(parts) == 0 {
		return "(no text)"
	}
	return strings.ReplaceAll(strings.Join(parts, " "), "\n", " ")
}

// fitWidth pads s with spaces or cuts it to width. Zero width keeps s.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}

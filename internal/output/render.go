package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mj1618/botlite/internal/telegram"
	"gopkg.in/yaml.v3"
)

// Render writes v to w as json, yaml or text. Text rendering understands
// updates, messages and users; anything else falls back to %+v.
func Render(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		return renderText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, v interface{}) error {
	switch val := v.(type) {
	case []telegram.Update:
		if len(val) == 0 {
			_, err := fmt.Fprintln(w, "No updates.")
			return err
		}
		for _, u := range val {
			if _, err := fmt.Fprintln(w, UpdateLine(u)); err != nil {
				return err
			}
		}
		return nil
	case *telegram.Message:
		_, err := fmt.Fprintf(w, "Sent message %d to %s at %s: %s\n",
			val.MessageID, ChatLabel(val.Chat), formatDate(val.Date), MessageSummary(val))
		return err
	case *telegram.User:
		_, err := fmt.Fprintf(w, "%s (@%s, id %d)\n", val.FirstName, val.Username, val.ID)
		return err
	default:
		_, err := fmt.Fprintf(w, "%+v\n", v)
		return err
	}
}

// UpdateLine renders one update as a single text line.
func UpdateLine(u telegram.Update) string {
	msg := u.EffectiveMessage()
	if msg == nil {
		return fmt.Sprintf("#%d  (no message)", u.UpdateID)
	}
	return fmt.Sprintf("#%d  %s  %-20s %s", u.UpdateID, formatDate(msg.Date), ChatLabel(msg.Chat), MessageSummary(msg))
}

func formatDate(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
}

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/botlite/internal/telegram"
	"gopkg.in/yaml.v3"
)

func sampleUpdates() []telegram.Update {
	return []telegram.Update{
		{UpdateID: 5, Message: &telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: 9, Username: "alice"}, Text: "ping"}},
		{UpdateID: 6},
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "json", sampleUpdates()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0]["update_id"] != float64(5) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
	if _, ok := decoded[1]["message"]; ok {
		t.Error("empty message should be omitted")
	}
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "YAML", sampleUpdates()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["update_id"] != 5 {
		t.Errorf("unexpected YAML: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "text: ping") {
		t.Errorf("YAML missing message text: %s", buf.String())
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "text", sampleUpdates()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "#5") || !strings.Contains(out, "@alice") || !strings.Contains(out, "ping") {
		t.Errorf("unexpected text output: %q", out)
	}
	if !strings.Contains(out, "#6  (no message)") {
		t.Errorf("missing empty update line: %q", out)
	}

	buf.Reset()
	if err := Render(&buf, "", []telegram.Update{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No updates.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRender_TextMessageAndUser(t *testing.T) {
	var buf bytes.Buffer
	msg := &telegram.Message{MessageID: 42, Chat: telegram.Chat{ID: 123}, Text: "hello"}
	if err := Render(&buf, "text", msg); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Sent message 42 to chat-123") || !strings.HasSuffix(buf.String(), ": hello\n") {
		t.Errorf("unexpected message text: %q", buf.String())
	}

	buf.Reset()
	user := &telegram.User{ID: 7, FirstName: "Lite", Username: "lite_bot"}
	if err := Render(&buf, "text", user); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Lite (@lite_bot, id 7)\n" {
		t.Errorf("unexpected user text: %q", buf.String())
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStatus_Lines(t *testing.T) {
	var buf bytes.Buffer
	s := NewStatus(&buf, "botlite")

	s.Infof("polling with offset %d", 8)
	s.Warnf("no chat")
	s.Errorf("failed: %v", "boom")

	want := "[botlite] polling with offset 8\n[botlite] no chat\n[botlite] failed: boom\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

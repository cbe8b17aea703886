package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/mj1618/botlite/internal/config"
	"github.com/mj1618/botlite/internal/telegram"
)

type recordedCall struct {
	method string
	query  url.Values
	body   map[string]interface{}
}

// botServer replays canned responses per Bot API method. The last response
// of a method repeats once its queue is drained.
type botServer struct {
	mu        sync.Mutex
	responses map[string][]string
	calls     []recordedCall
}

func newBotServer(t *testing.T) *botServer {
	t.Helper()
	s := &botServer{responses: make(map[string][]string)}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	isolate(t)
	t.Setenv(config.EnvToken, "123:test")
	t.Setenv(config.EnvAPIRoot, srv.URL)
	return s
}

func (s *botServer) respond(method string, bodies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method] = append(s.responses[method], bodies...)
}

func (s *botServer) callsTo(method string) []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedCall
	for _, c := range s.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := recordedCall{
		method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:],
		query:  r.URL.Query(),
	}
	if r.Method == http.MethodPost {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &call.body)
	}
	s.calls = append(s.calls, call)

	queue := s.responses[call.method]
	if len(queue) == 0 {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		return
	}
	if len(queue) > 1 {
		s.responses[call.method] = queue[1:]
	}
	io.WriteString(w, queue[0])
}

const (
	sentMessage = `{"ok":true,"result":{"message_id":55,"chat":{"id":42,"type":"private","username":"alice"},"date":1700000000,"text":"hello world"}}`
	noUpdates   = `{"ok":true,"result":[]}`
	botUser     = `{"ok":true,"result":{"id":999,"is_bot":true,"first_name":"Lite","username":"lite_bot"}}`
)

func updateList(ids ...int) string {
	var parts []string
	for _, id := range ids {
		parts = append(parts, `{"update_id":`+itoa(id)+`,"message":{"message_id":1,"chat":{"id":42,"username":"alice"},"date":1700000000,"text":"msg `+itoa(id)+`"}}`)
	}
	return `{"ok":true,"result":[` + strings.Join(parts, ",") + `]}`
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestUpdatesCommand_ConsecutivePollsAdvanceOffset(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getUpdates", updateList(5, 6), noUpdates)

	stdout, stderr, err := executeCommand(context.Background(), "updates", "--polls", "2", "--timeout", "0")
	if err != nil {
		t.Fatalf("updates failed: %v", err)
	}

	calls := srv.callsTo("getUpdates")
	if len(calls) != 2 {
		t.Fatalf("expected 2 getUpdates calls, got %d", len(calls))
	}
	if got := calls[0].query.Get("offset"); got != "0" {
		t.Errorf("first offset = %q, want 0", got)
	}
	if got := calls[1].query.Get("offset"); got != "7" {
		t.Errorf("second offset = %q, want 7", got)
	}
	if got := calls[0].query.Get("timeout"); got != "0" {
		t.Errorf("timeout = %q, want 0", got)
	}
	if !strings.Contains(stdout, "#5") || !strings.Contains(stdout, "#6") || !strings.Contains(stdout, "No updates.") {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "next offset 7") {
		t.Errorf("expected next offset on stderr, got %q", stderr)
	}
}

func TestUpdatesCommand_ExplicitOffsetAndJSON(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getUpdates", updateList(12))

	stdout, _, err := executeCommand(context.Background(), "updates", "--offset", "10", "--limit", "5", "-o", "json")
	if err != nil {
		t.Fatalf("updates failed: %v", err)
	}

	call := srv.callsTo("getUpdates")[0]
	if call.query.Get("offset") != "10" || call.query.Get("limit") != "5" {
		t.Errorf("unexpected query: %v", call.query)
	}

	var decoded []telegram.Update
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if len(decoded) != 1 || decoded[0].UpdateID != 12 {
		t.Errorf("unexpected updates: %+v", decoded)
	}
}

func TestUpdatesCommand_NegativeLimitRejected(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getUpdates", noUpdates)

	_, _, err := executeCommand(context.Background(), "updates", "--limit", "-1")
	var argErr *telegram.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
	if len(srv.callsTo("getUpdates")) != 0 {
		t.Error("no request should be sent for invalid arguments")
	}
}

func TestUpdatesCommand_MissingToken(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(context.Background(), "updates")
	if err == nil || !strings.Contains(err.Error(), "bot token required") {
		t.Errorf("expected missing token error, got %v", err)
	}
}

func TestSendCommand(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendMessage", sentMessage)

	stdout, _, err := executeCommand(context.Background(), "send", "--chat", "42", "hello", "world")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	calls := srv.callsTo("sendMessage")
	if len(calls) != 1 {
		t.Fatalf("expected 1 sendMessage call, got %d", len(calls))
	}
	if calls[0].body["chat_id"] != float64(42) || calls[0].body["text"] != "hello world" {
		t.Errorf("unexpected body: %v", calls[0].body)
	}
	if !strings.HasPrefix(stdout, "Sent message 55 to @alice") {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestSendCommand_ChatFromEnvironment(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendMessage", sentMessage)
	t.Setenv(config.EnvChat, "@mychannel")

	if _, _, err := executeCommand(context.Background(), "send", "hi"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got := srv.callsTo("sendMessage")[0].body["chat_id"]; got != "@mychannel" {
		t.Errorf("chat_id = %v, want @mychannel", got)
	}
}

func TestSendCommand_NoChat(t *testing.T) {
	newBotServer(t)

	_, _, err := executeCommand(context.Background(), "send", "hi")
	if err == nil || !strings.Contains(err.Error(), "chat required") {
		t.Errorf("expected chat required error, got %v", err)
	}
}

func TestSendCommand_APIError(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendMessage", `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)

	_, _, err := executeCommand(context.Background(), "send", "--chat", "1", "hi")
	if !errors.Is(err, telegram.ErrNotOK) {
		t.Fatalf("expected ErrNotOK, got %v", err)
	}
	var apiErr *telegram.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode != 400 {
		t.Errorf("expected APIError with code 400, got %v", err)
	}
}

func TestSendAnimationCommand(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendAnimation", `{"ok":true,"result":{"message_id":56,"chat":{"id":42},"date":1700000000,"caption":"nice","animation":{"file_id":"GIF1","file_unique_id":"u1","width":1,"height":1,"duration":1}}}`)

	stdout, _, err := executeCommand(context.Background(), "send-animation", "--chat", "42", "--caption", "nice", "https://example.com/cat.gif")
	if err != nil {
		t.Fatalf("send-animation failed: %v", err)
	}

	body := srv.callsTo("sendAnimation")[0].body
	if body["animation"] != "https://example.com/cat.gif" || body["caption"] != "nice" {
		t.Errorf("unexpected body: %v", body)
	}
	if !strings.Contains(stdout, "[animation GIF1] nice") {
		t.Errorf("unexpected stdout: %q", stdout)
	}
}

func TestSendAnimationCommand_NoCaptionOmitted(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendAnimation", `{"ok":true,"result":{"message_id":57,"chat":{"id":42},"date":1}}`)

	if _, _, err := executeCommand(context.Background(), "send-animation", "--chat", "42", "FILEID"); err != nil {
		t.Fatalf("send-animation failed: %v", err)
	}
	if _, ok := srv.callsTo("sendAnimation")[0].body["caption"]; ok {
		t.Error("empty caption should be omitted from the request")
	}
}

func TestWhoamiCommand(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getMe", botUser)

	stdout, _, err := executeCommand(context.Background(), "whoami")
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	for _, want := range []string{"@lite_bot", "999", "123:****"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("whoami output missing %q: %q", want, stdout)
		}
	}
	if strings.Contains(stdout, "123:test") {
		t.Error("whoami must not print the full token")
	}
}

func TestDemoCommand(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("sendMessage", sentMessage)
	srv.respond("getUpdates", updateList(3), noUpdates)

	_, _, err := executeCommand(context.Background(), "demo", "--chat", "42")
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	if got := srv.callsTo("sendMessage")[0].body["text"]; got != "test" {
		t.Errorf("demo text = %v, want test", got)
	}
	polls := srv.callsTo("getUpdates")
	if len(polls) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(polls))
	}
	if polls[0].query.Get("timeout") != "0" || polls[1].query.Get("timeout") != "0" {
		t.Error("demo should short poll")
	}
	if got := polls[1].query.Get("offset"); got != "4" {
		t.Errorf("second poll offset = %q, want 4", got)
	}
}

func TestListenCommand_PrintsMessagesUntilPollFails(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getMe", botUser)
	srv.respond("getUpdates", updateList(1, 2), `{"ok":false,"error_code":409,"description":"Conflict: terminated by other getUpdates request"}`)

	stdout, stderr, err := executeCommand(context.Background(), "listen")
	if !errors.Is(err, telegram.ErrNotOK) {
		t.Fatalf("expected listen to stop with ErrNotOK, got %v", err)
	}
	if !strings.Contains(stdout, "@alice | msg 1") || !strings.Contains(stdout, "@alice | msg 2") {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "@lite_bot") {
		t.Errorf("expected startup line on stderr, got %q", stderr)
	}
	if got := srv.callsTo("getUpdates")[1].query.Get("offset"); got != "3" {
		t.Errorf("second poll offset = %q, want 3", got)
	}
}

func TestListenCommand_ChatFilter(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getMe", botUser)
	srv.respond("getUpdates", updateList(1), `{"ok":false,"description":"stop"}`)

	stdout, _, _ := executeCommand(context.Background(), "listen", "--chat-filter", "7")
	if strings.Contains(stdout, "msg 1") {
		t.Errorf("filtered chat should not be printed: %q", stdout)
	}
}

func writeProjectConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(config.ProjectConfigPath(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestUpdatesCommand_TimeoutFlagMustFitRequestTimeout(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{name: "default request timeout", args: []string{"updates", "--timeout", "60"}},
		{name: "equal to request timeout", args: []string{"updates", "--timeout", "35"}},
		{name: "configured request timeout", config: "request_timeout = \"1s\"\n[poll]\ntimeout = 0\n", args: []string{"updates", "--timeout", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBotServer(t)
			srv.respond("getUpdates", noUpdates)
			if tt.config != "" {
				writeProjectConfig(t, tt.config)
			}

			_, _, err := executeCommand(context.Background(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), "must be shorter than request_timeout") {
				t.Fatalf("expected request_timeout error, got %v", err)
			}
			if n := len(srv.callsTo("getUpdates")); n != 0 {
				t.Errorf("expected no getUpdates calls, got %d", n)
			}
		})
	}
}

func TestUpdatesCommand_TimeoutFlagWithinRequestTimeout(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getUpdates", noUpdates)

	if _, _, err := executeCommand(context.Background(), "updates", "--timeout", "34"); err != nil {
		t.Fatalf("updates failed: %v", err)
	}
	if got := srv.callsTo("getUpdates")[0].query.Get("timeout"); got != "34" {
		t.Errorf("timeout = %q, want 34", got)
	}
}

func TestListenCommand_RequiresLongPollTimeout(t *testing.T) {
	srv := newBotServer(t)
	srv.respond("getMe", botUser)
	srv.respond("getUpdates", noUpdates)
	writeProjectConfig(t, "[poll]\ntimeout = 0\n")

	_, _, err := executeCommand(context.Background(), "listen")
	if err == nil || !strings.Contains(err.Error(), "long-poll timeout of at least 1s") {
		t.Fatalf("expected long-poll timeout error, got %v", err)
	}
	if n := len(srv.callsTo("getUpdates")); n != 0 {
		t.Errorf("expected no getUpdates calls, got %d", n)
	}
}

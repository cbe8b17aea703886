package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/botlite/internal/version"
)

const (
	// DefaultAPIRoot is the public Bot API server.
	DefaultAPIRoot = "https://api.telegram.org"

	// DefaultRequestTimeout is slightly longer than the default long-poll timeout.
	DefaultRequestTimeout = 35 * time.Second

	DefaultLimit   = 100
	DefaultTimeout = 30

	methodGetMe         = "getMe"
	methodGetUpdates    = "getUpdates"
	methodSendMessage   = "sendMessage"
	methodSendAnimation = "sendAnimation"
)

var errMissingResult = errors.New("missing result")

// ClientConfig holds the settings a Client is built from.
type ClientConfig struct {
	Token string

	// APIRoot overrides DefaultAPIRoot (tests, self-hosted Bot API servers).
	APIRoot string

	// AutoOffset is advisory: it is recorded on the client for callers
	// that want to know whether offsets are tracked automatically.
	AutoOffset bool

	// HTTPClient is used as-is when set; RequestTimeout is ignored then.
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client wraps HTTP calls to the Telegram Bot API and tracks the last seen
// update id so the next poll starts after it.
type Client struct {
	baseURL    string
	autoOffset bool
	httpClient *http.Client

	mu           sync.Mutex
	lastUpdateID int64
}

// NewClient creates a client for the public Bot API with auto-offset on.
func NewClient(token string) *Client {
	return NewClientWithConfig(ClientConfig{Token: token, AutoOffset: true})
}

// NewClientWithConfig creates a client from cfg.
func NewClientWithConfig(cfg ClientConfig) *Client {
	root := strings.TrimRight(cfg.APIRoot, "/")
	if root == "" {
		root = DefaultAPIRoot
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      fmt.Sprintf("%s/bot%s/", root, cfg.Token),
		autoOffset:   cfg.AutoOffset,
		httpClient:   httpClient,
		lastUpdateID: -1,
	}
}

// AutoOffset reports the advisory auto-offset setting.
func (c *Client) AutoOffset() bool {
	return c.autoOffset
}

// LastUpdateID returns the highest update id seen so far, or -1.
func (c *Client) LastUpdateID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdateID
}

// NextOffset returns the offset GetUpdates uses when none is given.
func (c *Client) NextOffset() int64 {
	return c.LastUpdateID() + 1
}

// GetUpdatesOptions are the getUpdates parameters. A nil Offset means
// "one past the last seen update". Zero Limit means DefaultLimit; zero
// Timeout is sent as 0 (short polling).
type GetUpdatesOptions struct {
	Offset  *int64
	Limit   int
	Timeout int
}

// DefaultGetUpdatesOptions returns limit 100, timeout 30 and no offset.
func DefaultGetUpdatesOptions() GetUpdatesOptions {
	return GetUpdatesOptions{Limit: DefaultLimit, Timeout: DefaultTimeout}
}

// Offset is a helper for setting GetUpdatesOptions.Offset.
func Offset(n int64) *int64 {
	return &n
}

// GetMe returns the bot's own user record.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, methodGetMe, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates polls for new updates. On success the last seen update id
// becomes the maximum of its previous value and the returned ids; on any
// failure it is left unchanged.
func (c *Client) GetUpdates(ctx context.Context, opts GetUpdatesOptions) ([]Update, error) {
	if opts.Limit < 0 {
		return nil, &ArgumentError{Name: "limit", Value: opts.Limit}
	}
	if opts.Timeout < 0 {
		return nil, &ArgumentError{Name: "timeout", Value: opts.Timeout}
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	offset := c.NextOffset()
	if opts.Offset != nil {
		offset = *opts.Offset
	}

	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("timeout", strconv.Itoa(opts.Timeout))

	var updates []Update
	if err := c.get(ctx, methodGetUpdates, params, &updates); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for _, u := range updates {
		if u.UpdateID > c.lastUpdateID {
			c.lastUpdateID = u.UpdateID
		}
	}
	c.mu.Unlock()

	if updates == nil {
		updates = []Update{}
	}
	return updates, nil
}

// SendMessage sends a text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID ChatID, text string) (*Message, error) {
	var msg Message
	req := sendMessageRequest{ChatID: chatID, Text: text}
	if err := c.post(ctx, methodSendMessage, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendAnimation sends a GIF or silent video by URL or file id. The caption
// is left out of the request when empty.
func (c *Client) SendAnimation(ctx context.Context, chatID ChatID, animation, caption string) (*Message, error) {
	var msg Message
	req := sendAnimationRequest{ChatID: chatID, Animation: animation, Caption: caption}
	if err := c.post(ctx, methodSendAnimation, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out interface{}) error {
	u := c.baseURL + method
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, method, out)
}

func (c *Client) post(ctx context.Context, method string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, method, out)
}

// do sends req and decodes the envelope. The envelope is decoded whatever
// the HTTP status, since Telegram reports failures in it.
func (c *Client) do(req *http.Request, method string, out interface{}) error {
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	status := 0
	if resp.StatusCode != http.StatusOK {
		status = resp.StatusCode
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return &DecodeError{Method: method, StatusCode: status, Err: err}
	}

	if !apiResp.OK {
		return &APIError{
			Method:      method,
			ErrorCode:   apiResp.ErrorCode,
			Description: apiResp.Description,
			Parameters:  apiResp.Parameters,
		}
	}

	return decodeResult(method, apiResp.Result, out)
}

func decodeResult(method string, raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		// getUpdates without a result is an empty batch.
		if method == methodGetUpdates {
			return nil
		}
		return &DecodeError{Method: method, Err: errMissingResult}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Method: method, Err: err}
	}
	return nil
}

// Package notify is the outbound (and long-polling inbound) Telegram Bot API
// client. Sends have a bounded timeout and callers treat failures as
// non-fatal.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	sendTimeout    = 10 * time.Second
	// Long-poll window for GetUpdates. The HTTP client timeout must exceed
	// it.
	pollSeconds = 30
)

// Telegram talks to the Bot API with a plain HTTP client.
type Telegram struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewTelegram creates a client for the given bot token.
func NewTelegram(token string) *Telegram {
	return &Telegram{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: (pollSeconds + 10) * time.Second},
	}
}

// SetBaseURL points the client at a different API host. Test hook.
func (t *Telegram) SetBaseURL(u string) {
	t.baseURL = u
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *Telegram) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: encode: %w", method, err)
	}
	u := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram %s: read response: %w", method, err)
	}
	var api apiResponse
	if err := json.Unmarshal(data, &api); err != nil {
		return fmt.Errorf("telegram %s: decode (status %d): %w", method, resp.StatusCode, err)
	}
	if !api.OK {
		return fmt.Errorf("telegram %s: api error: %s", method, api.Description)
	}
	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

// Send delivers one text message to a chat with a bounded timeout.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	return t.call(ctx, "sendMessage", payload, nil)
}

// Update is one inbound Bot API event. Only plain messages are routed.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the inbound message slice of an update.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Updates long-polls for updates after offset.
func (t *Telegram) Updates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{
		"offset":  offset,
		"timeout": pollSeconds,
	}
	var updates []Update
	if err := t.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// ParseChatID parses a chat id from configuration text.
func ParseChatID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", s, err)
	}
	return id, nil
}

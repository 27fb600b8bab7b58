package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chatterm/chatterm/pkg/api"
)

// Sessions fetches all sessions, server-ordered.
func (c *Client) Sessions(ctx context.Context) ([]api.SessionInfo, error) {
	var out api.SessionsResponse
	if err := c.get(ctx, c.baseURL.JoinPath("api", "sessions"), &out); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return out.Sessions, nil
}

// CreateSession creates a server-side session with the given title and
// returns its id.
func (c *Client) CreateSession(ctx context.Context, title string) (string, error) {
	u := c.baseURL.JoinPath("api", "sessions")
	u.RawQuery = url.Values{"title": {title}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	var out api.CreateSessionResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return out.SessionID, nil
}

// DeleteSession deletes the session with the given id.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	u := c.baseURL.JoinPath("api", "sessions", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.String(), nil)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// SessionMessages fetches the message history of a session.
func (c *Client) SessionMessages(ctx context.Context, id string) ([]api.Message, error) {
	var out api.MessagesResponse
	if err := c.get(ctx, c.baseURL.JoinPath("api", "sessions", id, "messages"), &out); err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	return out.Messages, nil
}

func (c *Client) get(ctx context.Context, u *url.URL, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request and decodes a JSON response into out when out
// is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

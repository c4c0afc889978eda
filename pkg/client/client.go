// Package client calls the wordfilter HTTP service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wordfilter/pkg/censor"
	"wordfilter/pkg/models"
)

const timeout = 5 * time.Second

// StatusError is returned for unexpected response codes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordfilter returned status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Detect(ctx context.Context, text string) (bool, error) {
	var resp models.DetectResponse
	if err := c.do(ctx, http.MethodPost, "/detect", models.TextRequest{Text: text}, &resp); err != nil {
		return false, err
	}
	return resp.Detected, nil
}

// DetectMessage returns an error matching censor.ErrNotFormatted when the
// service rejects message.
func (c *Client) DetectMessage(ctx context.Context, message string) (bool, error) {
	var resp models.DetectResponse
	err := c.do(ctx, http.MethodPost, "/detect/message", models.MessageRequest{Message: message}, &resp)
	if err != nil {
		return false, formatError(err, message)
	}
	return resp.Detected, nil
}

func (c *Client) Censor(ctx context.Context, text string) (string, error) {
	var resp models.TextResponse
	if err := c.do(ctx, http.MethodPost, "/censor", models.TextRequest{Text: text}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) CensorMessage(ctx context.Context, message string) (string, error) {
	var resp models.MessageResponse
	err := c.do(ctx, http.MethodPost, "/censor/message", models.MessageRequest{Message: message}, &resp)
	if err != nil {
		return "", formatError(err, message)
	}
	return resp.Message, nil
}

func (c *Client) History(ctx context.Context) ([]censor.Record, error) {
	var records []censor.Record
	if err := c.do(ctx, http.MethodGet, "/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CheckComment reports whether the service accepts comment.
func (c *Client) CheckComment(ctx context.Context, comment models.Comment) (bool, error) {
	err := c.do(ctx, http.MethodPost, "/check", comment, nil)
	if err == nil {
		return true, nil
	}
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusUnprocessableEntity {
		return false, nil
	}
	return false, err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error calling wordfilter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response from %s: %w", path, err)
	}

	return nil
}

// formatError maps the service's format rejection back to *censor.FormatError.
// Other 400 replies, such as invalid JSON, stay a *StatusError.
func formatError(err error, message string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusBadRequest &&
		strings.HasPrefix(se.Body, censor.ErrNotFormatted.Error()) {
		return &censor.FormatError{Input: message}
	}
	return err
}

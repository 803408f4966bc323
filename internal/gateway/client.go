package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"visitor-kiosk/internal/model"
)

// ErrDocumentMissing is returned when the gateway has no document to show.
var ErrDocumentMissing = errors.New("no document available")

// StatusError is returned for any non-2xx gateway response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Code)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Code, e.Message)
}

// ActionResult is the gateway's reply to a stamping request.
type ActionResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Client talks to the backend gateway.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a gateway client. Every request is bounded by timeout.
func NewClient(baseURL, proxy string, timeout time.Duration, log *zap.Logger) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.Warn("invalid proxy URL, gateway client will not use a proxy", zap.String("proxy", proxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Visitors fetches today's visible visitors.
func (c *Client) Visitors(ctx context.Context) ([]model.Visitor, error) {
	var visitors []model.Visitor
	if err := c.getJSON(ctx, "/api/visitors", &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// PendingVisitors fetches the visible visitors still waiting to check in.
func (c *Client) PendingVisitors(ctx context.Context) ([]model.Visitor, error) {
	var visitors []model.Visitor
	if err := c.getJSON(ctx, "/api/visitors/pending-checkin", &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// RoomStatus fetches the occupancy of the configured room.
func (c *Client) RoomStatus(ctx context.Context) (model.RoomStatus, error) {
	var status model.RoomStatus
	err := c.getJSON(ctx, "/api/room-status", &status)
	return status, err
}

// MediaList fetches the fallback slideshow file names.
func (c *Client) MediaList(ctx context.Context) ([]string, error) {
	var files []string
	if err := c.getJSON(ctx, "/api/media-list", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Document fetches the privacy document the visitor must accept.
func (c *Client) Document(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/visitor-document")
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, ErrDocumentMissing
		}
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrDocumentMissing
	}
	return content, nil
}

// AcceptDocument records that the visitor accepted the document.
func (c *Client) AcceptDocument(ctx context.Context, visitorID int64) (ActionResult, error) {
	return c.action(ctx, fmt.Sprintf("/api/visitors/accept-document/%d", visitorID))
}

// CheckIn records the visitor's arrival.
func (c *Client) CheckIn(ctx context.Context, visitorID int64) (ActionResult, error) {
	return c.action(ctx, fmt.Sprintf("/api/visitors/checkin/%d", visitorID))
}

func (c *Client) action(ctx context.Context, path string) (ActionResult, error) {
	var result ActionResult
	resp, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if !result.Success {
		return result, fmt.Errorf("gateway rejected %s: %s", path, result.Message)
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// do sends a request and returns the response when the status is 2xx. The
// caller closes the body.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return nil, &StatusError{Code: resp.StatusCode, Message: body.Error}
	}
	return resp, nil
}

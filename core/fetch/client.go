// Package fetch implements the Source and Sink interfaces against the
// case-management REST API. It logs in with a form-based session and
// keeps the session cookie for subsequent JSON calls.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	loginPagePath = "/authed/user.action?cmd=welcome"
	loginPath     = "/authed/j_security_check"
)

var (
	// ErrAuthFailed is returned when the login form is rejected.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrEmptyResponse is returned when the API answers 200 with no body.
	ErrEmptyResponse = errors.New("empty API response")
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
	Retries  int
}

// Client talks to the chronology API.
type Client struct {
	http     *resty.Client
	baseURL  string
	user     string
	password string
}

// New creates a Client. Call Login before any other method.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.User == "" || opts.Password == "" {
		return nil, fmt.Errorf("missing USER or PASSWORD")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	baseURL, err := NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetCookieJar(jar).
		SetHeader("User-Agent", defaultUserAgent).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(retryCondition)

	return &Client{
		http:     client,
		baseURL:  baseURL,
		user:     opts.User,
		password: opts.Password,
	}, nil
}

// retryCondition retries network errors and transient server statuses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// Login opens the welcome page to obtain a session, then posts the
// credentials to the security check endpoint.
func (c *Client) Login(ctx context.Context) error {
	if _, err := c.http.R().SetContext(ctx).Get(loginPagePath); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Referer", c.baseURL+loginPagePath).
		SetHeader("Origin", c.baseURL).
		SetFormData(map[string]string{
			"j_username": c.user,
			"j_password": c.password,
		}).
		Post(loginPath)
	if err != nil {
		return fmt.Errorf("posting credentials: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode())
	}

	logger.FromContext(ctx).Info("Authenticated", "base_url", c.baseURL)
	return nil
}

// FetchChronology returns the book's chronology entries.
func (c *Client) FetchChronology(ctx context.Context, bookID string) ([]core.Entry, error) {
	var entries []core.Entry
	if err := c.getJSON(ctx, chronologyPath(bookID), &entries); err != nil {
		return nil, fmt.Errorf("fetching chronology for book %s: %w", bookID, err)
	}
	return entries, nil
}

// FetchBookItems returns the documents the book's entries refer to.
func (c *Client) FetchBookItems(ctx context.Context, bookID string) ([]core.BookItem, error) {
	var items []core.BookItem
	if err := c.getJSON(ctx, chronologyPath(bookID)+"bookitems/", &items); err != nil {
		return nil, fmt.Errorf("fetching book items for book %s: %w", bookID, err)
	}
	return items, nil
}

// PutChronology replaces the book's chronology with entries.
func (c *Client) PutChronology(ctx context.Context, bookID string, entries []core.Entry) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(entries).
		Put(chronologyPath(bookID))
	if err != nil {
		return fmt.Errorf("updating chronology for book %s: %w", bookID, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		logger.FromContext(ctx).Info("Chronology updated", "book_id", bookID, "entries", len(entries), "status", resp.StatusCode())
		return nil
	default:
		return fmt.Errorf("updating chronology for book %s: status %d: %s", bookID, resp.StatusCode(), resp.String())
	}
}

// getJSON fetches path and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(path)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("API response", "path", path, "status", resp.StatusCode())

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	if strings.TrimSpace(resp.String()) == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decoding JSON: %w", err)
	}
	return nil
}

// Enrich copies description and documentType from the matching book item
// onto each entry.
func Enrich(entries []core.Entry, items []core.BookItem) {
	lookup := make(map[int64]core.BookItem, len(items))
	for _, item := range items {
		lookup[item.ID] = item
	}
	for i := range entries {
		if item, ok := lookup[entries[i].BookItemID]; ok {
			entries[i].Description = item.Description
			entries[i].DocumentType = item.DocumentType
		}
	}
}

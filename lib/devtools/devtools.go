// Package devtools reads and nudges pages in an externally managed Chrome
// instance through its remote debugging endpoint. It never launches a
// browser, opens tabs, or navigates; the session it attaches to is assumed
// to already be logged in and sitting on the right page.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
)

// ConnectionError indicates the debugging endpoint could not be reached or
// exposed no usable page target. Callers surface it verbatim and never
// retry automatically.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("devtools endpoint %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

type Client struct {
	endpoint string
	http     *resty.Client
	timeout  time.Duration
}

// endpoint is the debugging address, e.g. "http://127.0.0.1:9222".
// timeout bounds every individual session operation; a hung browser
// must not stall a read indefinitely.
func NewClient(endpoint string, timeout time.Duration) *Client {
	endpoint = strings.TrimRight(endpoint, "/")
	return &Client{
		endpoint: endpoint,
		http:     resty.New().SetBaseURL(endpoint).SetTimeout(timeout),
		timeout:  timeout,
	}
}

type versionInfo struct {
	Browser              string `json:"Browser"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

type targetInfo struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

func (c *Client) browserWebsocket(ctx context.Context) (string, error) {
	var info versionInfo
	res, err := c.http.R().SetContext(ctx).SetResult(&info).Get("/json/version")
	if err != nil {
		return "", &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	if res.IsError() {
		return "", &ConnectionError{
			Endpoint: c.endpoint,
			Err:      fmt.Errorf("GET /json/version: %s", res.Status()),
		}
	}
	if info.WebSocketDebuggerURL == "" {
		return "", &ConnectionError{
			Endpoint: c.endpoint,
			Err:      errors.New("no browser websocket url advertised"),
		}
	}
	return info.WebSocketDebuggerURL, nil
}

func (c *Client) pageTarget(ctx context.Context) (targetInfo, error) {
	var targets []targetInfo
	res, err := c.http.R().SetContext(ctx).SetResult(&targets).Get("/json/list")
	if err != nil {
		return targetInfo{}, &ConnectionError{Endpoint: c.endpoint, Err: err}
	}
	if res.IsError() {
		return targetInfo{}, &ConnectionError{
			Endpoint: c.endpoint,
			Err:      fmt.Errorf("GET /json/list: %s", res.Status()),
		}
	}
	for _, t := range targets {
		if t.Type == "page" && t.WebSocketDebuggerURL != "" {
			return t, nil
		}
	}
	return targetInfo{}, &ConnectionError{
		Endpoint: c.endpoint,
		Err:      errors.New("no page target found"),
	}
}

// Session is one attachment to an already-open page. Closing it drops the
// debugger connection; the tab itself stays open.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (c *Client) Attach(ctx context.Context) (*Session, error) {
	browserWS, err := c.browserWebsocket(ctx)
	if err != nil {
		return nil, err
	}
	page, err := c.pageTarget(ctx)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, browserWS, chromedp.NoModifyURL)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithTargetID(target.ID(page.ID)))
	cancel := func() {
		cancelTask()
		cancelAlloc()
	}

	// connect eagerly so an unreachable browser fails here, not mid-read
	connectCtx, cancelConnect := context.WithTimeout(taskCtx, c.timeout)
	defer cancelConnect()
	if err := chromedp.Run(connectCtx); err != nil {
		cancel()
		return nil, &ConnectionError{Endpoint: c.endpoint, Err: err}
	}

	return &Session{ctx: taskCtx, cancel: cancel, timeout: c.timeout}, nil
}

func (s *Session) Close() {
	s.cancel()
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) Title() (string, error) {
	var title string
	err := s.run(s.timeout, chromedp.Title(&title))
	if err != nil {
		return "", err
	}
	return title, nil
}

func (s *Session) HTML() (string, error) {
	var out string
	err := s.run(s.timeout, chromedp.OuterHTML("html", &out, chromedp.ByQuery))
	if err != nil {
		return "", err
	}
	return out, nil
}

// Nudge reloads the page and scrolls to the bottom so lazily rendered rows
// are materialized before the next read. The waits mirror how long the
// roster page takes to settle after a reload.
func (s *Session) Nudge() error {
	// the reload settle time lives inside the action list, so give this
	// call more headroom than a plain read
	return s.run(s.timeout+10*time.Second,
		chromedp.Reload(),
		chromedp.Sleep(5*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(time.Second),
	)
}

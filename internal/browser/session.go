// SPDX-License-Identifier: MIT

// Package browser drives a headless Chromium through playwright to observe
// the network requests an embed page makes.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	xlog "github.com/ManuGH/matchcast/internal/log"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

// ErrClosed is returned by Capture after Close.
var ErrClosed = errors.New("browser session closed")

const (
	defaultNavigationTimeout = 10 * time.Second
	clickTimeout             = 2 * time.Second
)

// DefaultClickSelectors nudge players that only start loading on interaction.
var DefaultClickSelectors = []string{"video", "body"}

var defaultArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-dev-shm-usage",
	"--no-sandbox",
}

// Options configures a Session.
type Options struct {
	Headless          bool
	UserAgent         string
	Referer           string
	ClickSelectors    []string
	NavigationTimeout time.Duration
	// InstallDriver downloads the playwright driver and Chromium on first start.
	InstallDriver bool
}

// Session owns one playwright driver and browser for the lifetime of a run.
// The browser is launched on the first Capture; later captures reuse it with
// a fresh, isolated context each.
type Session struct {
	opts Options

	startOnce sync.Once
	startErr  error

	mu      sync.Mutex
	closed  bool
	pw      *playwright.Playwright
	browser playwright.Browser
}

// New returns an unstarted Session.
func New(opts Options) *Session {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaultNavigationTimeout
	}
	if opts.ClickSelectors == nil {
		opts.ClickSelectors = DefaultClickSelectors
	}
	return &Session{opts: opts}
}

func (s *Session) start() error {
	s.startOnce.Do(func() {
		logger := xlog.WithComponent("browser")

		if s.opts.InstallDriver {
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
				s.startErr = fmt.Errorf("install playwright: %w", err)
				return
			}
		}

		pw, err := playwright.Run()
		if err != nil {
			s.startErr = fmt.Errorf("start playwright: %w", err)
			return
		}
		b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(s.opts.Headless),
			Args:     defaultArgs,
		})
		if err != nil {
			_ = pw.Stop()
			s.startErr = fmt.Errorf("launch chromium: %w", err)
			return
		}

		s.mu.Lock()
		s.pw, s.browser = pw, b
		s.mu.Unlock()

		logger.Info().
			Str(xlog.FieldEvent, "browser.started").
			Bool("headless", s.opts.Headless).
			Msg("headless browser started")
	})
	return s.startErr
}

// Capture opens pageURL and returns the first request URL accepted by match.
// It waits on request events, navigation completion and ctx; there are no
// fixed sleeps.
func (s *Session) Capture(ctx context.Context, pageURL string, match func(string) bool) (string, error) {
	if err := s.start(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	b := s.browser
	s.mu.Unlock()

	contextOpts := playwright.BrowserNewContextOptions{}
	if s.opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(s.opts.UserAgent)
	}
	if s.opts.Referer != "" {
		contextOpts.ExtraHttpHeaders = map[string]string{"Referer": s.opts.Referer}
	}
	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		return "", fmt.Errorf("new browser context: %w", err)
	}
	defer func() { _ = bctx.Close() }()

	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}

	found := make(chan string, 1)
	page.OnRequest(func(req playwright.Request) {
		if u := req.URL(); match(u) {
			select {
			case found <- u:
			default:
			}
		}
	})

	navDone := make(chan error, 1)
	go func() {
		_, err := page.Goto(pageURL, playwright.PageGotoOptions{
			Timeout:   playwright.Float(float64(s.opts.NavigationTimeout.Milliseconds())),
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		if err == nil {
			s.nudge(page)
		}
		navDone <- err
	}()

	logger := xlog.WithComponentFromContext(ctx, "browser")
	for {
		select {
		case u := <-found:
			return u, nil
		case err := <-navDone:
			navDone = nil
			if err != nil {
				logger.Debug().
					Str(xlog.FieldEvent, "browser.navigation_failed").
					Str(xlog.FieldEmbedURL, xnet.SanitizeURL(pageURL)).
					Err(err).
					Msg("navigation did not complete; still listening")
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// nudge clicks the first element of each configured selector, ignoring misses.
func (s *Session) nudge(page playwright.Page) {
	for _, sel := range s.opts.ClickSelectors {
		_ = page.Locator(sel).First().Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(float64(clickTimeout.Milliseconds())),
		})
	}
}

// Close shuts the browser and driver down. Safe to call on an unstarted or
// already closed Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

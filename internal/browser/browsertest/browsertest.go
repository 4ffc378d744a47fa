// Package browsertest provides an in-memory browser provider for tests.
package browsertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Site describes what the fake page shows for a URL.
type Site struct {
	Title    string
	Elements map[string]string
	Eval     map[string]interface{}
}

// Launcher is a fake ports.BrowserLauncher. Error fields inject failures into
// the corresponding operation of every browser it launches.
type Launcher struct {
	LaunchErr     error
	NewContextErr error
	NewPageErr    error
	CloseErr      error
	LoadErr       error
	ScreenshotErr error

	Sites map[string]Site

	mu       sync.Mutex
	browsers []*Browser
}

// NewLauncher creates a launcher with no injected failures.
func NewLauncher() *Launcher {
	return &Launcher{Sites: make(map[string]Site)}
}

// Launch implements ports.BrowserLauncher.
func (l *Launcher) Launch(ctx context.Context, opts ports.LaunchOptions) (ports.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	b := &Browser{launcher: l, Options: opts}
	l.mu.Lock()
	l.browsers = append(l.browsers, b)
	l.mu.Unlock()
	return b, nil
}

// Launches returns how many browsers were started.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.browsers)
}

// Browsers returns every launched browser in launch order.
func (l *Launcher) Browsers() []*Browser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Browser(nil), l.browsers...)
}

// OpenBrowsers returns how many launched browsers were never closed.
func (l *Launcher) OpenBrowsers() int {
	open := 0
	for _, b := range l.Browsers() {
		if !b.Closed() {
			open++
		}
	}
	return open
}

// Browser is a fake ports.Browser.
type Browser struct {
	Options ports.LaunchOptions

	launcher *Launcher
	mu       sync.Mutex
	closed   bool
	pages    []*Page
}

// NewContext implements ports.Browser.
func (b *Browser) NewContext(ctx context.Context) (ports.BrowserContext, error) {
	if err := b.usable(ctx); err != nil {
		return nil, err
	}
	if b.launcher.NewContextErr != nil {
		return nil, b.launcher.NewContextErr
	}
	return &browserContext{browser: b}, nil
}

// Close implements ports.Browser.
func (b *Browser) Close(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("browser already closed")
	}
	b.closed = true
	return b.launcher.CloseErr
}

// Closed reports whether Close was called.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Pages returns the pages opened in this browser.
func (b *Browser) Pages() []*Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Page(nil), b.pages...)
}

func (b *Browser) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.Closed() {
		return errors.New("browser is closed")
	}
	return nil
}

type browserContext struct {
	browser *Browser
}

func (c *browserContext) NewPage(ctx context.Context) (ports.Page, error) {
	if err := c.browser.usable(ctx); err != nil {
		return nil, err
	}
	if c.browser.launcher.NewPageErr != nil {
		return nil, c.browser.launcher.NewPageErr
	}
	p := &Page{browser: c.browser, values: make(map[string]string)}
	c.browser.mu.Lock()
	c.browser.pages = append(c.browser.pages, p)
	c.browser.mu.Unlock()
	return p, nil
}

// Page is a fake ports.Page backed by the launcher's Sites.
type Page struct {
	browser *Browser

	mu          sync.Mutex
	url         string
	visited     []string
	clicks      []string
	values      map[string]string
	screenshots int
}

// Visited returns every URL passed to Goto.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// Clicks returns every clicked selector.
func (p *Page) Clicks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.clicks...)
}

// Value returns what was filled into selector.
func (p *Page) Value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[selector]
}

// Screenshots returns how many captures were taken.
func (p *Page) Screenshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screenshots
}

// Goto implements ports.Page.
func (p *Page) Goto(ctx context.Context, url string) error {
	if err := p.browser.usable(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	p.url = url
	p.visited = append(p.visited, url)
	p.mu.Unlock()
	return nil
}

// Click implements ports.Page.
func (p *Page) Click(ctx context.Context, selector string) error {
	if err := p.requireElement(ctx, selector); err != nil {
		return err
	}
	p.mu.Lock()
	p.clicks = append(p.clicks, selector)
	p.mu.Unlock()
	return nil
}

// Fill implements ports.Page.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if err := p.requireElement(ctx, selector); err != nil {
		return err
	}
	p.mu.Lock()
	p.values[selector] = value
	p.mu.Unlock()
	return nil
}

// TextContent implements ports.Page.
func (p *Page) TextContent(ctx context.Context, selector string) (string, error) {
	if err := p.requireElement(ctx, selector); err != nil {
		return "", err
	}
	return p.site().Elements[selector], nil
}

// WaitForSelector implements ports.Page.
func (p *Page) WaitForSelector(ctx context.Context, selector string) error {
	return p.requireElement(ctx, selector)
}

// Evaluate implements ports.Page by round-tripping the site's canned result
// through JSON into out.
func (p *Page) Evaluate(ctx context.Context, expression string, out interface{}) error {
	if err := p.browser.usable(ctx); err != nil {
		return err
	}
	value, ok := p.site().Eval[expression]
	if !ok {
		return fmt.Errorf("evaluate %q: no canned result", expression)
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Title implements ports.Page.
func (p *Page) Title(ctx context.Context) (string, error) {
	if err := p.browser.usable(ctx); err != nil {
		return "", err
	}
	return p.site().Title, nil
}

// URL implements ports.Page.
func (p *Page) URL(ctx context.Context) (string, error) {
	if err := p.browser.usable(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

// WaitForLoadState implements ports.Page.
func (p *Page) WaitForLoadState(ctx context.Context, _ ports.LoadState) error {
	if err := p.browser.usable(ctx); err != nil {
		return err
	}
	return p.browser.launcher.LoadErr
}

// Screenshot implements ports.Page. Captures are numbered per page.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := p.browser.usable(ctx); err != nil {
		return nil, err
	}
	if p.browser.launcher.ScreenshotErr != nil {
		return nil, p.browser.launcher.ScreenshotErr
	}
	p.mu.Lock()
	p.screenshots++
	n := p.screenshots
	p.mu.Unlock()
	return []byte(fmt.Sprintf("screenshot-%d", n)), nil
}

func (p *Page) site() Site {
	p.mu.Lock()
	url := p.url
	p.mu.Unlock()
	return p.browser.launcher.Sites[url]
}

func (p *Page) requireElement(ctx context.Context, selector string) error {
	if err := p.browser.usable(ctx); err != nil {
		return err
	}
	if _, ok := p.site().Elements[selector]; !ok {
		return fmt.Errorf("no element matches selector %q", selector)
	}
	return nil
}

var (
	_ ports.BrowserLauncher = (*Launcher)(nil)
	_ ports.Browser         = (*Browser)(nil)
	_ ports.Page            = (*Page)(nil)
)

package ports

import "context"

// LoadState names a page lifecycle milestone a page can be waited on.
type LoadState string

const (
	// LoadStateLoad waits for the load event (document.readyState == "complete").
	LoadStateLoad LoadState = "load"
	// LoadStateDOMContentLoaded waits for DOMContentLoaded.
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
)

// Viewport sets the page dimensions in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configures a browser instance.
type LaunchOptions struct {
	Headless     bool
	ExecPath     string
	NoSandbox    bool
	Viewport     Viewport
	ExtraHeaders map[string]string
}

// BrowserLauncher starts browser instances for one automation engine. The
// runner resolves a launcher by browser type and calls Launch once per journey.
type BrowserLauncher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a running browser instance. Close must release every context and
// page created from it and must be safe to call once after any failure.
type Browser interface {
	NewContext(ctx context.Context) (BrowserContext, error)
	Close(ctx context.Context) error
}

// BrowserContext is an isolated browsing context (separate cookies, storage,
// cache) within a Browser.
type BrowserContext interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single tab. Every method blocks until the underlying operation
// completes or ctx is done.
type Page interface {
	Goto(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	TextContent(ctx context.Context, selector string) (string, error)
	WaitForSelector(ctx context.Context, selector string) error
	Evaluate(ctx context.Context, expression string, out interface{}) error
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	WaitForLoadState(ctx context.Context, state LoadState) error
	Screenshot(ctx context.Context) ([]byte, error)
}

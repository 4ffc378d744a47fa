// Package chromium implements the browser provider on top of chromedp.
package chromium

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Names lists the browser types this package serves.
var Names = []string{"chromium", "chrome"}

// Launcher starts Chromium through the DevTools protocol.
type Launcher struct {
	logger ports.Logger
}

// NewLauncher creates a chromedp launcher.
func NewLauncher(logger ports.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Launch implements ports.BrowserLauncher. The browser outlives ctx; it is
// torn down only by Close.
func (l *Launcher) Launch(ctx context.Context, opts ports.LaunchOptions) (ports.Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	select {
	case err := <-started:
		if err != nil {
			browserCancel()
			allocCancel()
			return nil, fmt.Errorf("start chromium: %w", err)
		}
	case <-ctx.Done():
		browserCancel()
		allocCancel()
		return nil, ctx.Err()
	}

	if l.logger != nil {
		l.logger.Debug(ctx, "chromium started", "headless", opts.Headless, "exec_path", opts.ExecPath)
	}
	return &browser{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		opts:        opts,
	}, nil
}

func allocatorOptions(opts ports.LaunchOptions) []chromedp.ExecAllocatorOption {
	options := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if !opts.Headless {
		options = append(options, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		options = append(options, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.NoSandbox {
		options = append(options, chromedp.NoSandbox)
	}
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		options = append(options, chromedp.WindowSize(opts.Viewport.Width, opts.Viewport.Height))
	}
	return options
}

type browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        ports.LaunchOptions

	mu       sync.Mutex
	contexts []*browserContext
	once     sync.Once
}

func (b *browser) NewContext(ctx context.Context) (ports.BrowserContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.ctx.Err(); err != nil {
		return nil, fmt.Errorf("browser is closed: %w", err)
	}
	tabCtx, cancel := chromedp.NewContext(b.ctx, chromedp.WithNewBrowserContext())
	bc := &browserContext{ctx: tabCtx, cancel: cancel, opts: b.opts}
	b.mu.Lock()
	b.contexts = append(b.contexts, bc)
	b.mu.Unlock()
	return bc, nil
}

func (b *browser) Close(context.Context) error {
	var err error
	b.once.Do(func() {
		b.mu.Lock()
		for _, bc := range b.contexts {
			bc.close()
		}
		b.mu.Unlock()
		err = chromedp.Cancel(b.ctx)
		b.cancel()
		b.allocCancel()
	})
	return err
}

type browserContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   ports.LaunchOptions

	mu        sync.Mutex
	firstUsed bool
	extra     []context.CancelFunc
}

// NewPage returns the context's initial tab on first use and opens further
// tabs in the same browser context afterwards.
func (c *browserContext) NewPage(ctx context.Context) (ports.Page, error) {
	c.mu.Lock()
	tabCtx := c.ctx
	if c.firstUsed {
		var cancel context.CancelFunc
		tabCtx, cancel = chromedp.NewContext(c.ctx)
		c.extra = append(c.extra, cancel)
	}
	c.firstUsed = true
	c.mu.Unlock()

	p := &page{ctx: tabCtx}
	if err := p.run(ctx, setupActions(c.opts)...); err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return p, nil
}

func (c *browserContext) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cancel := range c.extra {
		cancel()
	}
	c.cancel()
}

func setupActions(opts ports.LaunchOptions) []chromedp.Action {
	var actions []chromedp.Action
	if len(opts.ExtraHeaders) > 0 {
		headers := make(network.Headers, len(opts.ExtraHeaders))
		for k, v := range opts.ExtraHeaders {
			headers[k] = v
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		actions = append(actions, emulation.SetDeviceMetricsOverride(int64(opts.Viewport.Width), int64(opts.Viewport.Height), 1, false))
	}
	return actions
}

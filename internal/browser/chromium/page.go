package chromium

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

type page struct {
	ctx context.Context
}

// run executes actions on the tab while honoring the caller's cancellation
// and deadline. The tab context itself is left untouched.
func (p *page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (p *page) Goto(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *page) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (p *page) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (p *page) TextContent(ctx context.Context, selector string) (string, error) {
	var text string
	if err := p.run(ctx, chromedp.TextContent(selector, &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}

func (p *page) WaitForSelector(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *page) Evaluate(ctx context.Context, expression string, out interface{}) error {
	return p.run(ctx, chromedp.Evaluate(expression, out))
}

func (p *page) Title(ctx context.Context) (string, error) {
	var title string
	if err := p.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

func (p *page) URL(ctx context.Context) (string, error) {
	var location string
	if err := p.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}

func (p *page) WaitForLoadState(ctx context.Context, state ports.LoadState) error {
	expression, err := readyStateExpression(state)
	if err != nil {
		return err
	}
	var ready bool
	return p.run(ctx, chromedp.Poll(expression, &ready))
}

func (p *page) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func readyStateExpression(state ports.LoadState) (string, error) {
	switch state {
	case "", ports.LoadStateLoad:
		return `document.readyState === "complete"`, nil
	case ports.LoadStateDOMContentLoaded:
		return `document.readyState !== "loading"`, nil
	default:
		return "", fmt.Errorf("unsupported load state %q", state)
	}
}

var (
	_ ports.BrowserLauncher = (*Launcher)(nil)
	_ ports.Page            = (*page)(nil)
)

package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/journeyman/internal/config"
	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
)

// action compiles a declarative step into a StepFunc.
func (ld *Loader) action(step config.Step) (journey.StepFunc, error) {
	switch step.Action {
	case config.ActionGoto:
		return func(ctx context.Context, sc journey.StepContext) error {
			url, err := render("url", step.URL, sc.Params)
			if err != nil {
				return err
			}
			return sc.Page.Goto(ctx, url)
		}, nil

	case config.ActionClick:
		return func(ctx context.Context, sc journey.StepContext) error {
			selector, err := render("selector", step.Selector, sc.Params)
			if err != nil {
				return err
			}
			return sc.Page.Click(ctx, selector)
		}, nil

	case config.ActionFill:
		return func(ctx context.Context, sc journey.StepContext) error {
			selector, err := render("selector", step.Selector, sc.Params)
			if err != nil {
				return err
			}
			value, err := render("value", step.Value, sc.Params)
			if err != nil {
				return err
			}
			return sc.Page.Fill(ctx, selector, value)
		}, nil

	case config.ActionWaitFor:
		return func(ctx context.Context, sc journey.StepContext) error {
			selector, err := render("selector", step.Selector, sc.Params)
			if err != nil {
				return err
			}
			return sc.Page.WaitForSelector(ctx, selector)
		}, nil

	case config.ActionAssertText:
		return func(ctx context.Context, sc journey.StepContext) error {
			selector, err := render("selector", step.Selector, sc.Params)
			if err != nil {
				return err
			}
			expected, err := render("contains", step.Contains, sc.Params)
			if err != nil {
				return err
			}
			text, err := sc.Page.TextContent(ctx, selector)
			if err != nil {
				return err
			}
			return assertContains(fmt.Sprintf("text of %q", selector), expected, text)
		}, nil

	case config.ActionAssertTitle:
		return func(ctx context.Context, sc journey.StepContext) error {
			expected, err := render("contains", step.Contains, sc.Params)
			if err != nil {
				return err
			}
			title, err := sc.Page.Title(ctx)
			if err != nil {
				return err
			}
			return assertContains("page title", expected, title)
		}, nil

	case config.ActionEvaluate:
		return func(ctx context.Context, sc journey.StepContext) error {
			expression, err := render("expression", step.Expression, sc.Params)
			if err != nil {
				return err
			}
			var result interface{}
			if err := sc.Page.Evaluate(ctx, expression, &result); err != nil {
				return err
			}
			ld.logger.Debug(ctx, "expression evaluated", "step", step.Name, "result", result)
			return nil
		}, nil

	case config.ActionSleep:
		d := step.SleepDuration()
		return func(ctx context.Context, _ journey.StepContext) error {
			return ld.sleep(ctx, d)
		}, nil
	}

	return nil, fmt.Errorf("unknown action %q", step.Action)
}

func assertContains(subject, expected, actual string) error {
	if strings.Contains(actual, expected) {
		return nil
	}
	return &AssertionError{Subject: subject, Expected: expected, Actual: actual}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

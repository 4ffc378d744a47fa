package runner

import (
	"context"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

// acquire opens a browser, an isolated context, and a page for one journey.
// When a later phase fails the browser is closed before returning, so the
// caller only owns a session on success.
func (r *Runner) acquire(ctx context.Context, name string, opts Options) (journey.Session, error) {
	launcher, err := r.browsers.Get(opts.browserType())
	if err != nil {
		return journey.Session{}, journeyerrors.NewSessionError(name, journeyerrors.PhaseLaunch, err)
	}

	b, err := launcher.Launch(ctx, opts.Launch)
	if err != nil {
		return journey.Session{}, journeyerrors.NewSessionError(name, journeyerrors.PhaseLaunch, err)
	}

	bctx, err := b.NewContext(ctx)
	if err != nil {
		r.closeBrowser(ctx, name, journey.Session{Browser: b})
		return journey.Session{}, journeyerrors.NewSessionError(name, journeyerrors.PhaseContext, err)
	}

	page, err := bctx.NewPage(ctx)
	if err != nil {
		r.closeBrowser(ctx, name, journey.Session{Browser: b})
		return journey.Session{}, journeyerrors.NewSessionError(name, journeyerrors.PhasePage, err)
	}

	return journey.Session{Browser: b, Context: bctx, Page: page}, nil
}

// closeBrowser releases the session. Close failures are logged, not reported:
// the journey's outcome is already decided.
func (r *Runner) closeBrowser(ctx context.Context, name string, session journey.Session) {
	if session.Browser == nil {
		return
	}
	if err := session.Browser.Close(context.WithoutCancel(ctx)); err != nil {
		r.logger.Warn(ctx, "failed to close browser", ports.FieldJourney, name, "error", err)
	}
}

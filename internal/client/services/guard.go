package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gymkeeper/internal/client/records"
	"github.com/dmitrijs2005/gymkeeper/internal/client/store"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
)

// Decision is a navigation outcome.
type Decision int

const (
	RenderLoading Decision = iota
	RenderProtected
	RedirectToLogin
	RenderConfirmation
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case RenderLoading:
		return "render-loading"
	case RenderProtected:
		return "render-protected"
	case RedirectToLogin:
		return "redirect-to-login"
	case RenderConfirmation:
		return "render-confirmation"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

const (
	LoginLocation     = "/login"
	DashboardLocation = "/dashboard"
)

// RedirectError asks the caller to navigate to Location and come back to
// ReturnTo afterwards. It matches common.ErrLoginRequired.
type RedirectError struct {
	Location string
	ReturnTo string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s (return to %s)", e.Location, e.ReturnTo)
}

func (e *RedirectError) Is(target error) bool {
	return target == common.ErrLoginRequired
}

// Decide is the pure gating rule. While loading nothing else matters; the
// legacy marker alone is enough to let a request through.
func Decide(hasUser, isLoading, hasLegacyMarker bool) Decision {
	if isLoading {
		return RenderLoading
	}
	if !hasUser && !hasLegacyMarker {
		return RedirectToLogin
	}
	return RenderProtected
}

type Outcome struct {
	Decision Decision
	ReturnTo string
}

// RouteGuard applies Decide to the live session.
type RouteGuard struct {
	session SessionManager
	store   store.Repository
	logger  logging.Logger
}

func NewRouteGuard(session SessionManager, st store.Repository, logger logging.Logger) *RouteGuard {
	return &RouteGuard{session: session, store: st, logger: logger.With("component", "guard")}
}

// Check gates location. A store error while probing the legacy marker
// counts as "no marker".
func (g *RouteGuard) Check(ctx context.Context, location string) Outcome {
	if g.session.IsLoading() {
		return Outcome{Decision: RenderLoading}
	}

	hasUser := g.session.CurrentUser() != nil
	hasLegacy := false
	if !hasUser {
		raw, err := g.store.Get(ctx, records.KeyLegacyUser)
		if err != nil {
			g.logger.Warn(ctx, "legacy marker lookup failed", "error", err)
		}
		hasLegacy = raw != nil
	}

	d := Decide(hasUser, false, hasLegacy)
	if d == RedirectToLogin {
		return Outcome{Decision: d, ReturnTo: location}
	}
	return Outcome{Decision: d}
}

package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
)

// ExpiryNotice is emitted when the member's membership changes to
// expiring or expired.
type ExpiryNotice struct {
	MemberID string
	Status   models.MembershipStatus
	Overview MembershipOverview
}

// ExpiryWatcher polls the session and reports each status change once.
type ExpiryWatcher struct {
	session SessionManager
	notify  func(ExpiryNotice)
	logger  logging.Logger
	now     func() time.Time

	lastMember string
	lastStatus models.MembershipStatus
}

func NewExpiryWatcher(session SessionManager, logger logging.Logger, notify func(ExpiryNotice)) *ExpiryWatcher {
	return &ExpiryWatcher{
		session: session,
		notify:  notify,
		logger:  logger.With("component", "expiry"),
		now:     time.Now,
	}
}

// Run checks immediately and then on every tick until ctx is done.
func (w *ExpiryWatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *ExpiryWatcher) check(ctx context.Context) {
	u := w.session.CurrentUser()
	if u == nil || u.Membership == nil {
		w.lastMember, w.lastStatus = "", ""
		return
	}

	o, err := Overview(*u, w.now())
	if err != nil {
		w.logger.Warn(ctx, "cannot evaluate membership", "member_id", u.ID, "error", err)
		return
	}

	if u.ID == w.lastMember && o.Status == w.lastStatus {
		return
	}
	w.lastMember, w.lastStatus = u.ID, o.Status

	if o.Status == models.StatusActive {
		return
	}
	w.logger.Debug(ctx, "membership status changed", "member_id", u.ID, "status", o.Status)
	w.notify(ExpiryNotice{MemberID: u.ID, Status: o.Status, Overview: *o})
}

package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
)

type Step int

const (
	StepPlan Step = iota + 1
	StepBranch
	StepPayment
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepPlan:
		return "plan"
	case StepBranch:
		return "branch"
	case StepPayment:
		return "payment"
	case StepSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// GSTRate is applied on top of the plan price for display.
const GSTRate = 0.18

// Summary is the order summary shown next to every step. It is derived
// from the selections only, so asking twice gives the same answer.
type Summary struct {
	Plan     models.Plan
	Branch   *models.Branch
	Method   PaymentMethod
	Subtotal int
	GST      int
	Total    int
}

// Enrollment walks a member through plan → branch → payment.
type Enrollment struct {
	session SessionManager
	gateway PaymentGateway
	handoff *Handoff
	logger  logging.Logger
	now     func() time.Time

	mu       sync.Mutex
	step     Step
	plan     models.Plan
	branch   *models.Branch
	method   PaymentMethod
	inFlight bool
}

type EnrollmentOption func(*Enrollment)

// WithClock overrides the time source used for membership dates.
func WithClock(now func() time.Time) EnrollmentOption {
	return func(e *Enrollment) { e.now = now }
}

// NewEnrollment starts at the plan step with planID preselected. An empty or
// unknown id falls back to catalog.DefaultPlanID.
func NewEnrollment(session SessionManager, gateway PaymentGateway, handoff *Handoff, logger logging.Logger, planID string, opts ...EnrollmentOption) *Enrollment {
	plan, err := catalog.Plan(planID)
	if err != nil {
		plan, _ = catalog.Plan(catalog.DefaultPlanID)
	}

	e := &Enrollment{
		session: session,
		gateway: gateway,
		handoff: handoff,
		logger:  logger.With("component", "enrollment"),
		now:     time.Now,
		step:    StepPlan,
		plan:    plan,
		method:  MethodUPI,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Begin is the entry guard. Without a signed-in member it returns a
// *RedirectError pointing at the login page.
func (e *Enrollment) Begin(ctx context.Context, returnTo string) error {
	if e.session.CurrentUser() == nil {
		return &RedirectError{Location: LoginLocation, ReturnTo: returnTo}
	}
	return nil
}

func (e *Enrollment) Step() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// mutable is called with e.mu held.
func (e *Enrollment) mutable(want Step) error {
	if e.inFlight {
		return common.ErrPaymentInProgress
	}
	if e.step != want {
		return fmt.Errorf("%w: at %s, need %s", common.ErrWrongStep, e.step, want)
	}
	return nil
}

func (e *Enrollment) SelectPlan(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutable(StepPlan); err != nil {
		return err
	}
	p, err := catalog.Plan(id)
	if err != nil {
		return err
	}
	e.plan = p
	return nil
}

func (e *Enrollment) SelectBranch(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutable(StepBranch); err != nil {
		return err
	}
	b, err := catalog.Branch(id)
	if err != nil {
		return err
	}
	e.branch = &b
	return nil
}

func (e *Enrollment) SelectPaymentMethod(m PaymentMethod) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutable(StepPayment); err != nil {
		return err
	}
	if !m.valid() {
		return fmt.Errorf("%w: %q", common.ErrUnknownMethod, m)
	}
	e.method = m
	return nil
}

// Next moves forward one step. Leaving the branch step needs a branch.
func (e *Enrollment) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return common.ErrPaymentInProgress
	}
	switch e.step {
	case StepPlan:
		e.step = StepBranch
	case StepBranch:
		if e.branch == nil {
			return common.ErrBranchRequired
		}
		e.step = StepPayment
	default:
		return fmt.Errorf("%w: no step after %s", common.ErrWrongStep, e.step)
	}
	return nil
}

// Back moves one step back. It is a no-op on the first step; selections
// are kept.
func (e *Enrollment) Back() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return common.ErrPaymentInProgress
	}
	switch e.step {
	case StepBranch:
		e.step = StepPlan
	case StepPayment:
		e.step = StepBranch
	case StepSubmitted:
		return fmt.Errorf("%w: enrollment already submitted", common.ErrWrongStep)
	}
	return nil
}

func (e *Enrollment) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	price := float64(e.plan.PriceValue())
	s := Summary{
		Plan:     clonePlan(e.plan),
		Method:   e.method,
		Subtotal: e.plan.PriceValue(),
		GST:      int(math.Round(price * GSTRate)),
		Total:    int(math.Round(price * (1 + GSTRate))),
	}
	if e.branch != nil {
		b := *e.branch
		s.Branch = &b
	}
	return s
}

func clonePlan(p models.Plan) models.Plan {
	p.Features = append([]string(nil), p.Features...)
	return p
}

// Submit charges the member, grants the membership and publishes the
// confirmation. A second Submit while the charge is running gets
// ErrPaymentInProgress. If the charge fails the machine stays on the
// payment step.
func (e *Enrollment) Submit(ctx context.Context) (*Confirmation, error) {
	e.mu.Lock()
	if err := e.mutable(StepPayment); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.branch == nil {
		e.mu.Unlock()
		return nil, common.ErrBranchRequired
	}
	member := e.session.CurrentUser()
	if member == nil {
		e.mu.Unlock()
		return nil, common.ErrLoginRequired
	}
	plan, branch, method := e.plan, *e.branch, e.method
	e.inFlight = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	started := e.now()
	paymentID, err := e.gateway.Charge(ctx, method)
	if err != nil {
		e.logger.Warn(ctx, "payment failed", "plan", plan.ID, "method", method, "error", err)
		return nil, fmt.Errorf("payment error: %w", err)
	}
	e.logger.Debug(ctx, "payment approved", "txn", paymentID, "took", e.now().Sub(started))

	// the member may have signed out while the charge was running
	if u := e.session.CurrentUser(); u == nil || u.ID != member.ID {
		e.logger.Error(ctx, "payment approved without a signed-in member", "txn", paymentID, "member_id", member.ID)
		return nil, common.ErrLoginRequired
	}

	start := e.now().UTC().Round(0)
	membership := models.Membership{
		PlanID:   plan.ID,
		Start:    start,
		End:      plan.EndDate(start),
		BranchID: branch.ID,
	}
	txn := models.Transaction{
		ID:          paymentID,
		Date:        start,
		Description: plan.Name + " Membership",
		Amount:      plan.Price,
		Status:      models.TransactionPaid,
		Method:      strings.ToUpper(string(method)),
	}

	if err := e.session.UpdateMembership(ctx, membership, txn); err != nil {
		return nil, err
	}
	// UpdateMembership is a no-op once the session is gone
	if !recorded(e.session.CurrentUser(), member.ID, paymentID) {
		e.logger.Error(ctx, "membership not recorded for approved payment", "txn", paymentID, "member_id", member.ID)
		return nil, common.ErrLoginRequired
	}

	conf := Confirmation{
		Plan:      plan,
		Branch:    branch,
		PaymentID: paymentID,
		Start:     membership.Start,
		End:       membership.End,
	}
	e.handoff.Put(conf)

	e.mu.Lock()
	e.step = StepSubmitted
	e.mu.Unlock()

	return &conf, nil
}

// recorded reports whether u is memberID and carries the transaction paymentID.
func recorded(u *models.User, memberID, paymentID string) bool {
	if u == nil || u.ID != memberID {
		return false
	}
	for _, t := range u.Transactions {
		if t.ID == paymentID {
			return true
		}
	}
	return false
}

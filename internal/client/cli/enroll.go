package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

const (
	enrollLocation       = "/enroll"
	confirmationLocation = "/confirmation"
	dateLayout           = "Jan 02, 2006"
)

// Enroll walks the member through plan, branch and payment. Typing "back"
// returns to the previous step and "cancel" abandons the flow.
func (a *App) Enroll(ctx context.Context) error {
	planID, err := a.ask("Plan id [" + catalog.DefaultPlanID + "]")
	if err != nil {
		return err
	}

	e := services.NewEnrollment(a.session, a.gateway, a.handoff, a.logger, planID)
	if err := e.Begin(ctx, enrollLocation); err != nil {
		var redirect *services.RedirectError
		if !errors.As(err, &redirect) {
			return err
		}
		a.println("Please log in to continue.")
		if err := a.Login(ctx); err != nil {
			return err
		}
		if err := e.Begin(ctx, redirect.ReturnTo); err != nil {
			return err
		}
	}

	for e.Step() != services.StepSubmitted {
		done, err := a.enrollStep(ctx, e)
		if err != nil {
			return err
		}
		if done {
			a.println("Enrollment cancelled.")
			return nil
		}
	}

	return a.Confirmation(ctx)
}

// enrollStep handles one prompt of the flow. Selection errors are shown and
// the step is asked again; only input errors end the flow.
func (a *App) enrollStep(ctx context.Context, e *services.Enrollment) (cancelled bool, err error) {
	sum := e.Summary()
	step := e.Step()
	a.printf("\n[%d/3] %s | %s %s\n", int(step), step, sum.Plan.Name, sum.Plan.Price)

	var answer string
	switch step {
	case services.StepPlan:
		for _, p := range catalog.Plans() {
			a.printf("  %-10s %s %s / %s\n", p.ID, p.Name, p.Price, p.Duration)
		}
		answer, err = a.ask("Plan id (Enter keeps " + sum.Plan.ID + ")")
	case services.StepBranch:
		for _, b := range catalog.Branches() {
			a.printf("  %-4s %s\n", b.ID, b.Name)
		}
		answer, err = a.ask("Branch id (or back)")
	case services.StepPayment:
		a.printSummary(sum)
		methods := make([]string, 0, len(services.PaymentMethods))
		for _, m := range services.PaymentMethods {
			methods = append(methods, string(m))
		}
		answer, err = a.ask("Payment method " + strings.Join(methods, "/") + " to switch, pay or Enter to confirm, back")
	}
	if err != nil {
		return false, err
	}

	switch answer {
	case "cancel":
		return true, nil
	case "back":
		a.report(e.Back())
		return false, nil
	}

	switch step {
	case services.StepPlan:
		if answer != "" && !a.report(e.SelectPlan(answer)) {
			return false, nil
		}
		a.report(e.Next())

	case services.StepBranch:
		if answer != "" && !a.report(e.SelectBranch(answer)) {
			return false, nil
		}
		a.report(e.Next())

	case services.StepPayment:
		if answer != "" && answer != "pay" {
			a.report(e.SelectPaymentMethod(services.PaymentMethod(answer)))
			return false, nil
		}
		a.println("Processing payment...")
		if _, err := e.Submit(ctx); err != nil {
			if errors.Is(err, common.ErrLoginRequired) {
				return false, err
			}
			a.report(err)
		}
	}
	return false, nil
}

// report prints a recoverable error and tells whether there was none.
func (a *App) report(err error) bool {
	if err == nil {
		return true
	}
	a.println("!", err)
	return false
}

func (a *App) printSummary(s services.Summary) {
	a.println("Order summary")
	a.printf("  Plan:     %s (%s)\n", s.Plan.Name, s.Plan.Duration)
	if s.Branch != nil {
		a.printf("  Branch:   %s\n", s.Branch.Name)
	}
	a.printf("  Method:   %s\n", strings.ToUpper(string(s.Method)))
	a.printf("  Subtotal: ₹%d\n", s.Subtotal)
	a.printf("  GST 18%%:  ₹%d\n", s.GST)
	a.printf("  Total:    ₹%d\n", s.Total)
}

// Confirmation shows the result of the last purchase once. Without one the
// member is sent to the dashboard.
func (a *App) Confirmation(ctx context.Context) error {
	return a.guarded(ctx, confirmationLocation, func(ctx context.Context) error {
		c, decision := a.handoff.Resolve()
		if decision == services.RedirectToDashboard {
			return a.Dashboard(ctx)
		}

		a.println("Payment successful! Welcome to the family.")
		a.printf("  Plan:       %s\n", c.Plan.Name)
		a.printf("  Branch:     %s\n", c.Branch.Name)
		a.printf("  Payment id: %s\n", c.PaymentID)
		a.printf("  Valid:      %s to %s\n", c.Start.Format(dateLayout), c.End.Format(dateLayout))
		return nil
	})
}

package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/receipts"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

// Dashboard shows the member's current membership.
func (a *App) Dashboard(ctx context.Context) error {
	return a.guarded(ctx, services.DashboardLocation, func(ctx context.Context) error {
		u, err := a.member()
		if err != nil {
			return err
		}

		a.printf("Hi %s (%s)\n", u.Name, u.ID)
		o, err := services.Overview(*u, a.now())
		if err != nil {
			return err
		}
		if o == nil {
			a.println("No active membership. Type 'enroll' to pick a plan.")
			return nil
		}

		a.printf("  Plan:      %s\n", o.Plan.Name)
		if o.Branch != nil {
			a.printf("  Branch:    %s\n", o.Branch.Name)
		}
		a.printf("  Status:    %s\n", o.Status)
		a.printf("  Valid:     %s to %s\n", o.Start.Format(dateLayout), o.End.Format(dateLayout))
		a.printf("  Days left: %d (%.0f%% used)\n", o.DaysLeft, o.Progress)
		if o.RenewalHint != "" {
			a.println(o.RenewalHint)
		}
		return nil
	})
}

// Billing prints the payment history and totals.
func (a *App) Billing(ctx context.Context) error {
	return a.guarded(ctx, "/billing", func(ctx context.Context) error {
		u, err := a.member()
		if err != nil {
			return err
		}

		s := services.Billing(*u)
		a.printf("Total paid: ₹%.0f  Pending: ₹%.0f  Next due: %s\n", s.TotalPaid, s.TotalPending, s.NextDue)
		if len(s.Transactions) == 0 {
			a.println("No transactions yet.")
			return nil
		}

		a.outMu.Lock()
		defer a.outMu.Unlock()
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tAMOUNT\tMETHOD\tSTATUS")
		for _, t := range s.Transactions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date.Format(dateLayout), t.Description, t.Amount, t.Method, t.Status)
		}
		return tw.Flush()
	})
}

// Receipt renders a transaction receipt and stores it with the configured
// sink. An empty id picks the latest transaction.
func (a *App) Receipt(ctx context.Context) error {
	return a.guarded(ctx, "/billing", func(ctx context.Context) error {
		u, err := a.member()
		if err != nil {
			return err
		}
		if len(u.Transactions) == 0 {
			a.println("No transactions yet.")
			return nil
		}

		id, err := a.ask("Transaction id (Enter for the latest)")
		if err != nil {
			return err
		}
		txn, err := findTransaction(u.Transactions, id)
		if err != nil {
			return err
		}

		location, err := receipts.Save(ctx, a.sink, *u, txn)
		if err != nil {
			return err
		}
		a.printf("Receipt saved to %s\n", location)
		return nil
	})
}

func findTransaction(txns []models.Transaction, id string) (models.Transaction, error) {
	if id == "" {
		return txns[len(txns)-1], nil
	}
	for _, t := range txns {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, common.ErrorNotFound)
}

// Profile prints the member's personal details.
func (a *App) Profile(ctx context.Context) error {
	return a.guarded(ctx, "/profile", func(ctx context.Context) error {
		u, err := a.member()
		if err != nil {
			return err
		}

		branch := u.PreferredBranch
		if b, err := catalog.Branch(u.PreferredBranch); err == nil {
			branch = b.Name
		}
		a.printf("  Member id: %s\n", u.ID)
		a.printf("  Name:      %s\n", u.Name)
		a.printf("  Email:     %s\n", u.Email)
		a.printf("  Phone:     %s\n", u.Phone)
		a.printf("  Branch:    %s\n", branch)
		a.printf("  Emergency: %s\n", u.EmergencyContact)
		return nil
	})
}

// EditProfile asks for each editable field. Enter keeps the current value.
func (a *App) EditProfile(ctx context.Context) error {
	return a.guarded(ctx, "/profile", func(ctx context.Context) error {
		u, err := a.member()
		if err != nil {
			return err
		}

		upd := services.ProfileUpdate{
			Name:             u.Name,
			Phone:            u.Phone,
			EmergencyContact: u.EmergencyContact,
			PreferredBranch:  u.PreferredBranch,
		}
		fields := []struct {
			label string
			dst   *string
		}{
			{"Name", &upd.Name},
			{"Phone", &upd.Phone},
			{"Emergency contact", &upd.EmergencyContact},
			{"Preferred branch id", &upd.PreferredBranch},
		}
		for _, f := range fields {
			v, err := a.ask(fmt.Sprintf("%s [%s]", f.label, *f.dst))
			if err != nil {
				return err
			}
			if v != "" {
				*f.dst = v
			}
		}
		if upd.PreferredBranch != "" {
			if _, err := catalog.Branch(upd.PreferredBranch); err != nil {
				return err
			}
		}

		if err := a.session.UpdateProfile(ctx, upd); err != nil {
			return err
		}
		a.println("Profile updated.")
		return nil
	})
}

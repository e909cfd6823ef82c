package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
)

type MembershipOverview struct {
	Plan     models.Plan
	Branch   *models.Branch
	Start    time.Time
	End      time.Time
	DaysLeft int
	Progress float64
	Status   models.MembershipStatus
	// RenewalHint is empty while the membership is comfortably active.
	RenewalHint string
}

// Overview describes u's membership at now. It returns nil when u has never
// bought one. A branch missing from the catalog leaves Branch nil.
func Overview(u models.User, now time.Time) (*MembershipOverview, error) {
	m := u.Membership
	if m == nil {
		return nil, nil
	}

	plan, err := catalog.Plan(m.PlanID)
	if err != nil {
		return nil, err
	}

	o := &MembershipOverview{
		Plan:     plan,
		Start:    m.Start,
		End:      m.End,
		DaysLeft: max(0, m.DaysLeft(now)),
		Progress: m.Progress(now),
		Status:   m.Status(now),
	}
	if b, err := catalog.Branch(m.BranchID); err == nil {
		o.Branch = &b
	}

	switch o.Status {
	case models.StatusExpiring:
		o.RenewalHint = fmt.Sprintf("Your %s plan expires in %d days. Renew now to keep your streak alive.", plan.Name, o.DaysLeft)
	case models.StatusExpired:
		o.RenewalHint = fmt.Sprintf("Your %s plan has expired. Renew to get back in.", plan.Name)
	}
	return o, nil
}

type BillingSummary struct {
	TotalPaid    float64
	TotalPending float64
	// NextDue is the membership end date ("Jan 02, 2006") or "N/A".
	NextDue      string
	Transactions []models.Transaction
}

func Billing(u models.User) BillingSummary {
	s := BillingSummary{NextDue: "N/A"}
	for _, t := range u.Transactions {
		switch t.Status {
		case models.TransactionPaid:
			s.TotalPaid += t.AmountValue()
		case models.TransactionPending:
			s.TotalPending += t.AmountValue()
		}
	}
	if u.Membership != nil {
		s.NextDue = u.Membership.End.Format("Jan 02, 2006")
	}
	s.Transactions = append([]models.Transaction(nil), u.Transactions...)
	return s
}

// Package models defines the member-side data model: users, their current
// membership and the append-only transaction ledger, plus catalog types.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// User is a registered member. Email is the login key; Password is only ever
// populated in the registered-user table, never in the session record.
type User struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone,omitempty"`
	Password         string        `json:"password,omitempty"`
	PasswordScheme   string        `json:"passwordScheme,omitempty"`
	PreferredBranch  string        `json:"preferredBranch,omitempty"`
	EmergencyContact string        `json:"emergencyContact,omitempty"`
	Membership       *Membership   `json:"membership,omitempty"`
	Transactions     []Transaction `json:"transactions,omitempty"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	if u.Membership != nil {
		m := *u.Membership
		c.Membership = &m
	}
	if u.Transactions != nil {
		c.Transactions = append([]Transaction(nil), u.Transactions...)
	}
	return c
}

// WithoutPassword returns a deep copy of u with the credential dropped.
func (u User) WithoutPassword() User {
	c := u.Clone()
	c.Password = ""
	c.PasswordScheme = ""
	return c
}

// MembershipStatus is derived from the end date; it is never stored.
type MembershipStatus string

const (
	StatusActive   MembershipStatus = "active"
	StatusExpiring MembershipStatus = "expiring"
	StatusExpired  MembershipStatus = "expired"
)

// ExpiringWindowDays is how close to the end date a membership counts as expiring.
const ExpiringWindowDays = 30

// Membership is the current plan grant. A new purchase replaces it.
type Membership struct {
	PlanID   string    `json:"planId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BranchID string    `json:"branchId"`
}

// DaysLeft rounds the remaining time up to whole days; zero or negative
// once the end date has passed.
func (m Membership) DaysLeft(now time.Time) int {
	left := m.End.Sub(now)
	return int(math.Ceil(left.Hours() / 24))
}

func (m Membership) Status(now time.Time) MembershipStatus {
	days := m.DaysLeft(now)
	switch {
	case days <= 0:
		return StatusExpired
	case days <= ExpiringWindowDays:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// Progress is the share of the membership window still remaining, 0..100.
func (m Membership) Progress(now time.Time) float64 {
	total := m.End.Sub(m.Start)
	if total <= 0 {
		return 0
	}
	p := float64(m.End.Sub(now)) / float64(total) * 100
	return math.Max(0, math.Min(100, p))
}

type TransactionStatus string

const (
	TransactionPaid    TransactionStatus = "paid"
	TransactionPending TransactionStatus = "pending"
)

// Transaction is one ledger entry. Entries are appended, never edited.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Amount      string            `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Method      string            `json:"method"`
}

// AmountValue parses the display amount ("₹14,999") into a number.
// Unparseable amounts count as zero.
func (t Transaction) AmountValue() float64 {
	s := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(t.Amount)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

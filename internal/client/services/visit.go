package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	firstVisitHour = 6
	lastVisitHour  = 23
	visitDays      = 7
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// VisitSlots returns the hourly slots a free visit can be booked for,
// "6:00 AM" through "11:00 PM".
func VisitSlots() []string {
	slots := make([]string, 0, lastVisitHour-firstVisitHour+1)
	for h := firstVisitHour; h <= lastVisitHour; h++ {
		slots = append(slots, time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("3:04 PM"))
	}
	return slots
}

type VisitDay struct {
	Value string // 2006-01-02
	Label string // Mon, Jan 2
}

// VisitDays lists today and the six following days.
func VisitDays(now time.Time) []VisitDay {
	days := make([]VisitDay, 0, visitDays)
	for i := 0; i < visitDays; i++ {
		d := now.AddDate(0, 0, i)
		days = append(days, VisitDay{Value: d.Format(time.DateOnly), Label: d.Format("Mon, Jan 2")})
	}
	return days
}

type VisitRequest struct {
	Branch string // id or slug
	Date   string
	Slot   string
	Name   string
	Phone  string
}

type VisitBooking struct {
	Reference string
	Branch    models.Branch
	Date      time.Time
	Slot      string
	Name      string
	Phone     string
}

// VisitBooker validates free-visit requests. Bookings are only logged.
type VisitBooker struct {
	logger logging.Logger
	now    func() time.Time
}

func NewVisitBooker(logger logging.Logger) *VisitBooker {
	return &VisitBooker{logger: logger.With("component", "visits"), now: time.Now}
}

func (v *VisitBooker) Book(ctx context.Context, req VisitRequest) (*VisitBooking, error) {
	branch, err := catalog.LookupBranch(req.Branch)
	if err != nil {
		return nil, err
	}

	offered := false
	for _, d := range VisitDays(v.now()) {
		if d.Value == req.Date {
			offered = true
			break
		}
	}
	if !offered {
		return nil, fmt.Errorf("%w: date %q is not bookable", common.ErrorValidation, req.Date)
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	slotOK := false
	for _, s := range VisitSlots() {
		if s == req.Slot {
			slotOK = true
			break
		}
	}
	if !slotOK {
		return nil, fmt.Errorf("%w: slot %q is not offered", common.ErrorValidation, req.Slot)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, fmt.Errorf("%w: phone must be 10 digits", common.ErrorValidation)
	}

	b := &VisitBooking{
		Reference: uuid.NewString(),
		Branch:    branch,
		Date:      date,
		Slot:      req.Slot,
		Name:      name,
		Phone:     req.Phone,
	}
	v.logger.Info(ctx, "visit booked",
		"ref", b.Reference, "branch", branch.Slug, "date", req.Date, "slot", req.Slot)
	return b, nil
}

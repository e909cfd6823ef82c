package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
	"github.com/dmitrijs2005/gymkeeper/internal/fitness"
)

// askFloat reads a number. Bad input is a validation error.
func (a *App) askFloat(prompt string) (float64, error) {
	s, err := a.ask(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrorValidation, s)
	}
	return v, nil
}

// pick accepts either one of options or its 1-based position.
func pick(answer string, options []string) string {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return answer
}

// BMI asks for height and weight and prints the body mass index.
func (a *App) BMI(ctx context.Context) error {
	h, err := a.askFloat("Height (cm)")
	if err != nil {
		return err
	}
	w, err := a.askFloat("Weight (kg)")
	if err != nil {
		return err
	}

	r, err := fitness.BMI(h, w)
	if err != nil {
		return err
	}
	a.printf("BMI %.1f: %s\n%s\n", r.Value, r.Category, r.Advice)
	return nil
}

// Calories estimates daily calorie needs.
func (a *App) Calories(ctx context.Context) error {
	g, err := a.ask("Gender (male/female)")
	if err != nil {
		return err
	}
	gender, err := fitness.ParseGender(g)
	if err != nil {
		return err
	}
	age, err := a.askFloat("Age (years)")
	if err != nil {
		return err
	}
	h, err := a.askFloat("Height (cm)")
	if err != nil {
		return err
	}
	w, err := a.askFloat("Weight (kg)")
	if err != nil {
		return err
	}

	for i, act := range fitness.Activities {
		a.printf("  %d. %s\n", i+1, act.Name)
	}
	choice, err := a.ask("Activity level (1-5)")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(fitness.Activities) {
		return fmt.Errorf("%w: activity must be 1-%d", common.ErrorValidation, len(fitness.Activities))
	}

	r, err := fitness.Calories(fitness.CalorieInput{
		Gender:   gender,
		Age:      age,
		HeightCm: h,
		WeightKg: w,
		Activity: fitness.Activities[n-1].Factor,
	})
	if err != nil {
		return err
	}
	a.printf("Maintenance: %d kcal\nWeight loss: %d kcal\nMuscle gain: %d kcal\n", r.Maintenance, r.Cut, r.Bulk)
	return nil
}

// Visit books a free trial visit. Days and slots can be picked by number.
func (a *App) Visit(ctx context.Context) error {
	for _, b := range catalog.Branches() {
		a.printf("  %-12s %s\n", b.Slug, b.Name)
	}
	branch, err := a.ask("Branch")
	if err != nil {
		return err
	}

	days := services.VisitDays(a.now())
	values := make([]string, 0, len(days))
	for i, d := range days {
		a.printf("  %d. %s\n", i+1, d.Label)
		values = append(values, d.Value)
	}
	day, err := a.ask("Day")
	if err != nil {
		return err
	}

	slots := services.VisitSlots()
	for i, s := range slots {
		a.printf("  %2d. %s\n", i+1, s)
	}
	slot, err := a.ask("Time slot")
	if err != nil {
		return err
	}

	req := services.VisitRequest{
		Branch: branch,
		Date:   pick(day, values),
		Slot:   pick(slot, slots),
	}
	if u := a.session.CurrentUser(); u != nil {
		req.Name, req.Phone = u.Name, u.Phone
	}
	if req.Name == "" {
		if req.Name, err = a.ask("Your name"); err != nil {
			return err
		}
	}
	if req.Phone == "" {
		if req.Phone, err = a.ask("Phone (10 digits)"); err != nil {
			return err
		}
	}

	b, err := a.visits.Book(ctx, req)
	if err != nil {
		return err
	}
	a.printf("Visit booked at %s on %s, %s. Reference %s\n", b.Branch.Name, b.Date.Format("Mon, Jan 2"), b.Slot, b.Reference)
	return nil
}

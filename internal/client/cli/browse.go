package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gymkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
)

// Plans lists the membership plans.
func (a *App) Plans(ctx context.Context) error {
	for _, p := range catalog.Plans() {
		tag := ""
		if p.Popular {
			tag = " (most popular)"
		}
		a.printf("%-10s %s%s: %s / %s\n", p.ID, p.Name, tag, p.Price, p.Duration)
		for _, f := range p.Features {
			a.printf("    - %s\n", f)
		}
	}
	return nil
}

// Branches lists every branch.
func (a *App) Branches(ctx context.Context) error {
	a.printBranches(catalog.Branches())
	return nil
}

// BranchDetails shows one branch, looked up by id or slug, with its trainers
// and map coordinates. An unknown branch falls back to the full list.
func (a *App) BranchDetails(ctx context.Context, ref string) error {
	if ref == "" {
		var err error
		if ref, err = a.ask("Branch id or slug"); err != nil {
			return err
		}
	}

	b, err := catalog.LookupBranch(ref)
	if err != nil {
		a.printf("No branch %q, showing all locations.\n", ref)
		a.printBranches(catalog.Branches())
		return nil
	}

	a.printf("%s (%s)\n", b.Name, b.Slug)
	a.printf("Address:    %s\n", b.Address)
	a.printf("Phone:      %s\n", b.Phone)
	a.printf("Hours:      %s\n", b.Hours)
	a.printf("Facilities: %s\n", strings.Join(b.Facilities, ", "))
	a.println("Trainers:")
	for _, tr := range b.Trainers {
		a.printf("    %s, %s\n", tr.Name, tr.Specialty)
	}
	a.printf("Location:   %.3f, %.3f\n", b.Lat, b.Lng)
	return nil
}

// Search filters branches by a name or address fragment and a set of
// required facilities.
func (a *App) Search(ctx context.Context) error {
	query, err := a.ask("Name or area (empty for any)")
	if err != nil {
		return err
	}
	a.printf("Facilities: %s\n", strings.Join(catalog.Facilities(), ", "))
	facilities, err := GetList(a.reader, "Required facilities, comma separated (empty for any)", a.out)
	if err != nil {
		return err
	}

	found := catalog.SearchBranches(query, facilities)
	if len(found) == 0 {
		a.println("No branches match.")
		return nil
	}
	a.printBranches(found)
	return nil
}

func (a *App) printBranches(branches []models.Branch) {
	for _, b := range branches {
		a.printf("%s  %-12s %s\n", b.ID, b.Slug, b.Name)
		a.printf("    %s | %s | %s\n", b.Address, b.Phone, b.Hours)
		a.printf("    %s\n", strings.Join(b.Facilities, ", "))
	}
}

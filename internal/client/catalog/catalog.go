// Package catalog holds the static plan and branch catalogs. Callers always
// get copies; the tables themselves never change at runtime.
package catalog

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

// DefaultPlanID is preselected when enrollment starts without a plan.
const DefaultPlanID = "monthly"

func clonePlan(p models.Plan) models.Plan {
	p.Features = append([]string(nil), p.Features...)
	return p
}

func cloneBranch(b models.Branch) models.Branch {
	b.Facilities = append([]string(nil), b.Facilities...)
	b.Trainers = append([]models.Trainer(nil), b.Trainers...)
	return b
}

func Plans() []models.Plan {
	out := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, clonePlan(p))
	}
	return out
}

func Plan(id string) (models.Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return clonePlan(p), nil
		}
	}
	return models.Plan{}, fmt.Errorf("%w: %q", common.ErrUnknownPlan, id)
}

func Branches() []models.Branch {
	out := make([]models.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, cloneBranch(b))
	}
	return out
}

func Branch(id string) (models.Branch, error) {
	for _, b := range branches {
		if b.ID == id {
			return cloneBranch(b), nil
		}
	}
	return models.Branch{}, fmt.Errorf("%w: %q", common.ErrUnknownBranch, id)
}

func BranchBySlug(slug string) (models.Branch, error) {
	for _, b := range branches {
		if b.Slug == slug {
			return cloneBranch(b), nil
		}
	}
	return models.Branch{}, fmt.Errorf("%w: %q", common.ErrUnknownBranch, slug)
}

// LookupBranch resolves a branch by id first, then by slug.
func LookupBranch(ref string) (models.Branch, error) {
	if b, err := Branch(ref); err == nil {
		return b, nil
	}
	return BranchBySlug(ref)
}

// Facilities lists every facility offered anywhere, in first-seen order.
func Facilities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range branches {
		for _, f := range b.Facilities {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// SearchBranches matches query case-insensitively against name or address
// and keeps only branches offering every requested facility. An empty query
// matches all branches.
func SearchBranches(query string, facilities []string) []models.Branch {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.Branch
	for _, b := range branches {
		if q != "" &&
			!strings.Contains(strings.ToLower(b.Name), q) &&
			!strings.Contains(strings.ToLower(b.Address), q) {
			continue
		}
		if !hasAll(b, facilities) {
			continue
		}
		out = append(out, cloneBranch(b))
	}
	return out
}

func hasAll(b models.Branch, facilities []string) bool {
	for _, f := range facilities {
		if !b.HasFacility(f) {
			return false
		}
	}
	return true
}
